package ingest_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whalewatch/whale-alert/internal/domain"
	"github.com/whalewatch/whale-alert/internal/ingest"
	"github.com/whalewatch/whale-alert/internal/logger"
	"github.com/whalewatch/whale-alert/internal/mocks"
	"github.com/whalewatch/whale-alert/internal/render"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

const (
	testMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	testSig  = "5K3kkXJsemZivBXab5QPaVJ1JCXHUmGbzoUWp76sWmTr"
)

// testIngestorMocks contains all the mocks needed for testing the ingestor
type testIngestorMocks struct {
	ctrl      *gomock.Controller
	limiter   *mocks.MockAdmissionLimiter
	store     *mocks.MockDedupStore
	publisher *mocks.MockPublisher
	clock     *mocks.MockClock
	ingestor  ingest.Ingestor
}

// setupTestIngestor creates all the mocks and ingestor for testing
func setupTestIngestor(t *testing.T) *testIngestorMocks {
	ctrl := gomock.NewController(t)

	tm := &testIngestorMocks{
		ctrl:      ctrl,
		limiter:   mocks.NewMockAdmissionLimiter(ctrl),
		store:     mocks.NewMockDedupStore(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
		clock:     mocks.NewMockClock(ctrl),
	}

	tm.ingestor = ingest.NewIngestor(
		ingest.Config{Threshold: 100000, Mint: testMint},
		tm.limiter,
		tm.store,
		tm.publisher,
		render.NewRenderer("https://solscan.io"),
		tm.clock,
	)

	return tm
}

// tearDownTestIngestor cleans up the test mocks
func tearDownTestIngestor(mocks *testIngestorMocks) {
	mocks.ctrl.Finish()
}

func qualifyingPayload() []byte {
	return []byte(`[{
		"signature": "` + testSig + `",
		"tokenTransfers": [
			{"tokenAmount": 150000, "mint": "` + testMint + `", "fromUserAccount": "alice", "toUserAccount": "bob"}
		]
	}]`)
}

func TestProcess_Accepted(t *testing.T) {
	tm := setupTestIngestor(t)
	defer tearDownTestIngestor(tm)

	tm.limiter.EXPECT().TryConsume(testSig).Return(true)
	tm.clock.EXPECT().Now().Return(time.Unix(1700000000, 0))
	tm.store.EXPECT().
		MarkSeen(gomock.Any(), domain.TransactionSignature(testSig), gomock.Any()).
		Return(true, nil)
	tm.publisher.EXPECT().
		PublishAlert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.AlertJob) error {
			assert.NotEmpty(t, job.ID)
			assert.Equal(t, domain.TransactionSignature(testSig), job.Signature)
			assert.Equal(t, uint64(150000), job.Amount)
			assert.Equal(t, "alice", job.FromAccount)
			assert.Equal(t, "bob", job.ToAccount)
			assert.Equal(t, testMint, job.Mint)
			return nil
		})

	result, err := tm.ingestor.Process(context.Background(), qualifyingPayload())
	require.NoError(t, err)
	assert.Equal(t, ingest.StatusAccepted, result.Status)
	assert.NotEmpty(t, result.JobID)
}

func TestProcess_Duplicate(t *testing.T) {
	tm := setupTestIngestor(t)
	defer tearDownTestIngestor(tm)

	tm.limiter.EXPECT().TryConsume(testSig).Return(true)
	tm.clock.EXPECT().Now().Return(time.Unix(1700000000, 0))
	tm.store.EXPECT().
		MarkSeen(gomock.Any(), domain.TransactionSignature(testSig), gomock.Any()).
		Return(false, nil)
	// no publish for a duplicate

	result, err := tm.ingestor.Process(context.Background(), qualifyingPayload())
	require.NoError(t, err)
	assert.Equal(t, ingest.StatusDuplicate, result.Status)
}

func TestProcess_Idempotent(t *testing.T) {
	// N identical deliveries produce exactly one job
	tm := setupTestIngestor(t)
	defer tearDownTestIngestor(tm)

	tm.limiter.EXPECT().TryConsume(testSig).Return(true).Times(3)
	tm.clock.EXPECT().Now().Return(time.Unix(1700000000, 0)).Times(3)
	gomock.InOrder(
		tm.store.EXPECT().MarkSeen(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil),
		tm.store.EXPECT().MarkSeen(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil),
		tm.store.EXPECT().MarkSeen(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil),
	)
	tm.publisher.EXPECT().PublishAlert(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	result, err := tm.ingestor.Process(context.Background(), qualifyingPayload())
	require.NoError(t, err)
	assert.Equal(t, ingest.StatusAccepted, result.Status)

	for i := 0; i < 2; i++ {
		result, err = tm.ingestor.Process(context.Background(), qualifyingPayload())
		require.NoError(t, err)
		assert.Equal(t, ingest.StatusDuplicate, result.Status)
	}
}

func TestProcess_RateLimited(t *testing.T) {
	tm := setupTestIngestor(t)
	defer tearDownTestIngestor(tm)

	tm.limiter.EXPECT().TryConsume(testSig).Return(false)
	// a rejected delivery must leave no trace in the store or queue

	_, err := tm.ingestor.Process(context.Background(), qualifyingPayload())
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestProcess_NoMatch(t *testing.T) {
	tm := setupTestIngestor(t)
	defer tearDownTestIngestor(tm)

	// exactly at the threshold, which does not qualify
	payload := []byte(`[{
		"signature": "` + testSig + `",
		"tokenTransfers": [
			{"tokenAmount": 100000, "mint": "` + testMint + `", "fromUserAccount": "alice", "toUserAccount": "bob"}
		]
	}]`)

	tm.limiter.EXPECT().TryConsume(testSig).Return(true)

	result, err := tm.ingestor.Process(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, ingest.StatusNoMatch, result.Status)
}

func TestProcess_MultipleQualifiersFirstWins(t *testing.T) {
	tm := setupTestIngestor(t)
	defer tearDownTestIngestor(tm)

	payload := []byte(`[{
		"signature": "` + testSig + `",
		"tokenTransfers": [
			{"tokenAmount": 150000, "mint": "` + testMint + `", "fromUserAccount": "alice", "toUserAccount": "bob"},
			{"tokenAmount": 900000, "mint": "` + testMint + `", "fromUserAccount": "carol", "toUserAccount": "dave"}
		]
	}]`)

	tm.limiter.EXPECT().TryConsume(testSig).Return(true)
	tm.clock.EXPECT().Now().Return(time.Unix(1700000000, 0))
	tm.store.EXPECT().MarkSeen(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	tm.publisher.EXPECT().
		PublishAlert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.AlertJob) error {
			assert.Equal(t, uint64(150000), job.Amount)
			assert.Equal(t, "alice", job.FromAccount)
			return nil
		})

	result, err := tm.ingestor.Process(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, ingest.StatusAccepted, result.Status)
}

func TestProcess_Malformed(t *testing.T) {
	tm := setupTestIngestor(t)
	defer tearDownTestIngestor(tm)

	// normalization fails before any limiter, store or queue interaction
	_, err := tm.ingestor.Process(context.Background(), []byte(`{"not": "an array"}`))
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestProcess_StoreUnavailable(t *testing.T) {
	tm := setupTestIngestor(t)
	defer tearDownTestIngestor(tm)

	tm.limiter.EXPECT().TryConsume(testSig).Return(true)
	tm.clock.EXPECT().Now().Return(time.Unix(1700000000, 0))
	tm.store.EXPECT().
		MarkSeen(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(false, domain.ErrStoreUnavailable)
	// nothing published when the store cannot record the claim

	_, err := tm.ingestor.Process(context.Background(), qualifyingPayload())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestProcess_PublishFailureRollsBackClaim(t *testing.T) {
	tm := setupTestIngestor(t)
	defer tearDownTestIngestor(tm)

	publishErr := errors.New("nats: timeout")

	tm.limiter.EXPECT().TryConsume(testSig).Return(true)
	tm.clock.EXPECT().Now().Return(time.Unix(1700000000, 0))
	tm.store.EXPECT().MarkSeen(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	tm.publisher.EXPECT().PublishAlert(gomock.Any(), gomock.Any()).Return(publishErr)
	// the claim is released so the upstream retry can re-enqueue
	tm.store.EXPECT().Forget(gomock.Any(), domain.TransactionSignature(testSig)).Return(nil)

	_, err := tm.ingestor.Process(context.Background(), qualifyingPayload())
	assert.ErrorIs(t, err, publishErr)
}
