package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whalewatch/whale-alert/internal/domain"
	"github.com/whalewatch/whale-alert/internal/logger"
	"github.com/whalewatch/whale-alert/internal/mocks"
	"github.com/whalewatch/whale-alert/internal/render"
	"github.com/whalewatch/whale-alert/internal/store/schema"
	"github.com/whalewatch/whale-alert/internal/worker"
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

const testSig = "5K3kkXJsemZivBXab5QPaVJ1JCXHUmGbzoUWp76sWmTr"

// testWorkerMocks contains all the mocks needed for testing the worker
type testWorkerMocks struct {
	ctrl     *gomock.Controller
	source   *mocks.MockQueueSource
	notifier *mocks.MockNotifier
	limiter  *mocks.MockSendLimiter
	audit    *mocks.MockStore
	worker   *worker.Worker
}

// setupTestWorker creates all the mocks and worker for testing
func setupTestWorker(t *testing.T) *testWorkerMocks {
	ctrl := gomock.NewController(t)

	tm := &testWorkerMocks{
		ctrl:     ctrl,
		source:   mocks.NewMockQueueSource(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
		limiter:  mocks.NewMockSendLimiter(ctrl),
		audit:    mocks.NewMockStore(ctrl),
	}

	tm.worker = worker.New(
		worker.Config{MaxDeliver: 5, PoolSize: 1, QueueSize: 8},
		tm.source,
		tm.notifier,
		render.NewRenderer("https://solscan.io"),
		tm.limiter,
		tm.audit,
	)

	return tm
}

// tearDownTestWorker cleans up the test mocks
func tearDownTestWorker(mocks *testWorkerMocks) {
	mocks.ctrl.Finish()
}

func testJobData(t *testing.T) []byte {
	data, err := json.Marshal(&domain.AlertJob{
		ID:          "01JABCDEF0123456789ABCDEFG",
		Signature:   testSig,
		Amount:      150000,
		FromAccount: "alice",
		ToAccount:   "bob",
		Mint:        "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		EnqueuedAt:  time.Unix(1700000000, 0).UTC(),
	})
	require.NoError(t, err)
	return data
}

func newTestMessage(t *testing.T, ctrl *gomock.Controller, data []byte, delivered int) *mocks.MockJetStreamMessage {
	t.Helper()
	msg := mocks.NewMockJetStreamMessage(ctrl)
	msg.EXPECT().Metadata().Return(&jetstream.MsgMetadata{NumDelivered: uint64(delivered)}, nil).AnyTimes()
	msg.EXPECT().Data().Return(data).AnyTimes()
	return msg
}

func TestHandleMessage_Delivered(t *testing.T) {
	tm := setupTestWorker(t)
	defer tearDownTestWorker(tm)

	msg := newTestMessage(t, tm.ctrl, testJobData(t), 1)
	row := &schema.AlertDelivery{ID: 42}

	tm.audit.EXPECT().
		RecordAttempt(gomock.Any(), "01JABCDEF0123456789ABCDEFG", testSig, 1).
		Return(row, nil)
	tm.limiter.EXPECT().Wait(gomock.Any()).Return(nil)
	tm.notifier.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, text string) error {
			assert.Contains(t, text, "Whale Alert")
			assert.Contains(t, text, testSig)
			return nil
		})
	tm.audit.EXPECT().
		FinalizeAttempt(gomock.Any(), uint64(42), schema.AlertDeliveryStatusSuccess, "").
		Return(nil)
	msg.EXPECT().Ack().Return(nil)

	tm.worker.HandleMessage(context.Background(), msg)
}

func TestHandleMessage_FailureBelowCeilingSchedulesRetry(t *testing.T) {
	tm := setupTestWorker(t)
	defer tearDownTestWorker(tm)

	msg := newTestMessage(t, tm.ctrl, testJobData(t), 2)
	row := &schema.AlertDelivery{ID: 7}
	sendErr := errors.New("telegram: 502")

	tm.audit.EXPECT().RecordAttempt(gomock.Any(), gomock.Any(), gomock.Any(), 2).Return(row, nil)
	tm.limiter.EXPECT().Wait(gomock.Any()).Return(nil)
	tm.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(sendErr)
	tm.audit.EXPECT().
		FinalizeAttempt(gomock.Any(), uint64(7), schema.AlertDeliveryStatusFailed, sendErr.Error()).
		Return(nil)
	// attempt 2 backs off 5s * 2^(2-1)
	msg.EXPECT().NakWithDelay(10 * time.Second).Return(nil)

	tm.worker.HandleMessage(context.Background(), msg)
}

func TestHandleMessage_CeilingDeadLetters(t *testing.T) {
	tm := setupTestWorker(t)
	defer tearDownTestWorker(tm)

	msg := newTestMessage(t, tm.ctrl, testJobData(t), 5)
	sendErr := errors.New("telegram: 502")

	tm.audit.EXPECT().RecordAttempt(gomock.Any(), gomock.Any(), gomock.Any(), 5).Return(nil, errors.New("db down"))
	tm.limiter.EXPECT().Wait(gomock.Any()).Return(nil)
	tm.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(sendErr)
	tm.audit.EXPECT().
		SaveDeadLetter(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, dl *schema.DeadLetter) error {
			assert.Equal(t, testSig, dl.Signature)
			assert.Equal(t, 5, dl.Attempts)
			assert.Equal(t, sendErr.Error(), dl.Reason)
			return nil
		})
	// the job leaves the live queue without ever being marked delivered
	msg.EXPECT().Term().Return(nil)

	tm.worker.HandleMessage(context.Background(), msg)
}

func TestHandleMessage_PoisonPayload(t *testing.T) {
	tm := setupTestWorker(t)
	defer tearDownTestWorker(tm)

	msg := newTestMessage(t, tm.ctrl, []byte(`{{{not json`), 1)

	tm.audit.EXPECT().
		SaveDeadLetter(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, dl *schema.DeadLetter) error {
			assert.Empty(t, dl.JobID)
			assert.Contains(t, dl.Reason, "unparseable payload")
			return nil
		})
	msg.EXPECT().Term().Return(nil)

	tm.worker.HandleMessage(context.Background(), msg)
}

func TestHandleMessage_DeadLetterSaveFailureKeepsMessage(t *testing.T) {
	tm := setupTestWorker(t)
	defer tearDownTestWorker(tm)

	msg := newTestMessage(t, tm.ctrl, testJobData(t), 5)
	sendErr := errors.New("telegram: 502")

	tm.audit.EXPECT().RecordAttempt(gomock.Any(), gomock.Any(), gomock.Any(), 5).Return(nil, errors.New("db down"))
	tm.limiter.EXPECT().Wait(gomock.Any()).Return(nil)
	tm.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(sendErr)
	tm.audit.EXPECT().SaveDeadLetter(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
	// the message stays redeliverable until the dead-letter row can be written
	msg.EXPECT().Nak().Return(nil)

	tm.worker.HandleMessage(context.Background(), msg)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	tm := setupTestWorker(t)
	defer tearDownTestWorker(tm)

	ctx, cancel := context.WithCancel(context.Background())

	consumeCtx := mocks.NewMockConsumeContext(tm.ctrl)
	closed := make(chan struct{})
	consumeCtx.EXPECT().Closed().Return((<-chan struct{})(closed)).AnyTimes()
	consumeCtx.EXPECT().Stop()

	tm.source.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(consumeCtx, nil)

	done := make(chan error, 1)
	go func() {
		done <- tm.worker.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

func TestRun_ConsumeFailure(t *testing.T) {
	tm := setupTestWorker(t)
	defer tearDownTestWorker(tm)

	tm.source.EXPECT().
		Consume(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("nats: no responders"))

	err := tm.worker.Run(context.Background())
	assert.Error(t, err)
}

func TestHandleMessage_SendBudgetExhausted(t *testing.T) {
	tm := setupTestWorker(t)
	defer tearDownTestWorker(tm)

	msg := newTestMessage(t, tm.ctrl, testJobData(t), 1)

	tm.audit.EXPECT().RecordAttempt(gomock.Any(), gomock.Any(), gomock.Any(), 1).Return(&schema.AlertDelivery{ID: 1}, nil)
	tm.limiter.EXPECT().Wait(gomock.Any()).Return(context.DeadlineExceeded)
	tm.audit.EXPECT().
		FinalizeAttempt(gomock.Any(), uint64(1), schema.AlertDeliveryStatusFailed, gomock.Any()).
		Return(nil)
	msg.EXPECT().NakWithDelay(5 * time.Second).Return(nil)

	tm.worker.HandleMessage(context.Background(), msg)
}
