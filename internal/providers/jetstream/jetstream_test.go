package jetstream_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whalewatch/whale-alert/internal/adapter"
	"github.com/whalewatch/whale-alert/internal/domain"
	"github.com/whalewatch/whale-alert/internal/logger"
	"github.com/whalewatch/whale-alert/internal/mocks"
	"github.com/whalewatch/whale-alert/internal/providers/jetstream"
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

func testConfig() jetstream.Config {
	return jetstream.Config{
		URL:          "nats://127.0.0.1:4222",
		StreamName:   "WHALE_ALERTS",
		Subject:      "alerts.transfer",
		ConsumerName: "alert-delivery",
	}
}

func TestNewPublisher_EnsuresStream(t *testing.T) {
	ctrl := gomock.NewController(t)
	natsJS := mocks.NewMockNatsJetStream(ctrl)
	nc := mocks.NewMockNatsConn(ctrl)
	js := mocks.NewMockJetStream(ctrl)

	natsJS.EXPECT().Connect("nats://127.0.0.1:4222", gomock.Any()).Return(nc, js, nil)
	js.EXPECT().
		CreateOrUpdateStream(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cfg natsjs.StreamConfig) error {
			assert.Equal(t, "WHALE_ALERTS", cfg.Name)
			assert.Equal(t, []string{"alerts.transfer"}, cfg.Subjects)
			assert.Equal(t, natsjs.WorkQueuePolicy, cfg.Retention)
			assert.NotZero(t, cfg.Duplicates)
			return nil
		})

	pub, err := jetstream.NewPublisher(context.Background(), testConfig(), natsJS, adapter.NewJSON())
	require.NoError(t, err)
	require.NotNil(t, pub)
}

func TestNewPublisher_StreamFailureClosesConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	natsJS := mocks.NewMockNatsJetStream(ctrl)
	nc := mocks.NewMockNatsConn(ctrl)
	js := mocks.NewMockJetStream(ctrl)

	natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nc, js, nil)
	js.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).Return(errors.New("no permission"))
	nc.EXPECT().Close()

	_, err := jetstream.NewPublisher(context.Background(), testConfig(), natsJS, adapter.NewJSON())
	assert.ErrorIs(t, err, domain.ErrQueueUnavailable)
}

func TestPublishAlert(t *testing.T) {
	ctrl := gomock.NewController(t)
	natsJS := mocks.NewMockNatsJetStream(ctrl)
	nc := mocks.NewMockNatsConn(ctrl)
	js := mocks.NewMockJetStream(ctrl)

	natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nc, js, nil)
	js.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).Return(nil)

	pub, err := jetstream.NewPublisher(context.Background(), testConfig(), natsJS, adapter.NewJSON())
	require.NoError(t, err)

	job := &domain.AlertJob{
		ID:        "01JTEST",
		Signature: "sig-1",
		Amount:    150000,
	}

	js.EXPECT().
		Publish(gomock.Any(), "alerts.transfer", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte, _ ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
			assert.Contains(t, string(data), `"sig-1"`)
			return &natsjs.PubAck{Stream: "WHALE_ALERTS", Sequence: 1}, nil
		})

	assert.NoError(t, pub.PublishAlert(context.Background(), job))
}

func TestPublishAlert_QueueUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	natsJS := mocks.NewMockNatsJetStream(ctrl)
	nc := mocks.NewMockNatsConn(ctrl)
	js := mocks.NewMockJetStream(ctrl)

	natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nc, js, nil)
	js.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).Return(nil)

	pub, err := jetstream.NewPublisher(context.Background(), testConfig(), natsJS, adapter.NewJSON())
	require.NoError(t, err)

	js.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("nats: timeout"))

	err = pub.PublishAlert(context.Background(), &domain.AlertJob{ID: "01JTEST", Signature: "sig-1"})
	assert.ErrorIs(t, err, domain.ErrQueueUnavailable)
}

func TestConsumer_CreatesDurableConsumer(t *testing.T) {
	ctrl := gomock.NewController(t)
	natsJS := mocks.NewMockNatsJetStream(ctrl)
	nc := mocks.NewMockNatsConn(ctrl)
	js := mocks.NewMockJetStream(ctrl)
	natsConsumer := mocks.NewMockNatsConsumer(ctrl)
	consumeCtx := mocks.NewMockConsumeContext(ctrl)

	natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nc, js, nil)

	consumer, err := jetstream.NewConsumer(testConfig(), natsJS)
	require.NoError(t, err)

	js.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), "WHALE_ALERTS", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, cfg natsjs.ConsumerConfig) (adapter.Consumer, error) {
			assert.Equal(t, "alert-delivery", cfg.Durable)
			assert.Equal(t, natsjs.AckExplicitPolicy, cfg.AckPolicy)
			assert.Equal(t, "alerts.transfer", cfg.FilterSubject)
			return natsConsumer, nil
		})
	natsConsumer.EXPECT().Info(gomock.Any()).Return(&natsjs.ConsumerInfo{Name: "alert-delivery"}, nil)
	natsConsumer.EXPECT().Consume(gomock.Any()).Return(consumeCtx, nil)

	got, err := consumer.Consume(context.Background(), func(adapter.Message) {})
	require.NoError(t, err)
	assert.Equal(t, consumeCtx, got)
}
