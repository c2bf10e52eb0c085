package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/maltedev/listing-extractor/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRedisClient is a mock for Redis client
type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd {
	mockArgs := m.Called(ctx, args)
	cmd := redis.NewStringCmd(ctx)
	if mockArgs.Get(0) != nil {
		cmd.SetErr(mockArgs.Error(0))
	} else {
		cmd.SetVal("1234567890-0")
	}
	return cmd
}

func (m *MockRedisClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestStreamPublisher_PublishProductExtracted(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes record to stream", func(t *testing.T) {
		mockRedis := new(MockRedisClient)
		publisher := NewStreamPublisher(mockRedis, "", slog.Default())

		product := models.NewProductRecord("B075CYMYK6")
		product.Title = "Instant Pot Duo"
		price := 69.99
		product.Price = &price

		var captured *redis.XAddArgs
		mockRedis.On("XAdd", ctx, mock.AnythingOfType("*redis.XAddArgs")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*redis.XAddArgs)
			}).
			Return(nil)

		err := publisher.PublishProductExtracted(ctx, product)
		require.NoError(t, err)
		mockRedis.AssertExpectations(t)

		require.NotNil(t, captured)
		assert.Equal(t, DefaultStream, captured.Stream)

		values := captured.Values.(map[string]interface{})
		assert.Equal(t, "PRODUCT_EXTRACTED", values["event_type"])
		assert.Equal(t, "B075CYMYK6", values["aggregate_id"])
		_, err = uuid.Parse(values["event_id"].(string))
		assert.NoError(t, err)

		var payload ProductExtractedPayload
		require.NoError(t, json.Unmarshal([]byte(values["data"].(string)), &payload))
		assert.Equal(t, values["event_id"], payload.EventID)
		assert.Equal(t, "listing-extractor", payload.Source)
		assert.Equal(t, "Instant Pot Duo", payload.Product.Title)
		assert.Contains(t, payload.MissingFields, "rating")
		assert.NotContains(t, payload.MissingFields, "price")
	})

	t.Run("redis error is returned", func(t *testing.T) {
		mockRedis := new(MockRedisClient)
		publisher := NewStreamPublisher(mockRedis, "stream:custom", slog.Default())

		mockRedis.On("XAdd", ctx, mock.AnythingOfType("*redis.XAddArgs")).
			Return(errors.New("connection refused"))

		err := publisher.PublishProductExtracted(ctx, models.NewProductRecord("B000000001"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to publish to redis")
		mockRedis.AssertExpectations(t)
	})
}

func TestStreamPublisher_PublishExtractionFailed(t *testing.T) {
	ctx := context.Background()
	mockRedis := new(MockRedisClient)
	publisher := NewStreamPublisher(mockRedis, "stream:custom", slog.Default())

	cause := &models.Error{
		Kind:     models.KindAntiBot,
		URL:      "https://www.amazon.com/dp/B075CYMYK6",
		Attempts: 2,
		Err:      fmt.Errorf("%w: title contains robot", models.ErrAntiBot),
	}

	var captured *redis.XAddArgs
	mockRedis.On("XAdd", ctx, mock.AnythingOfType("*redis.XAddArgs")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*redis.XAddArgs)
		}).
		Return(nil)

	require.NoError(t, publisher.PublishExtractionFailed(ctx, cause.URL, "US", cause))
	require.NotNil(t, captured)
	assert.Equal(t, "stream:custom", captured.Stream)

	values := captured.Values.(map[string]interface{})
	assert.Equal(t, "EXTRACTION_FAILED", values["event_type"])

	var payload ExtractionFailedPayload
	require.NoError(t, json.Unmarshal([]byte(values["data"].(string)), &payload))
	assert.Equal(t, "anti_bot", payload.Kind)
	assert.Equal(t, 2, payload.Attempts)
	assert.Equal(t, "US", payload.TargetMarket)
	assert.Contains(t, payload.Error, "title contains robot")
}

func TestStreamPublisher_Close(t *testing.T) {
	mockRedis := new(MockRedisClient)
	mockRedis.On("Close").Return(nil)

	require.NoError(t, NewStreamPublisher(mockRedis, "", slog.Default()).Close())
	mockRedis.AssertExpectations(t)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	ctx := context.Background()

	assert.NoError(t, p.PublishProductExtracted(ctx, models.NewProductRecord("B000000001")))
	assert.NoError(t, p.PublishExtractionFailed(ctx, "u", "US", errors.New("x")))
	assert.NoError(t, p.Close())
}
