package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]string{"id": "prod-1", "name": "Laptop Pro"}

	event, err := NewEvent("product.upserted", "prod-1", "product", "product-service", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "product.upserted", event.EventType)
	assert.Equal(t, "prod-1", event.AggregateID)
	assert.Equal(t, "product", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.Equal(t, "product-service", event.Source)
	assert.False(t, event.Timestamp.IsZero())
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("product.upserted", "prod-1", "product", "product-service", make(chan int))
	assert.Error(t, err)
}

func TestEvent_RoundTrip(t *testing.T) {
	type productRef struct {
		ID string `json:"id"`
	}

	event, err := NewEvent("product.deleted", "prod-2", "product", "product-service", productRef{ID: "prod-2"})
	require.NoError(t, err)
	event.WithCorrelationID("corr-123").WithMetadata("origin", "admin-api")

	data, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(data)
	require.NoError(t, err)

	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, "corr-123", decoded.CorrelationID)
	assert.Equal(t, "admin-api", decoded.Metadata["origin"])

	var ref productRef
	require.NoError(t, decoded.UnmarshalData(&ref))
	assert.Equal(t, "prod-2", ref.ID)
}

func TestUnmarshalEvent_InvalidJSON(t *testing.T) {
	_, err := UnmarshalEvent([]byte("{not json"))
	assert.Error(t, err)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "ecommerce.product.upserted", Topic("product", "upserted"))
	assert.Equal(t, "ecommerce.product.deleted", Topic("product", "deleted"))
}
