package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whalewatch/whale-alert/internal/store/schema"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "alert_deliveries", schema.AlertDelivery{}.TableName())
	assert.Equal(t, "dead_letters", schema.DeadLetter{}.TableName())
}

func TestAlertDeliveryStatuses(t *testing.T) {
	assert.Equal(t, schema.AlertDeliveryStatus("pending"), schema.AlertDeliveryStatusPending)
	assert.Equal(t, schema.AlertDeliveryStatus("success"), schema.AlertDeliveryStatusSuccess)
	assert.Equal(t, schema.AlertDeliveryStatus("failed"), schema.AlertDeliveryStatusFailed)
}
