package output

import (
	"github.com/google/uuid"
)

// SettlementMessaging is an output port (secondary port) for the settlement
// finalization queue. Secondary adapters (RabbitMQ implementations) will
// implement this.
type SettlementMessaging interface {
	// PublishSettlementMessage enqueues an order for finalization polling
	PublishSettlementMessage(orderID uuid.UUID) error
	// Close closes the messaging connection
	Close() error
}
