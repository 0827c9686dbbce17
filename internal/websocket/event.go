package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypePaid      EventType = "paid"
	EventTypeGenerated EventType = "generated"
	EventTypeImported  EventType = "imported"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeAccount     EntityType = "account"
	EntityTypeBalance     EntityType = "balance"
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeCreditCard  EntityType = "credit_card"
	EntityTypeBill        EntityType = "bill"
	EntityTypeCommitment  EntityType = "commitment"
	EntityTypeIncome      EntityType = "income"
	EntityTypeStatement   EntityType = "statement"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "transaction.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "transaction"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionCreated creates a transaction.created event
func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

// TransactionUpdated creates a transaction.updated event
func TransactionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)
}

// TransactionDeleted creates a transaction.deleted event
func TransactionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}

// BalanceUpdated creates a balance.updated event
func BalanceUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBalance, payload)
}

// BillGenerated creates a bill.generated event
func BillGenerated(payload interface{}) Event {
	return NewEvent(EventTypeGenerated, EntityTypeBill, payload)
}

// BillUpdated creates a bill.updated event
func BillUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBill, payload)
}

// BillPaid creates a bill.paid event
func BillPaid(payload interface{}) Event {
	return NewEvent(EventTypePaid, EntityTypeBill, payload)
}

// CommitmentUpdated creates a commitment.updated event
func CommitmentUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeCommitment, payload)
}

// IncomeUpdated creates an income.updated event
func IncomeUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeIncome, payload)
}

// StatementImported creates a statement.imported event
func StatementImported(payload interface{}) Event {
	return NewEvent(EventTypeImported, EntityTypeStatement, payload)
}
