package enums

import "fmt"

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateSale  OutboxAggregateType = "sale"
	AggregateSwap  OutboxAggregateType = "swap"
	AggregatePhone OutboxAggregateType = "phone"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateSale,
	AggregateSwap,
	AggregatePhone,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType names the domain events the engine emits.
type OutboxEventType string

const (
	EventSaleRecorded       OutboxEventType = "sale_recorded"
	EventSwapRecorded       OutboxEventType = "swap_recorded"
	EventResaleChainClosed  OutboxEventType = "resale_chain_closed"
	EventPhoneStatusChanged OutboxEventType = "phone_status_changed"
)

var validOutboxEventTypes = []OutboxEventType{
	EventSaleRecorded,
	EventSwapRecorded,
	EventResaleChainClosed,
	EventPhoneStatusChanged,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
