package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregatePromotion OutboxAggregateType = "promotion"
	AggregateProduct   OutboxAggregateType = "product"
	AggregateStore     OutboxAggregateType = "store"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregatePromotion,
	AggregateProduct,
	AggregateStore,
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

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventPromotionCreated    OutboxEventType = "promotion_created"
	EventPromotionUpdated    OutboxEventType = "promotion_updated"
	EventPromotionDeleted    OutboxEventType = "promotion_deleted"
	EventPromotionExpired    OutboxEventType = "promotion_expired"
	EventProductPriceChanged OutboxEventType = "product_price_changed"
	EventMenuRefreshRequired OutboxEventType = "menu_refresh_required"
)

var validOutboxEventTypes = []OutboxEventType{
	EventPromotionCreated,
	EventPromotionUpdated,
	EventPromotionDeleted,
	EventPromotionExpired,
	EventProductPriceChanged,
	EventMenuRefreshRequired,
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
