package models

import (
	"time"

	"github.com/google/uuid"
)

// Mob event types. Quantity is meaningful for birth/sale/death/purchase;
// treatment, observation and movement entries are annotations.
const (
	MobEventBirth       = "birth"
	MobEventSale        = "sale"
	MobEventDeath       = "death"
	MobEventPurchase    = "purchase"
	MobEventTreatment   = "treatment"
	MobEventObservation = "observation"
	MobEventMovement    = "movement"
)

// MobEvent is an append-only audit-log entry for a mob's population history.
// Rows are never updated or deleted except by cascading hard-delete of the
// owning mob.
type MobEvent struct {
	CreatedAt    time.Time `json:"createdAt"`
	EventDate    time.Time `json:"eventDate"`
	PricePerHead *float64  `json:"pricePerHead,omitempty"`
	TotalPrice   *float64  `json:"totalPrice,omitempty"`
	BuyerName    *string   `json:"buyerName,omitempty"`
	LossReason   *string   `json:"lossReason,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	EventType    string    `json:"eventType"`
	Quantity     int       `json:"quantity"`
	ID           uuid.UUID `json:"id"`
	MobID        uuid.UUID `json:"mobId"`
}

// SizeDelta returns the signed head-count change this event applies to the
// mob's cached size: births and purchases add, sales and deaths subtract,
// everything else is neutral.
func (e *MobEvent) SizeDelta() int {
	switch e.EventType {
	case MobEventBirth, MobEventPurchase:
		return e.Quantity
	case MobEventSale, MobEventDeath:
		return -e.Quantity
	default:
		return 0
	}
}
