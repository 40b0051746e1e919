package models

import (
	"time"

	"github.com/google/uuid"
)

// Livestock type classifications for a mob.
const (
	LivestockCattle   = "cattle"
	LivestockSheep    = "sheep"
	LivestockGoats    = "goats"
	LivestockHorses   = "horses"
	LivestockPigs     = "pigs"
	LivestockChickens = "chickens"
	LivestockOther    = "other"
)

// Mob lifecycle statuses.
const (
	MobStatusActive   = "active"
	MobStatusArchived = "archived"
)

// Mob represents a managed group of livestock treated as a single unit.
//
// Size is a cached projection of the mob-event log: initial size plus the
// signed sum of applied events. The event log is authoritative for analytics;
// the cache exists for display performance and is recomputed by the nightly
// reconciliation job.
type Mob struct {
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	CurrentPaddockID   *uuid.UUID `json:"currentPaddockId,omitempty"`
	BirthDate          *time.Time `json:"birthDate,omitempty"`
	PurchaseDate       *time.Time `json:"purchaseDate,omitempty"`
	AgeAtPurchaseYears *float64   `json:"ageAtPurchaseYears,omitempty"`
	Name               string     `json:"name"`
	LivestockType      string     `json:"livestockType"`
	Status             string     `json:"status"`
	Size               int        `json:"size"`
	InitialSize        int        `json:"initialSize"`
	ID                 uuid.UUID  `json:"id"`
	OwnerID            uuid.UUID  `json:"ownerId"`
}

// IsActive reports whether the mob has not been archived.
func (m *Mob) IsActive() bool {
	return m.Status == MobStatusActive
}

// InPaddock reports whether the mob currently occupies the given paddock.
func (m *Mob) InPaddock(paddockID uuid.UUID) bool {
	return m.CurrentPaddockID != nil && *m.CurrentPaddockID == paddockID
}
