package models

import (
	"time"

	"github.com/google/uuid"
)

// GrazingEvent is a timestamped interval record of a mob occupying a paddock.
// An open event (MovedOutAt == nil) means the mob is currently in the paddock.
// At most one open event exists per mob at any time; the movement transaction
// upholds this, and readers tolerate historical violations.
//
// PaddockID is nullable so that the grazing history survives paddock deletion.
// Closed events are never mutated.
type GrazingEvent struct {
	CreatedAt  time.Time  `json:"createdAt"`
	MovedInAt  time.Time  `json:"movedInAt"`
	MovedOutAt *time.Time `json:"movedOutAt,omitempty"`
	PaddockID  *uuid.UUID `json:"paddockId,omitempty"`
	ID         uuid.UUID  `json:"id"`
	MobID      uuid.UUID  `json:"mobId"`
}

// Open reports whether the mob is still in the paddock.
func (e *GrazingEvent) Open() bool {
	return e.MovedOutAt == nil
}

// InPaddock reports whether the event references the given paddock.
func (e *GrazingEvent) InPaddock(paddockID uuid.UUID) bool {
	return e.PaddockID != nil && *e.PaddockID == paddockID
}
