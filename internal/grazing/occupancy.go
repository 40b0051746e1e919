// Package grazing holds the stocking-rate and occupancy domain model. Every
// function is a deterministic calculation over in-memory snapshots of the
// paddock list, mob list and event logs; none of them performs I/O or returns
// an error. Missing or inconsistent data degrades to a "no data" result
// (never/0/nil) because these calculators run constantly while the UI is
// populating.
package grazing

import (
	"time"

	"github.com/google/uuid"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
)

// Occupancy statuses for a paddock.
const (
	StatusGrazing = "grazing"
	StatusResting = "resting"
	StatusNever   = "never"
)

const day = 24 * time.Hour

// Occupancy describes whether a paddock is currently grazed, resting, or has
// never been grazed, and for how many whole days.
type Occupancy struct {
	Status   string `json:"status"`
	Days     int    `json:"days"`
	MobCount int    `json:"mobCount"`
}

// PaddockStatus derives a paddock's occupancy from the mob list and the
// grazing-event log.
//
// A paddock is grazing when any active mob with a nonzero head count currently
// references it; the earliest open grazing event supplies the start date. If
// the mobs say "occupied" but no open event exists, the duration defaults to
// zero (started today) rather than erroring. With no occupying mobs, the most
// recent closed event yields a resting duration. A paddock with no events at
// all has never been grazed.
func PaddockStatus(paddockID uuid.UUID, mobs []models.Mob, events []models.GrazingEvent, now time.Time) Occupancy {
	mobCount := 0
	for i := range mobs {
		m := &mobs[i]
		if m.IsActive() && m.Size > 0 && m.InPaddock(paddockID) {
			mobCount++
		}
	}

	if mobCount > 0 {
		days := 0
		if open := earliestOpenEvent(paddockID, events); open != nil {
			days = floorDays(now.Sub(open.MovedInAt))
		}
		return Occupancy{Status: StatusGrazing, Days: days, MobCount: mobCount}
	}

	hasAny := false
	var lastOut *time.Time
	for i := range events {
		e := &events[i]
		if !e.InPaddock(paddockID) {
			continue
		}
		hasAny = true
		if e.MovedOutAt != nil && (lastOut == nil || e.MovedOutAt.After(*lastOut)) {
			lastOut = e.MovedOutAt
		}
	}

	if !hasAny {
		return Occupancy{Status: StatusNever}
	}

	days := 0
	if lastOut != nil {
		days = floorDays(now.Sub(*lastOut))
	}
	return Occupancy{Status: StatusResting, Days: days}
}

// DaysSinceLastGrazed returns nil for a paddock that has never been grazed,
// zero for one currently being grazed with no closed event yet, and otherwise
// the whole days elapsed since the most recent close.
func DaysSinceLastGrazed(paddockID uuid.UUID, events []models.GrazingEvent, now time.Time) *int {
	hasAny := false
	var lastOut *time.Time
	for i := range events {
		e := &events[i]
		if !e.InPaddock(paddockID) {
			continue
		}
		hasAny = true
		if e.MovedOutAt != nil && (lastOut == nil || e.MovedOutAt.After(*lastOut)) {
			lastOut = e.MovedOutAt
		}
	}

	if !hasAny {
		return nil
	}

	days := 0
	if lastOut != nil {
		days = floorDays(now.Sub(*lastOut))
	}
	return &days
}

// DaysInPaddock returns how long the mob has been in its current paddock,
// rounded up to whole days, or nil when the mob has no open grazing event.
// Note the asymmetric rounding versus the paddock-level durations (ceil here,
// floor there).
func DaysInPaddock(mobID uuid.UUID, events []models.GrazingEvent, now time.Time) *int {
	var open *models.GrazingEvent
	for i := range events {
		e := &events[i]
		if e.MobID != mobID || !e.Open() {
			continue
		}
		// Multiple open events violate the single-open-interval invariant;
		// pick the earliest deterministically rather than fail.
		if open == nil || e.MovedInAt.Before(open.MovedInAt) {
			open = e
		}
	}
	if open == nil {
		return nil
	}

	days := ceilDays(now.Sub(open.MovedInAt))
	return &days
}

// earliestOpenEvent finds the open grazing event for the paddock with the
// earliest move-in date. Multiple open events should not happen, but the
// tracker must not crash on inconsistent history.
func earliestOpenEvent(paddockID uuid.UUID, events []models.GrazingEvent) *models.GrazingEvent {
	var open *models.GrazingEvent
	for i := range events {
		e := &events[i]
		if !e.Open() || !e.InPaddock(paddockID) {
			continue
		}
		if open == nil || e.MovedInAt.Before(open.MovedInAt) {
			open = e
		}
	}
	return open
}

func floorDays(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / day)
}

func ceilDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	n := int(d / day)
	if d%day != 0 {
		n++
	}
	return n
}
