package grazing

import (
	"sort"
	"time"

	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
)

// SizePoint is one entry in a mob's reconstructed size-over-time series.
type SizePoint struct {
	Date  time.Time `json:"date"`
	Event string    `json:"event"`
	Size  int       `json:"size"`
}

// PopulationSummary is the verified replay of a mob's event log.
type PopulationSummary struct {
	SizeOverTime []SizePoint `json:"sizeOverTime"`
	TotalBirths  int         `json:"totalBirths"`
	TotalSales   int         `json:"totalSales"`
	TotalLosses  int         `json:"totalLosses"`
	InitialSize  int         `json:"initialSize"`
	BirthRate    float64     `json:"birthRate"`
}

// ReconstructPopulation replays a mob's event log into a size-over-time series
// and summary counters.
//
// Only the mob's current size is stored, so the starting point is inferred by
// working backward: initial = current - (births - sales - losses). The series
// is seeded at the mob's creation date and every event is then replayed in
// chronological order. Displayed sizes are floored at zero but the running
// total itself is not clamped, so a later event can recover from inconsistent
// history.
//
// Purchase events are deliberately not applied to the running total here; they
// are tracked for audit and cost purposes only. That keeps the series
// consistent with historical chart numbers. Whether purchases should enter the
// series is an open product question.
func ReconstructPopulation(mob *models.Mob, events []models.MobEvent) PopulationSummary {
	ordered := make([]models.MobEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EventDate.Before(ordered[j].EventDate)
	})

	births, sales, losses := 0, 0, 0
	for i := range ordered {
		switch ordered[i].EventType {
		case models.MobEventBirth:
			births += ordered[i].Quantity
		case models.MobEventSale:
			sales += ordered[i].Quantity
		case models.MobEventDeath:
			losses += ordered[i].Quantity
		}
	}

	initial := mob.Size - (births - sales - losses)

	series := make([]SizePoint, 0, len(ordered)+1)
	series = append(series, SizePoint{
		Date:  mob.CreatedAt,
		Size:  clampZero(initial),
		Event: "Initial",
	})

	running := initial
	for i := range ordered {
		e := &ordered[i]
		switch e.EventType {
		case models.MobEventBirth:
			running += e.Quantity
		case models.MobEventSale:
			running -= e.Quantity
		case models.MobEventDeath:
			running -= e.Quantity
		}
		series = append(series, SizePoint{
			Date:  e.EventDate,
			Size:  clampZero(running),
			Event: e.EventType,
		})
	}

	birthRate := 0.0
	if initial > 0 {
		birthRate = float64(births) / float64(initial) * 100
	}

	return PopulationSummary{
		TotalBirths:  births,
		TotalSales:   sales,
		TotalLosses:  losses,
		InitialSize:  initial,
		BirthRate:    birthRate,
		SizeOverTime: series,
	}
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
