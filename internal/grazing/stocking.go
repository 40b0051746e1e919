package grazing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
)

// dseRates maps a livestock type to its Dry Sheep Equivalent multiplier.
// Lookup is case-insensitive; unrecognized types count as one DSE per head.
var dseRates = map[string]float64{
	"sheep":  1.0,
	"cattle": 8.0,
	"horse":  10.0,
	"goat":   0.8,
	"lamb":   0.6,
	"calf":   4.0,
}

const defaultDSERate = 1.0

// DSERate returns the per-head DSE multiplier for a livestock type.
func DSERate(livestockType string) float64 {
	if rate, ok := dseRates[strings.ToLower(livestockType)]; ok {
		return rate
	}
	return defaultDSERate
}

// DSE converts a head count into Dry Sheep Equivalents.
func DSE(livestockType string, size int) float64 {
	return DSERate(livestockType) * float64(size)
}

// PaddockDSE sums the DSE of every mob currently referencing the paddock.
// Archived mobs still referencing the paddock are counted.
func PaddockDSE(paddockID uuid.UUID, mobs []models.Mob) float64 {
	total := 0.0
	for i := range mobs {
		m := &mobs[i]
		if m.InPaddock(paddockID) {
			total += DSE(m.LivestockType, m.Size)
		}
	}
	return total
}

// StockingRate returns the paddock's total DSE per hectare. A paddock with
// zero or negative area has a stocking rate of zero rather than a division
// by zero.
func StockingRate(paddockID uuid.UUID, areaSqm float64, mobs []models.Mob) float64 {
	if areaSqm <= 0 {
		return 0
	}
	return PaddockDSE(paddockID, mobs) / (areaSqm / 10000)
}
