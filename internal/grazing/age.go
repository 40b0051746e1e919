package grazing

import (
	"fmt"
	"time"
)

// AgeUnknown is returned when neither a birth nor a purchase date is known.
const AgeUnknown = "Unknown"

const daysPerYear = 365

// FormatAge produces a human-readable age for a mob.
//
// Purchased animals (purchase date and age-at-purchase both present) age from
// their recorded age at purchase plus the years elapsed since. Born animals
// age from elapsed days: "N days" under 30 days, "N months" under a year,
// otherwise years and months. Calendar months are approximated at 30 days,
// matching the display the rest of the application has always shown.
func FormatAge(birthDate, purchaseDate *time.Time, ageAtPurchaseYears *float64, now time.Time) string {
	if purchaseDate != nil && ageAtPurchaseYears != nil {
		years := *ageAtPurchaseYears + now.Sub(*purchaseDate).Hours()/24/daysPerYear
		if years < 0 {
			years = 0
		}
		if years < 1 {
			return fmt.Sprintf("%d months", int(years*12))
		}
		whole := int(years)
		months := int((years - float64(whole)) * 12)
		return fmt.Sprintf("%dy %dm", whole, months)
	}

	if birthDate != nil {
		days := int(now.Sub(*birthDate).Hours() / 24)
		if days < 0 {
			days = 0
		}
		switch {
		case days < 30:
			return fmt.Sprintf("%d days", days)
		case days < daysPerYear:
			return fmt.Sprintf("%d months", days/30)
		default:
			years := days / daysPerYear
			months := (days % daysPerYear) / 30
			return fmt.Sprintf("%dy %dm", years, months)
		}
	}

	return AgeUnknown
}
