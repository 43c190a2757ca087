package model

import (
	"github.com/paulmach/orb"
)

// Coordinates is a traveler position. orb stores points in lon/lat order.
type Coordinates = orb.Point

// NewCoordinates builds a Coordinates value from latitude and longitude.
// No range validation is performed; values are passed through unchanged.
func NewCoordinates(lat, lon float64) Coordinates {
	return orb.Point{lon, lat}
}

// Verdict is the scene-safety classification reported by the model.
// The model may emit strings outside the known set; they are forwarded
// as-is to the notification and the sidecar.
type Verdict string

// Known verdicts.
const (
	VerdictSafe   Verdict = "Safe"
	VerdictDanger Verdict = "Danger"
	VerdictError  Verdict = "Error"
)

// Source is one attributed citation extracted from a search-grounded
// generation response. Order follows upstream rendering order and
// duplicates are kept.
type Source struct {
	Name string
	Link string
}

// LocationContext is the news/incident context resolved for a position.
// It is produced once per pipeline run and immutable thereafter.
type LocationContext struct {
	Text    string
	Sources []Source
}

// AssessmentVariant selects the scene-assessment output contract.
type AssessmentVariant string

const (
	// VariantVerdict yields a Safe/Danger verdict plus a summary.
	VariantVerdict AssessmentVariant = "verdict"
	// VariantKeywords yields five quick-view keywords plus a summary.
	VariantKeywords AssessmentVariant = "keywords"
)

// Assessment is the outcome of a scene analysis. Verdict is set for the
// verdict variant, Keywords for the keyword variant.
type Assessment struct {
	Variant  AssessmentVariant
	Verdict  Verdict
	Keywords []string
	Summary  string
}
