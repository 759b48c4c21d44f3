package diplomacy

import "github.com/talgya/sector-diplomacy/internal/entropy"

// Interval fires once every [Min, Max) days, drawn afresh each cycle. Time past
// the trigger point shortens the next cycle so no fraction of a day is lost.
type Interval struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Target  float64 `json:"target"`  // days from the last trigger to the next
	Elapsed float64 `json:"elapsed"` // days since the last trigger
}

// NewInterval creates an interval with its first target drawn from src.
func NewInterval(lo, hi float64, src entropy.Source) Interval {
	iv := Interval{Min: lo, Max: hi}
	iv.Target = entropy.Range(src, lo, hi)
	return iv
}

// SetBounds changes the range used for subsequent draws.
func (iv *Interval) SetBounds(lo, hi float64) {
	iv.Min, iv.Max = lo, hi
}

// Advance adds days. When the target is reached it reports true along with the
// total days since the previous trigger.
func (iv *Interval) Advance(days float64, src entropy.Source) (bool, float64) {
	if days < 0 {
		days = 0
	}
	iv.Elapsed += days
	if iv.Elapsed < iv.Target || iv.Elapsed == 0 {
		return false, 0
	}

	elapsed := iv.Elapsed
	leftover := iv.Elapsed - iv.Target
	iv.Elapsed = 0
	iv.Target = entropy.Range(src, iv.Min, iv.Max) - leftover
	if iv.Target < 0 {
		iv.Target = 0
	}
	return true, elapsed
}
