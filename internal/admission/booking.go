package admission

// Occupied is an existing reservation on the same court and date.
// Cancelled reservations must be filtered out before they reach FindConflict;
// the Cancelled flag is honoured here as well so a stray row never blocks.
type Occupied struct {
	BookingID string
	Interval  Interval
	Cancelled bool
}

// FindConflict returns the first existing reservation that overlaps candidate.
func FindConflict(candidate Interval, existing []Occupied) (Occupied, bool) {
	for _, o := range existing {
		if o.Cancelled {
			continue
		}
		if candidate.Overlaps(o.Interval) {
			return o, true
		}
	}
	return Occupied{}, false
}
