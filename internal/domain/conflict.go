package domain

// FindConflict returns the first confirmed range that overlaps the candidate,
// or nil. Pure; callers are responsible for holding whatever lock makes the
// `existing` snapshot authoritative. O(k) over the room's reservations.
func FindConflict(existing []DateRange, candidate DateRange) *DateRange {
	for i := range existing {
		if existing[i].Overlaps(candidate) {
			return &existing[i]
		}
	}
	return nil
}

// HasConflict reports whether the candidate overlaps any existing range.
func HasConflict(existing []DateRange, candidate DateRange) bool {
	return FindConflict(existing, candidate) != nil
}
