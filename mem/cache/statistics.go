package cache

// Statistics accumulates the outcomes of a trace.
type Statistics struct {
	TotalAccesses uint64 `json:"total_accesses"`
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	Compulsory    uint64 `json:"compulsory"`
	Conflict      uint64 `json:"conflict"`
	Capacity      uint64 `json:"capacity"`
}

// Record adds one outcome to the totals.
func (s *Statistics) Record(o Outcome) {
	s.TotalAccesses++

	if o.Hit {
		s.Hits++
		return
	}

	s.Misses++

	switch o.Kind {
	case Compulsory:
		s.Compulsory++
	case Conflict:
		s.Conflict++
	case Capacity:
		s.Capacity++
	default:
		panic("miss without a kind")
	}
}

// HitRate is hits over total accesses, or 0 when nothing was accessed.
func (s Statistics) HitRate() float64 {
	return ratio(s.Hits, s.TotalAccesses)
}

// MissRate is misses over total accesses, or 0 when nothing was accessed.
func (s Statistics) MissRate() float64 {
	return ratio(s.Misses, s.TotalAccesses)
}

// CompulsoryRate is the fraction of misses that are compulsory.
func (s Statistics) CompulsoryRate() float64 {
	return ratio(s.Compulsory, s.Misses)
}

// ConflictRate is the fraction of misses that are conflict misses.
func (s Statistics) ConflictRate() float64 {
	return ratio(s.Conflict, s.Misses)
}

// CapacityRate is the fraction of misses that are capacity misses.
func (s Statistics) CapacityRate() float64 {
	return ratio(s.Capacity, s.Misses)
}

func ratio(n, d uint64) float64 {
	if d == 0 {
		return 0
	}

	return float64(n) / float64(d)
}
