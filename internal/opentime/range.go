package opentime

// TimeRange is a start time plus a non-negative duration.
type TimeRange struct {
	StartTime RationalTime `json:"start_time"`
	Duration  RationalTime `json:"duration"`
}

func NewTimeRange(start, duration RationalTime) TimeRange {
	return TimeRange{StartTime: start, Duration: duration}
}

// EndTimeExclusive is start + duration, expressed at the start time's rate.
func (r TimeRange) EndTimeExclusive() RationalTime {
	return r.StartTime.Add(r.Duration)
}

// Contains reports whether t falls inside [start, end).
func (r TimeRange) Contains(t RationalTime) bool {
	return r.StartTime.LessEqual(t) && t.Less(r.EndTimeExclusive())
}

// Overlaps reports whether the two half-open ranges intersect.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.StartTime.Less(other.EndTimeExclusive()) &&
		other.StartTime.Less(r.EndTimeExclusive())
}

// ClampedTo intersects r with other. The second return is false when the
// ranges do not overlap at all.
func (r TimeRange) ClampedTo(other TimeRange) (TimeRange, bool) {
	if !r.Overlaps(other) {
		return TimeRange{}, false
	}
	start := r.StartTime
	if start.Less(other.StartTime) {
		start = other.StartTime
	}
	end := r.EndTimeExclusive()
	if other.EndTimeExclusive().Less(end) {
		end = other.EndTimeExclusive()
	}
	return TimeRange{StartTime: start, Duration: end.Sub(start)}, true
}

// Extend grows r just enough to also cover other.
func (r TimeRange) Extend(other TimeRange) TimeRange {
	start := r.StartTime
	if other.StartTime.Less(start) {
		start = other.StartTime
	}
	end := r.EndTimeExclusive()
	if end.Less(other.EndTimeExclusive()) {
		end = other.EndTimeExclusive()
	}
	return TimeRange{StartTime: start, Duration: end.Sub(start)}
}
