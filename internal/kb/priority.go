package kb

// Task priority is a 3-level human vocabulary stored numerically.
// {low, medium, high} map to {1, 3, 5}; no other numeric value is
// accepted as input, and unknown stored values decode to medium.

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	priorityLowStored    = 1
	priorityMediumStored = 3
	priorityHighStored   = 5
)

// StatusCompleted is the only task status with a side effect: setting
// it stamps completed_at, setting anything else clears it. The expected
// path is todo → in_progress → completed, but ordering is not enforced.
const StatusCompleted = "completed"

// PriorityToStorage translates a priority level to its storage value.
func PriorityToStorage(level string) (int, error) {
	switch level {
	case PriorityLow:
		return priorityLowStored, nil
	case PriorityMedium:
		return priorityMediumStored, nil
	case PriorityHigh:
		return priorityHighStored, nil
	}
	return 0, invalidInput("unknown priority %q (expected low, medium, or high)", level)
}

// PriorityFromStorage translates a stored value back to a level.
// Values outside {1, 3, 5} decode defensively to medium.
func PriorityFromStorage(n int) string {
	switch n {
	case priorityLowStored:
		return PriorityLow
	case priorityHighStored:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// completionFor returns the completed_at value implied by a status:
// a fresh timestamp for "completed", nil for everything else.
func completionFor(status string) *string {
	if status == StatusCompleted {
		now := Now()
		return &now
	}
	return nil
}
