package enums

import "fmt"

// RepairStatus tracks the lifecycle of a repair record.
type RepairStatus string

const (
	RepairStatusPending    RepairStatus = "pending"
	RepairStatusAssigned   RepairStatus = "assigned"
	RepairStatusInProgress RepairStatus = "in_progress"
	RepairStatusCompleted  RepairStatus = "completed"
)

var validRepairStatuses = []RepairStatus{
	RepairStatusPending,
	RepairStatusAssigned,
	RepairStatusInProgress,
	RepairStatusCompleted,
}

// String implements fmt.Stringer.
func (r RepairStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RepairStatus.
func (r RepairStatus) IsValid() bool {
	for _, candidate := range validRepairStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions.
func (r RepairStatus) IsTerminal() bool {
	return r == RepairStatusCompleted
}

// ParseRepairStatus converts raw input into a RepairStatus.
func ParseRepairStatus(value string) (RepairStatus, error) {
	for _, candidate := range validRepairStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid repair status %q", value)
}
