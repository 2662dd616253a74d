package enums

import "fmt"

// DispatchStatus tracks the lifecycle of a dispatch record.
type DispatchStatus string

const (
	DispatchStatusPending   DispatchStatus = "pending"
	DispatchStatusInTransit DispatchStatus = "in_transit"
	DispatchStatusDelivered DispatchStatus = "delivered"
)

var validDispatchStatuses = []DispatchStatus{
	DispatchStatusPending,
	DispatchStatusInTransit,
	DispatchStatusDelivered,
}

// String implements fmt.Stringer.
func (d DispatchStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DispatchStatus.
func (d DispatchStatus) IsValid() bool {
	for _, candidate := range validDispatchStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions.
func (d DispatchStatus) IsTerminal() bool {
	return d == DispatchStatusDelivered
}

// ParseDispatchStatus converts raw input into a DispatchStatus.
func ParseDispatchStatus(value string) (DispatchStatus, error) {
	for _, candidate := range validDispatchStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dispatch status %q", value)
}
