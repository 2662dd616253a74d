package enums

import "fmt"

// RecordKind distinguishes the three workflow tables synced per role.
type RecordKind string

const (
	RecordKindOrder    RecordKind = "order"
	RecordKindRepair   RecordKind = "repair"
	RecordKindDispatch RecordKind = "dispatch"
)

var validRecordKinds = []RecordKind{
	RecordKindOrder,
	RecordKindRepair,
	RecordKindDispatch,
}

// String implements fmt.Stringer.
func (r RecordKind) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RecordKind.
func (r RecordKind) IsValid() bool {
	for _, candidate := range validRecordKinds {
		if candidate == r {
			return true
		}
	}
	return false
}

// Table returns the database table backing the record kind.
func (r RecordKind) Table() string {
	switch r {
	case RecordKindOrder:
		return "order_records"
	case RecordKindRepair:
		return "repair_records"
	case RecordKindDispatch:
		return "dispatch_records"
	default:
		return ""
	}
}

// ParseRecordKind converts raw input into a RecordKind.
func ParseRecordKind(value string) (RecordKind, error) {
	for _, candidate := range validRecordKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid record kind %q", value)
}
