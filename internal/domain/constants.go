package domain

// Default schedule values
const (
	DefaultOpenTime            = "08:00"
	DefaultCloseTime           = "20:00"
	DefaultWeekendCloseTime    = "16:00"
	DefaultSlotDurationMinutes = 60
	DefaultCapacity            = 1
	DefaultMaxAdvanceDays      = 60
)

// Business validation constants
const (
	MinSlotDurationMinutes  = 5
	MaxSlotDurationMinutes  = 480
	MaxCapacity             = 100
	MaxDescriptionLength    = 2000
	MaxNoteLength           = 2000
	MaxCancelReasonLength   = 500
	MaxOverrideReasonLength = 500
	MaxSlotOverridesPerDay  = 96
)

// ProblemType counseling topic offered to users
type ProblemType struct {
	ID    string
	Label string
}

// ProblemTypes catalogue of counseling topics
var ProblemTypes = []ProblemType{
	{ID: "stress", Label: "Stress / anxiety"},
	{ID: "depression", Label: "Depression"},
	{ID: "relationship", Label: "Relationships"},
	{ID: "academic", Label: "Academic"},
	{ID: "career", Label: "Career / work"},
	{ID: "family", Label: "Family"},
	{ID: "self-esteem", Label: "Self-esteem"},
	{ID: "sleep", Label: "Sleep"},
	{ID: "addiction", Label: "Addiction"},
	{ID: "grief", Label: "Grief / loss"},
	{ID: "other", Label: "Other"},
}

// IsKnownProblemType checks the id against the catalogue
func IsKnownProblemType(id string) bool {
	for _, p := range ProblemTypes {
		if p.ID == id {
			return true
		}
	}
	return false
}

// ActiveStatuses statuses that count toward the single-active-booking rule
var ActiveStatuses = []BookingStatus{
	StatusConfirmed,
	StatusAssigned,
}
