package seats

type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusHeld      Status = "HELD"
	StatusBooked    Status = "BOOKED"
)

// IsValid checks if the seat status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusHeld, StatusBooked:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether the ledger allows moving from s to next.
// BOOKED only returns to AVAILABLE through booking deletion and never goes
// straight to HELD.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusAvailable:
		return next == StatusHeld || next == StatusBooked
	case StatusHeld:
		return next == StatusAvailable || next == StatusBooked
	case StatusBooked:
		return next == StatusAvailable
	}
	return false
}
