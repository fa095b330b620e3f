package domain

import "fmt"

// Size represents a task sizing estimate.
// This is a value object that enforces valid size values.
type Size string

// Valid task sizes
const (
	SizeS Size = "S" // Small - about half a day
	SizeM Size = "M" // Medium - about a day and a half
	SizeL Size = "L" // Large - about three days
)

// NewSize creates a new Size value object with validation
func NewSize(value string) (Size, error) {
	s := Size(value)
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// Validate checks if the size is valid
func (s Size) Validate() error {
	switch s {
	case SizeS, SizeM, SizeL:
		return nil
	default:
		return fmt.Errorf("invalid size %q: must be S, M, or L", string(s))
	}
}

// String returns the string representation
func (s Size) String() string {
	return string(s)
}

// Days returns the fixed duration weight for the size, in day units.
// These weights feed the critical path computation.
func (s Size) Days() float64 {
	switch s {
	case SizeS:
		return 0.5
	case SizeM:
		return 1.5
	case SizeL:
		return 3.0
	default:
		return 0
	}
}

// IsLargerThan checks if this size is larger than another
func (s Size) IsLargerThan(other Size) bool {
	return s.Days() > other.Days()
}
