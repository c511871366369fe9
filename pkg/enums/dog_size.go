package enums

import "fmt"

// DogSize represents the canonical dog size bucket stored on dogs.size.
type DogSize string

const (
	DogSizeSmall  DogSize = "small"
	DogSizeMedium DogSize = "medium"
	DogSizeLarge  DogSize = "large"
)

var validDogSizes = []DogSize{
	DogSizeSmall,
	DogSizeMedium,
	DogSizeLarge,
}

// String implements fmt.Stringer.
func (s DogSize) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DogSize.
func (s DogSize) IsValid() bool {
	for _, candidate := range validDogSizes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseDogSize converts raw input into a DogSize.
func ParseDogSize(value string) (DogSize, error) {
	for _, candidate := range validDogSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dog size %q", value)
}
