package enums

import "fmt"

// MovementType classifies a single stock movement recorded by the backend.
type MovementType string

const (
	MovementTypeOutToBusiness  MovementType = "out_to_business"
	MovementTypeInFromBusiness MovementType = "in_from_business"
	MovementTypeAdjustment     MovementType = "adjustment"
)

var validMovementTypes = []MovementType{
	MovementTypeOutToBusiness,
	MovementTypeInFromBusiness,
	MovementTypeAdjustment,
}

func (m MovementType) String() string {
	return string(m)
}

func (m MovementType) IsValid() bool {
	for _, candidate := range validMovementTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

func ParseMovementType(value string) (MovementType, error) {
	for _, candidate := range validMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement type %q", value)
}

// Label is the badge text shown in the movements table.
func (m MovementType) Label() string {
	switch m {
	case MovementTypeOutToBusiness:
		return "Out to Business"
	case MovementTypeInFromBusiness:
		return "In from Business"
	case MovementTypeAdjustment:
		return "Adjustment"
	}
	return string(m)
}
