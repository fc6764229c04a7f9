package enums

import (
	"fmt"
	"strings"
)

// TransferType is the direction of a stock transfer relative to the warehouse.
type TransferType string

const (
	TransferTypeIn  TransferType = "IN"
	TransferTypeOut TransferType = "OUT"
)

var validTransferTypes = []TransferType{
	TransferTypeIn,
	TransferTypeOut,
}

// String implements fmt.Stringer.
func (t TransferType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransferType.
func (t TransferType) IsValid() bool {
	for _, candidate := range validTransferTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransferType accepts exactly IN or OUT, ignoring surrounding space.
func ParseTransferType(value string) (TransferType, error) {
	normalized := strings.TrimSpace(value)
	for _, candidate := range validTransferTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transfer type %q", value)
}
