package dataset

import (
	"errors"
	"fmt"
)

// DataContractError reports input tables that violate the engine's data
// contract: mismatched region sets, missing or non-positive population, or
// numeric anomalies in derived values.
type DataContractError struct {
	Material string
	Region   string
	Year     int
	Reason   string
}

func (e *DataContractError) Error() string {
	msg := "data contract"
	if e.Material != "" {
		msg += ": " + e.Material
	}
	if e.Region != "" {
		msg += fmt.Sprintf(": region %s", e.Region)
	}
	if e.Year != 0 {
		msg += fmt.Sprintf(" year %d", e.Year)
	}
	return msg + ": " + e.Reason
}

// IsDataContract reports whether err is, or wraps, a *DataContractError.
func IsDataContract(err error) bool {
	var dce *DataContractError
	return errors.As(err, &dce)
}
