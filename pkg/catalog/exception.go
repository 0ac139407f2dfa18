package catalog

import (
	"fmt"
	"strconv"
)

// ExceptionType marks an activation as an explicit calendar override. The
// zero value means a regular scheduled activation with no override, which is
// deliberately distinct from any feed exception code.
type ExceptionType int8

const (
	ExceptionNone    ExceptionType = 0
	ExceptionAdded   ExceptionType = 1
	ExceptionRemoved ExceptionType = 2
)

func (e ExceptionType) IsException() bool {
	return e != ExceptionNone
}

func (e ExceptionType) MarshalCSV() (string, error) {
	if e == ExceptionNone {
		return "", nil
	}

	return strconv.Itoa(int(e)), nil
}

func (e *ExceptionType) UnmarshalCSV(value string) error {
	if value == "" {
		*e = ExceptionNone
		return nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid exception type %q: %w", value, err)
	}

	*e = ExceptionType(parsed)
	return nil
}
