package reconciler

import (
	"errors"
	"fmt"
	"time"
)

const compactDateFormat = "20060102"

// ExpandDateArguments turns the CLI's date selection into the ordered list
// of snapshot dates to process: either a single --date, or a range given as
// --start with --end or --days.
func ExpandDateArguments(date, start, end string, days int) ([]string, error) {
	if date != "" {
		if start != "" || end != "" || days != 0 {
			return nil, errors.New("cannot combine a single date with a date range")
		}
		if _, err := time.Parse(compactDateFormat, date); err != nil {
			return nil, fmt.Errorf("invalid date %q, expected YYYYMMDD: %w", date, err)
		}
		return []string{date}, nil
	}

	if start == "" {
		return nil, errors.New("either a date or a start of a date range is required")
	}

	first, err := time.Parse(compactDateFormat, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q, expected YYYYMMDD: %w", start, err)
	}

	var last time.Time
	switch {
	case end != "" && days != 0:
		return nil, errors.New("cannot combine an end date with a day count")
	case end != "":
		last, err = time.Parse(compactDateFormat, end)
		if err != nil {
			return nil, fmt.Errorf("invalid end date %q, expected YYYYMMDD: %w", end, err)
		}
	case days > 0:
		last = first.AddDate(0, 0, days-1)
	default:
		return nil, errors.New("a date range needs an end date or a day count")
	}

	if last.Before(first) {
		return nil, errors.New("start date must not be after the end date")
	}

	var dates []string
	for current := first; !current.After(last); current = current.AddDate(0, 0, 1) {
		dates = append(dates, current.Format(compactDateFormat))
	}

	return dates, nil
}
