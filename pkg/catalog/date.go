package catalog

import (
	"fmt"
	"time"
)

const dateFormat = "2006-01-02"

// Date is a calendar date with no time component. The zero value marks an
// absent date, which an open route version uses for valid_to.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(dateFormat, value)
	if err != nil {
		return Date{}, err
	}

	return dateOf(parsed), nil
}

// ParseGTFSDate parses the compact YYYYMMDD form used by the feed files.
func ParseGTFSDate(value string) (Date, error) {
	parsed, err := time.Parse("20060102", value)
	if err != nil {
		return Date{}, err
	}

	return dateOf(parsed), nil
}

func dateOf(value time.Time) Date {
	return Date{Year: value.Year(), Month: value.Month(), Day: value.Day()}
}

func (d Date) toTime() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Weekday() time.Weekday {
	return d.toTime().Weekday()
}

func (d Date) AddDays(days int) Date {
	return dateOf(d.toTime().AddDate(0, 0, days))
}

func (d Date) Compare(other Date) int {
	return d.toTime().Compare(other.toTime())
}

func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}

	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalCSV() (string, error) {
	return d.String(), nil
}

func (d *Date) UnmarshalCSV(value string) error {
	if value == "" {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(value)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}
