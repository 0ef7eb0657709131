package calendar

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidDate is returned when a value cannot be read as a calendar day.
var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar day with no time-of-day component. The zero value means
// "no date assigned".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date from its components without validation.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// Today returns the calendar day of now as seen in loc.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return FromTime(now.In(loc))
}

// FromTime takes the wall-clock date of t in its own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Normalize turns a string (YYYY-MM-DD), time.Time or Date into a Date.
// Anything absent or unreadable yields false instead of an error.
func Normalize(value any) (Date, bool) {
	switch v := value.(type) {
	case nil:
		return Date{}, false
	case string:
		d, err := ParseDate(v)
		return d, err == nil
	case *string:
		if v == nil {
			return Date{}, false
		}
		return Normalize(*v)
	case time.Time:
		if v.IsZero() {
			return Date{}, false
		}
		return FromTime(v), true
	case *time.Time:
		if v == nil {
			return Date{}, false
		}
		return Normalize(*v)
	case Date:
		return v, v.Valid()
	case *Date:
		if v == nil {
			return Date{}, false
		}
		return *v, v.Valid()
	default:
		return Date{}, false
	}
}

// SameDay reports whether a and b resolve to the same calendar day.
func SameDay(a, b any) bool {
	da, ok := Normalize(a)
	if !ok {
		return false
	}
	db, ok := Normalize(b)
	if !ok {
		return false
	}
	return da == db
}

// ParseDate reads a literal YYYY-MM-DD string.
func ParseDate(raw string) (Date, error) {
	s := strings.TrimSpace(raw)
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	var nums [3]int
	for i, p := range parts {
		for _, r := range p {
			if r < '0' || r > '9' {
				return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		nums[i] = n
	}
	d := Date{Year: nums[0], Month: time.Month(nums[1]), Day: nums[2]}
	if !d.Valid() {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d, nil
}

// IsZero reports whether no date is assigned.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Valid reports whether d names a day that exists in the Gregorian calendar.
func (d Date) Valid() bool {
	if d.Year < 1 || d.Month < time.January || d.Month > time.December {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysInMonth(d.Year, d.Month)
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// AddDays moves d by n days, crossing month and year boundaries.
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time(time.UTC).AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// InMonth reports whether d falls in the given year and month.
func (d Date) InMonth(year int, month time.Month) bool {
	return !d.IsZero() && d.Year == year && d.Month == month
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Format renders d with a time layout, e.g. "02/01/2006".
func (d Date) Format(layout string) string {
	if d.IsZero() {
		return ""
	}
	return d.Time(time.UTC).Format(layout)
}

// Value stores d as YYYY-MM-DD text, or NULL when unset.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan reads a stored day. Drivers that hand back time.Time keep the
// wall-clock date as stored, without shifting zones.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case time.Time:
		*d = FromTime(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, src)
	}
}

func (d *Date) scanString(s string) error {
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	// Some drivers return full timestamps for date-like columns.
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
