package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DateLayout is the on-disk date format ("dd-MM-yyyy").
const DateLayout = "02-01-2006"

var (
	NowFunc = time.Now // mockable

	ErrInvalidDate = errors.New("invalid date")
)

// Date is a calendar day without time or zone.
// Stored and displayed as "dd-MM-yyyy"; compared field by field.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func Today() Date {
	return DateOf(NowFunc())
}

// ParseDate parses "dd-MM-yyyy". Unpadded parts ("5-1-2026") are accepted too.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 || len(parts[2]) != 4 {
		return Date{}, errors.Wrapf(ErrInvalidDate, "%q", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return Date{}, errors.Wrapf(ErrInvalidDate, "%q", s)
		}
		nums[i] = n
	}
	d := Date{Year: nums[2], Month: time.Month(nums[1]), Day: nums[0]}
	// reject overflowing dates such as 31-02-2026
	if DateOf(d.Time()) != d {
		return Date{}, errors.Wrapf(ErrInvalidDate, "%q", s)
	}
	return d, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, int(d.Month), d.Year)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

func (d Date) InMonth(month time.Month, year int) bool {
	return d.Month == month && d.Year == year
}

func (d Date) InYear(year int) bool {
	return d.Year == year
}

// Display renders the date the way reports show it, eg. "Monday, 05 January, 2026".
func (d Date) Display() string {
	return d.Time().Format("Monday, 02 January, 2006")
}

// Duration renders the elapsed period between from and to as "Y Year M Month D Day".
func Duration(from, to Date) string {
	if from.IsZero() || to.Before(from) {
		return "0 Year 0 Month 0 Day"
	}
	months := (to.Year-from.Year)*12 + int(to.Month) - int(from.Month)
	days := to.Day - from.Day
	if days < 0 {
		months--
		anchor := from.Time().AddDate(0, months, 0)
		days = int(to.Time().Sub(anchor).Hours() / 24)
	}
	return fmt.Sprintf("%d Year %d Month %d Day", months/12, months%12, days)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
