package domain

import (
	"cmp"
	"fmt"
	"strings"
)

// DateError classifies why a date was rejected. Its text is the message shown to
// whoever entered the date.
type DateError string

func (e DateError) Error() string {
	return string(e)
}

const (
	ErrDateParse      DateError = "Invalid Date Entry"
	ErrYearOutOfRange DateError = "Invalid Year in Date Entry"
	ErrInvalidMonth   DateError = "Invalid Month in Date Entry"
	ErrInvalidDay     DateError = "Invalid Day in Date Entry"
)

// Date is a calendar day inside [MinYear, MaxYear]. The zero value is the empty
// date; a Date is never partially set.
type Date struct {
	year  int
	month int
	day   int
	key   int
}

// NewDate validates year, month and day. Construction keeps the year strictly
// inside the window, while ParseDate accepts the bounds themselves.
func NewDate(year, month, day int) (Date, error) {
	if year <= MinYear || year >= MaxYear {
		return Date{}, ErrYearOutOfRange
	}
	return checkedDate(year, month, day)
}

func checkedDate(year, month, day int) (Date, error) {
	if month < 1 || month > 12 {
		return Date{}, ErrInvalidMonth
	}
	if day < 1 || day > DaysInMonth(month, year) {
		return Date{}, ErrInvalidDay
	}
	return Date{
		year:  year,
		month: month,
		day:   day,
		key:   year*372 + month*13 + day,
	}, nil
}

// ParseDate reads "<year><sep><month><sep><day>" where sep is '-' or '/'. A
// malformed token fails the reader with ErrDateParse; range errors leave the
// reader usable. Either way the returned Date is empty on error.
func ParseDate(r *FieldReader) (Date, error) {
	var parts [3]int
	for i := range parts {
		if i > 0 {
			sep, ok := r.readChar()
			if !ok || (sep != '-' && sep != '/') {
				r.Fail(ErrDateParse)
				return Date{}, ErrDateParse
			}
		}
		n, ok := r.readInt()
		if !ok {
			r.Fail(ErrDateParse)
			return Date{}, ErrDateParse
		}
		parts[i] = n
	}

	year, month, day := parts[0], parts[1], parts[2]
	if year < MinYear || year > MaxYear {
		return Date{}, ErrYearOutOfRange
	}
	return checkedDate(year, month, day)
}

// ParseDateString parses s as a whole; anything but white space after the day is
// a parse error.
func ParseDateString(s string) (Date, error) {
	r := NewFieldReader(strings.NewReader(s))
	d, err := ParseDate(r)
	if err != nil {
		return Date{}, err
	}
	r.skipSpace()
	if !r.AtEOF() {
		return Date{}, ErrDateParse
	}
	return d, nil
}

func (d Date) Year() int  { return d.year }
func (d Date) Month() int { return d.month }
func (d Date) Day() int   { return d.day }

// Key orders dates: a later day always has a larger key.
func (d Date) Key() int { return d.key }

func (d Date) IsEmpty() bool {
	return d.key == 0
}

// String renders YYYY/MM/DD. The rendering of an empty date is unspecified.
func (d Date) String() string {
	return fmt.Sprintf("%d/%02d/%02d", d.year, d.month, d.day)
}

// Compare orders d against other. ok is false when either date is empty; empty
// dates are neither equal nor unequal to anything.
func (d Date) Compare(other Date) (c int, ok bool) {
	if d.IsEmpty() || other.IsEmpty() {
		return 0, false
	}
	return cmp.Compare(d.key, other.key), true
}

func (d Date) Equal(other Date) bool {
	c, ok := d.Compare(other)
	return ok && c == 0
}

func (d Date) NotEqual(other Date) bool {
	c, ok := d.Compare(other)
	return ok && c != 0
}

func (d Date) Before(other Date) bool {
	c, ok := d.Compare(other)
	return ok && c < 0
}

func (d Date) After(other Date) bool {
	c, ok := d.Compare(other)
	return ok && c > 0
}

func (d Date) BeforeOrEqual(other Date) bool {
	c, ok := d.Compare(other)
	return ok && c <= 0
}

func (d Date) AfterOrEqual(other Date) bool {
	c, ok := d.Compare(other)
	return ok && c >= 0
}
