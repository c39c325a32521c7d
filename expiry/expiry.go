package expiry

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/poiesic/medsearch/core"
	"github.com/poiesic/medsearch/search"
)

const (
	// DefaultColumn is the header of the expiry date column.
	DefaultColumn = "expiry_date"
	// NearExpiryDays is the largest number of days left that counts as near expiry.
	NearExpiryDays = 30
	// HighDiscountPercent is the smallest discount that counts as high.
	HighDiscountPercent = 50
)

// ErrInvalidDate is returned when an expiry value matches no supported layout.
var ErrInvalidDate = errors.New("invalid expiry date")

// layouts are tried in order. Values without a zone are read as UTC.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// ParseDate parses an expiry value.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// DaysLeft returns the whole days from now until expiry, rounded up.
func DaysLeft(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// Discount returns the clearance discount percentage for the days left.
func Discount(daysLeft int) int {
	switch {
	case daysLeft <= 7:
		return 70
	case daysLeft <= 15:
		return 50
	case daysLeft <= 30:
		return 30
	default:
		return 0
	}
}

// Status is the shelf-life state of one record.
type Status struct {
	DaysLeft int
	Discount int
}

// NearExpiry reports whether the record expires within NearExpiryDays.
func (s Status) NearExpiry() bool {
	return s.DaysLeft <= NearExpiryDays
}

// HighDiscount reports whether the discount reaches HighDiscountPercent.
func (s Status) HighDiscount() bool {
	return s.Discount >= HighDiscountPercent
}

// Of reads column from record and derives its status at now.
// Header matching is case-insensitive.
func Of(record *core.Record, column string, now time.Time) (Status, error) {
	value, ok := field(record, column)
	if !ok {
		return Status{}, fmt.Errorf("%w: column %q not present", ErrInvalidDate, column)
	}
	expiry, err := ParseDate(value)
	if err != nil {
		return Status{}, err
	}
	days := DaysLeft(expiry, now)
	return Status{DaysLeft: days, Discount: Discount(days)}, nil
}

// NearExpiryFilter keeps records expiring within NearExpiryDays of now.
// Records with a missing or unparseable date are dropped.
func NearExpiryFilter(column string, now time.Time) search.Filter {
	return func(record *core.Record) bool {
		status, err := Of(record, column, now)
		return err == nil && status.NearExpiry()
	}
}

// HighDiscountFilter keeps records whose discount at now is at least
// HighDiscountPercent. Records with a missing or unparseable date are dropped.
func HighDiscountFilter(column string, now time.Time) search.Filter {
	return func(record *core.Record) bool {
		status, err := Of(record, column, now)
		return err == nil && status.HighDiscount()
	}
}

// HasColumn reports whether columns contains column, ignoring case.
func HasColumn(columns []string, column string) bool {
	for _, c := range columns {
		if strings.EqualFold(c, column) {
			return true
		}
	}
	return false
}

func field(record *core.Record, column string) (string, bool) {
	if v, ok := record.Field(column); ok {
		return v, true
	}
	if record == nil {
		return "", false
	}
	for k, v := range record.Fields {
		if strings.EqualFold(k, column) {
			return v, true
		}
	}
	return "", false
}
