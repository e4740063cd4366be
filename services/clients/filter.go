package clients

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type SourceFilter string

const (
	SourceAll       SourceFilter = "all"
	SourceBookings  SourceFilter = "booking"
	SourceExternals SourceFilter = "external"
)

type SalesRange string

const (
	SalesAll    SalesRange = "all"
	SalesNone   SalesRange = "none"   // exactly 0
	SalesLow    SalesRange = "low"    // (0, 100]
	SalesMedium SalesRange = "medium" // (100, 500]
	SalesHigh   SalesRange = "high"   // (500, inf)
)

type BookingPresence string

const (
	BookingsAll BookingPresence = "all"
	BookingsYes BookingPresence = "yes"
	BookingsNo  BookingPresence = "no"
)

type DateRange string

const (
	DatesAll     DateRange = "all"
	DatesLast30  DateRange = "last30"
	DatesLast90  DateRange = "last90"
	DatesLast365 DateRange = "last365"
)

var dateRangeDays = map[DateRange]int{
	DatesLast30:  30,
	DatesLast90:  90,
	DatesLast365: 365,
}

// Criteria is the roster filter. Empty fields mean "all"; all clauses are ANDed.
// Search is matched as typed, whitespace included.
type Criteria struct {
	Search      string          `json:"search,omitempty"`
	Source      SourceFilter    `json:"source,omitempty"`
	SalesRange  SalesRange      `json:"salesRange,omitempty"`
	HasBookings BookingPresence `json:"hasBookings,omitempty"`
	DateRange   DateRange       `json:"dateRange,omitempty"`
}

// Validate rejects values outside each clause's enum. Empty values are valid.
func (c Criteria) Validate() error {
	switch c.Source {
	case "", SourceAll, SourceBookings, SourceExternals:
	default:
		return NewValidationError("invalid_source", fmt.Sprintf("unknown source %q", c.Source))
	}
	switch c.SalesRange {
	case "", SalesAll, SalesNone, SalesLow, SalesMedium, SalesHigh:
	default:
		return NewValidationError("invalid_sales_range", fmt.Sprintf("unknown sales range %q", c.SalesRange))
	}
	switch c.HasBookings {
	case "", BookingsAll, BookingsYes, BookingsNo:
	default:
		return NewValidationError("invalid_has_bookings", fmt.Sprintf("unknown booking filter %q", c.HasBookings))
	}
	if _, ok := dateRangeDays[c.DateRange]; !ok && c.DateRange != "" && c.DateRange != DatesAll {
		return NewValidationError("invalid_date_range", fmt.Sprintf("unknown date range %q", c.DateRange))
	}
	return nil
}

// Filter returns the identities matching every clause of c, keeping their order.
// The input slice is not modified.
func Filter(list []Identity, c Criteria, now time.Time) []Identity {
	search := strings.ToLower(c.Search)
	out := make([]Identity, 0, len(list))
	for _, id := range list {
		if matches(id, c, search, now) {
			out = append(out, id)
		}
	}
	return out
}

func matches(id Identity, c Criteria, search string, now time.Time) bool {
	if search != "" && !matchesSearch(id, search) {
		return false
	}
	if !matchesSource(id, c.Source) {
		return false
	}
	if !matchesSales(id.TotalSales, c.SalesRange) {
		return false
	}
	if !matchesBookings(id.BookingCount, c.HasBookings) {
		return false
	}
	return matchesDate(id.StartTime, c.DateRange, now)
}

func matchesSearch(id Identity, search string) bool {
	if strings.Contains(strings.ToLower(id.Name), search) {
		return true
	}
	return id.Email != nil && strings.Contains(strings.ToLower(*id.Email), search)
}

func matchesSource(id Identity, f SourceFilter) bool {
	switch f {
	case SourceBookings:
		return id.Source == SourceBooking
	case SourceExternals:
		return id.Source == SourceExternal
	}
	return true
}

// Boundary values 100 and 500 belong to the lower bucket.
func matchesSales(total float64, r SalesRange) bool {
	switch r {
	case SalesNone:
		return total == 0
	case SalesLow:
		return total > 0 && total <= 100
	case SalesMedium:
		return total > 100 && total <= 500
	case SalesHigh:
		return total > 500
	}
	return true
}

func matchesBookings(count int, p BookingPresence) bool {
	switch p {
	case BookingsYes:
		return count > 0
	case BookingsNo:
		return count == 0
	}
	return true
}

func matchesDate(start time.Time, r DateRange, now time.Time) bool {
	days, ok := dateRangeDays[r]
	if !ok {
		return true
	}
	if start.IsZero() {
		return false
	}
	return daysSince(start, now) <= days
}

// daysSince is the whole number of days between t and now, rounded down.
func daysSince(t, now time.Time) int {
	return int(math.Floor(float64(now.Sub(t)) / float64(24*time.Hour)))
}
