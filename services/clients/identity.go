// Package clients reconciles an instructor's booking history and externally
// known clients into one de-duplicated client roster, and filters, sorts,
// summarizes, exports and imports that roster.
package clients

import (
	"time"

	"pocketclass/models"
)

// Source tags where an identity originated.
type Source string

const (
	SourceBooking  Source = "booking"
	SourceExternal Source = "external"
)

// BookingSummary is one booking contributing to an identity.
type BookingSummary struct {
	ID           string              `json:"id"`
	Price        float64             `json:"price"`
	StartTime    time.Time           `json:"startTime"`
	ClassDetails models.ClassDetails `json:"classDetails"`
}

// Identity is the merged view of a single real-world client across sources.
// Key is the normalized email, or a synthetic key when the client has no email.
type Identity struct {
	Key              string              `json:"key"`
	Email            *string             `json:"email"`
	Name             string              `json:"name"`
	FirstName        string              `json:"firstName,omitempty"`
	LastName         string              `json:"lastName,omitempty"`
	Phone            string              `json:"phone,omitempty"`
	StudentID        string              `json:"studentId,omitempty"`
	ExternalIDs      []string            `json:"externalIds,omitempty"`
	TotalSales       float64             `json:"totalSales"`
	BookingCount     int                 `json:"bookingCount"`
	AllBookings      []BookingSummary    `json:"allBookings"`
	StartTime        time.Time           `json:"startTime"`
	ClassDetails     models.ClassDetails `json:"classDetails"`
	Source           Source              `json:"source"`
	HasExternalSales bool                `json:"hasExternalSales"`
	IsExternal       bool                `json:"isExternal"`
}

// clone returns a copy that shares no slices with the receiver.
func (id Identity) clone() Identity {
	out := id
	if id.AllBookings != nil {
		out.AllBookings = make([]BookingSummary, len(id.AllBookings))
		copy(out.AllBookings, id.AllBookings)
	}
	if id.ExternalIDs != nil {
		out.ExternalIDs = make([]string, len(id.ExternalIDs))
		copy(out.ExternalIDs, id.ExternalIDs)
	}
	if id.Email != nil {
		email := *id.Email
		out.Email = &email
	}
	return out
}

// EmailOrEmpty returns the identity's email, or "" when it has none.
func (id Identity) EmailOrEmpty() string {
	if id.Email == nil {
		return ""
	}
	return *id.Email
}
