package clients

import (
	"strconv"

	"pocketclass/models"
)

const anonymousKeyPrefix = "anon:"

// identityKey returns the merge key of a record. Records with an email share the
// normalized email. Records without one get "anon:<kind>:<id>", derived from the record
// so the key survives reloads; pos stands in for a missing id and disambiguates
// duplicate ids, so such records never merge with anything.
func identityKey(index map[string]int, email string, hasEmail bool, kind, id string, pos int) string {
	if hasEmail {
		return NormalizeEmail(email)
	}
	n := strconv.Itoa(pos)
	if id == "" {
		id = "#" + n
	}
	key := anonymousKeyPrefix + kind + ":" + id
	if _, taken := index[key]; taken {
		key += "#" + n
	}
	return key
}

// AggregateBookings collapses an instructor's bookings into one identity per student
// email, in order of first appearance. Bookings without any email stay separate.
func AggregateBookings(bookings []models.Booking) []Identity {
	index := make(map[string]int, len(bookings))
	out := make([]Identity, 0, len(bookings))

	for i, b := range bookings {
		rec := BookingRecord{Booking: b}
		start, _ := ParseStartTime(b.StartTime)
		summary := BookingSummary{
			ID:           b.ID,
			Price:        ParsePrice(b.Price),
			StartTime:    start,
			ClassDetails: b.ClassDetails,
		}

		email, hasEmail := ResolveEmail(rec)
		key := identityKey(index, email, hasEmail, "booking", b.ID, i)
		if i, found := index[key]; found {
			addBooking(&out[i], summary)
			continue
		}

		id := newBookingIdentity(rec, key, hasEmail)
		addBooking(&id, summary)
		index[key] = len(out)
		out = append(out, id)
	}
	return out
}

func newBookingIdentity(rec BookingRecord, key string, hasEmail bool) Identity {
	first, last := ResolveNameParts(rec)
	id := Identity{
		Key:         key,
		Name:        ResolveName(rec),
		FirstName:   first,
		LastName:    last,
		Phone:       ResolvePhone(rec),
		StudentID:   rec.StudentID,
		AllBookings: []BookingSummary{},
		Source:      SourceBooking,
	}
	if hasEmail {
		email := key
		id.Email = &email
	}
	return id
}

// addBooking accumulates one booking. The identity's start time and class follow the
// latest booking; unparseable dates are zero and so never count as later.
func addBooking(id *Identity, b BookingSummary) {
	id.TotalSales += b.Price
	id.BookingCount++
	id.AllBookings = append(id.AllBookings, b)
	if id.BookingCount == 1 || b.StartTime.After(id.StartTime) {
		id.StartTime = b.StartTime
		id.ClassDetails = b.ClassDetails
	}
}
