package clients

import (
	"pocketclass/models"
)

// Reconcile builds the unified client list from raw bookings and external clients.
func Reconcile(bookings []models.Booking, externals []models.ExternalClient) []Identity {
	return Merge(AggregateBookings(bookings), externals)
}

// Merge combines pre-aggregated booking identities with external client records.
//
// Booking identities are inserted first and keep their display fields. An external
// record whose normalized email matches an existing identity adds its totalSales to
// it and marks HasExternalSales; otherwise it becomes an external-only identity.
// The inputs are not modified.
func Merge(bookingIdentities []Identity, externals []models.ExternalClient) []Identity {
	index := make(map[string]int, len(bookingIdentities)+len(externals))
	out := make([]Identity, 0, len(bookingIdentities)+len(externals))

	for _, bi := range bookingIdentities {
		if i, found := index[bi.Key]; found {
			combine(&out[i], bi)
			continue
		}
		index[bi.Key] = len(out)
		out = append(out, bi.clone())
	}

	for i, ec := range externals {
		rec := ExternalRecord{ExternalClient: ec}
		email, hasEmail := ResolveEmail(rec)
		key := identityKey(index, email, hasEmail, "external", ec.ID, i)

		if i, found := index[key]; found {
			existing := &out[i]
			existing.TotalSales += ec.TotalSales
			existing.HasExternalSales = true
			existing.ExternalIDs = append(existing.ExternalIDs, ec.ID)
			if existing.Phone == "" {
				existing.Phone = ResolvePhone(rec)
			}
			continue
		}

		index[key] = len(out)
		out = append(out, newExternalIdentity(rec, key, hasEmail))
	}
	return out
}

func newExternalIdentity(rec ExternalRecord, key string, hasEmail bool) Identity {
	first, last := ResolveNameParts(rec)
	id := Identity{
		Key:         key,
		Name:        ResolveName(rec),
		FirstName:   first,
		LastName:    last,
		Phone:       ResolvePhone(rec),
		ExternalIDs: []string{rec.ID},
		TotalSales:  rec.TotalSales,
		AllBookings: []BookingSummary{},
		StartTime:   rec.CreatedAt,
		Source:      SourceExternal,
		IsExternal:  true,
	}
	if hasEmail {
		email := key
		id.Email = &email
	}
	return id
}

// combine folds a second booking identity with the same key into dst.
func combine(dst *Identity, src Identity) {
	dst.TotalSales += src.TotalSales
	dst.BookingCount += src.BookingCount
	dst.AllBookings = append(dst.AllBookings, src.AllBookings...)
	if src.StartTime.After(dst.StartTime) {
		dst.StartTime = src.StartTime
		dst.ClassDetails = src.ClassDetails
	}
}
