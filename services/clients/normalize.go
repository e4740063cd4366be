package clients

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"pocketclass/models"
)

const unknownUserName = "Unknown User"

// Record is a raw client record from one of the two sources.
// It is implemented only by BookingRecord and ExternalRecord.
type Record interface {
	isRecord()
}

// BookingRecord wraps a platform booking.
type BookingRecord struct {
	models.Booking
}

// ExternalRecord wraps a manually entered or imported client.
type ExternalRecord struct {
	models.ExternalClient
}

func (BookingRecord) isRecord()  {}
func (ExternalRecord) isRecord() {}

// ParsePrice converts a stored price (any numeric type or a currency string such as
// "$1,234.56") to a float. Anything unparseable or non-finite yields 0.
func ParsePrice(v interface{}) float64 {
	var f float64
	switch p := v.(type) {
	case nil:
		return 0
	case float64:
		f = p
	case float32:
		f = float64(p)
	case int:
		f = float64(p)
	case int8:
		f = float64(p)
	case int16:
		f = float64(p)
	case int32:
		f = float64(p)
	case int64:
		f = float64(p)
	case uint:
		f = float64(p)
	case uint8:
		f = float64(p)
	case uint16:
		f = float64(p)
	case uint32:
		f = float64(p)
	case uint64:
		f = float64(p)
	case string:
		f = parsePriceString(p)
	case fmt.Stringer:
		// e.g. primitive.Decimal128 decoded from Mongo
		f = parsePriceString(p.String())
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parsePriceString drops every character other than digits, '.' and '-', then reads
// the longest leading number, so "12.5.1" reads as 12.5.
func parsePriceString(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	end, digits, seenDot := 0, 0, false
scan:
	for i, r := range cleaned {
		switch {
		case r == '-' && i == 0:
		case r == '.' && !seenDot:
			seenDot = true
		case r >= '0' && r <= '9':
			digits++
		default:
			break scan
		}
		end = i + 1
	}
	if digits == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(cleaned[:end], "."), 64)
	if err != nil {
		return 0
	}
	return f
}

// NormalizeEmail lower-cases and trims an email for use as a merge key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ResolveEmail returns the first non-empty email of the record, trimmed.
// Bookings check groupEmails[0], studentDetails.email, email, then studentEmail.
func ResolveEmail(r Record) (string, bool) {
	var candidates []string
	switch v := r.(type) {
	case BookingRecord:
		if len(v.GroupEmails) > 0 {
			candidates = append(candidates, v.GroupEmails[0])
		}
		candidates = append(candidates, v.StudentDetails.Email, v.Email, v.StudentEmail)
	case ExternalRecord:
		candidates = append(candidates, v.Email)
	default:
		return "", false
	}
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c, true
		}
	}
	return "", false
}

// ResolveNameParts returns the trimmed first and last name of the record. Bookings prefer
// the enriched student profile over names stored on the document.
func ResolveNameParts(r Record) (string, string) {
	switch v := r.(type) {
	case BookingRecord:
		first, last := strings.TrimSpace(v.StudentDetails.FirstName), strings.TrimSpace(v.StudentDetails.LastName)
		if first != "" || last != "" {
			return first, last
		}
		return strings.TrimSpace(v.FirstName), strings.TrimSpace(v.LastName)
	case ExternalRecord:
		return strings.TrimSpace(v.FirstName), strings.TrimSpace(v.LastName)
	}
	return "", ""
}

// ResolveName picks the display name: student_name, then "first last", then the local
// part of the email, then "Unknown User".
func ResolveName(r Record) string {
	if b, ok := r.(BookingRecord); ok {
		if name := strings.TrimSpace(b.StudentName); name != "" {
			return name
		}
	}
	first, last := ResolveNameParts(r)
	if full := strings.TrimSpace(first + " " + last); full != "" {
		return full
	}
	if email, ok := ResolveEmail(r); ok {
		if local := strings.TrimSpace(strings.SplitN(email, "@", 2)[0]); local != "" {
			return local
		}
	}
	return unknownUserName
}

// ResolvePhone returns the record's phone number, if any.
func ResolvePhone(r Record) string {
	switch v := r.(type) {
	case BookingRecord:
		return strings.TrimSpace(v.StudentDetails.PhoneNumber)
	case ExternalRecord:
		return strings.TrimSpace(v.Phone)
	}
	return ""
}

var startTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"01/02/2006",
}

// ParseStartTime parses the date formats found in booking documents. It reports false,
// with a zero time, for anything it cannot read.
func ParseStartTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// "Mon Jan 01 2024 10:00:00 GMT+0000 (Coordinated Universal Time)"
	if i := strings.Index(s, " ("); i > 0 {
		s = s[:i]
	}
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
