package clients

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"pocketclass/models"
)

// importColumns maps import fields to their column index; -1 when absent.
type importColumns struct {
	first, last, email, phone, sales int
}

// detectColumns matches header cells by case-insensitive substring. The first
// matching column wins for each field.
func detectColumns(header []string) importColumns {
	cols := importColumns{first: -1, last: -1, email: -1, phone: -1, sales: -1}
	set := func(dst *int, i int) {
		if *dst == -1 {
			*dst = i
		}
	}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(h, "first") || strings.Contains(h, "fname"):
			set(&cols.first, i)
		case strings.Contains(h, "last") || strings.Contains(h, "lname"):
			set(&cols.last, i)
		case strings.Contains(h, "email"):
			set(&cols.email, i)
		case strings.Contains(h, "phone"):
			set(&cols.phone, i)
		case strings.Contains(h, "sales"):
			set(&cols.sales, i)
		}
	}
	return cols
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseImport reads a client CSV with a header row into external client records owned
// by instructorID. Rows with neither an email nor a first name are skipped. It returns
// ErrNoValidClients when nothing usable remains, so callers never write a partial import.
func ParseImport(r io.Reader, instructorID string, now time.Time) ([]models.ExternalClient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoValidClients
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	cols := detectColumns(header)

	var out []models.ExternalClient
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}

		email := cell(row, cols.email)
		first := cell(row, cols.first)
		if email == "" && first == "" {
			continue
		}
		out = append(out, models.ExternalClient{
			ID:           uuid.NewString(),
			InstructorID: instructorID,
			FirstName:    first,
			LastName:     cell(row, cols.last),
			Email:        email,
			Phone:        cell(row, cols.phone),
			TotalSales:   ParsePrice(cell(row, cols.sales)),
			Source:       models.ClientSourceImport,
			CreatedAt:    now,
		})
	}

	if len(out) == 0 {
		return nil, ErrNoValidClients
	}
	return out, nil
}
