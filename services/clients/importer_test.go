package clients

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"pocketclass/models"
)

func TestParseImport(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	input := "First Name,Last Name,Email Address,Phone Number,Total Sales\n" +
		"Ada,Lovelace,ada@x.com,555-0100,\"$1,200.00\"\n" +
		",,,,\n" +
		",Nobody,,,10\n" +
		",,only@x.com,,\n" +
		"Grace,Hopper\n"

	got, err := ParseImport(strings.NewReader(input), "inst-1", now)
	if err != nil {
		t.Fatalf("ParseImport() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 clients, got %d: %+v", len(got), got)
	}

	ada := got[0]
	if ada.FirstName != "Ada" || ada.LastName != "Lovelace" || ada.Email != "ada@x.com" || ada.Phone != "555-0100" {
		t.Errorf("unexpected first row %+v", ada)
	}
	if ada.TotalSales != 1200 {
		t.Errorf("TotalSales = %v, want 1200", ada.TotalSales)
	}
	if got[1].Email != "only@x.com" || got[2].FirstName != "Grace" {
		t.Errorf("unexpected rows %+v", got[1:])
	}

	ids := map[string]bool{}
	for _, c := range got {
		if c.InstructorID != "inst-1" || c.Source != models.ClientSourceImport || !c.CreatedAt.Equal(now) {
			t.Errorf("unexpected metadata %+v", c)
		}
		if c.ID == "" || ids[c.ID] {
			t.Errorf("missing or duplicate id %q", c.ID)
		}
		ids[c.ID] = true
	}
}

func TestParseImportStripsByteOrderMark(t *testing.T) {
	input := "\uFEFFemail,first name\nada@x.com,Ada\n"

	got, err := ParseImport(strings.NewReader(input), "inst-1", time.Now())
	if err != nil {
		t.Fatalf("ParseImport() error = %v", err)
	}
	if len(got) != 1 || got[0].Email != "ada@x.com" || got[0].FirstName != "Ada" {
		t.Errorf("unexpected rows %+v", got)
	}
}

func TestParseImportHeaderAliases(t *testing.T) {
	input := "fname,lname,EMAIL,sales\nAda,L,a@x.com,7\n"

	got, err := ParseImport(strings.NewReader(input), "inst-1", time.Now())
	if err != nil {
		t.Fatalf("ParseImport() error = %v", err)
	}
	if got[0].FirstName != "Ada" || got[0].LastName != "L" || got[0].Email != "a@x.com" || got[0].TotalSales != 7 {
		t.Errorf("unexpected client %+v", got[0])
	}
}

func TestParseImportRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty file", "", ErrNoValidClients},
		{"header only", "First Name,Email\n", ErrNoValidClients},
		{"no usable rows", "First Name,Email\n,\n,\n", ErrNoValidClients},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseImport(strings.NewReader(tt.input), "inst-1", time.Now())
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseImport() error = %v, want %v", err, tt.want)
			}
			if got != nil {
				t.Errorf("expected no clients, got %+v", got)
			}
		})
	}
}

func TestParseImportReadFailure(t *testing.T) {
	_, err := ParseImport(iotest.ErrReader(errors.New("disk gone")), "inst-1", time.Now())
	if !errors.Is(err, ErrInvalidFile) {
		t.Errorf("ParseImport() error = %v, want %v", err, ErrInvalidFile)
	}
}
