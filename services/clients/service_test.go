package clients

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"pocketclass/models"
)

var serviceNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

type serviceFixture struct {
	svc      *DefaultClientService
	bookings *fakeBookings
	clients  *fakeClients
	profiles *fakeProfiles
	cache    *fakeCache
	storage  *fakeStorage
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		bookings: &fakeBookings{list: []models.Booking{
			{ID: "b1", InstructorID: "inst-1", StudentID: "s1", ClassID: "c1", Price: "$40.00", StartTime: "2024-06-20T10:00:00Z"},
			{ID: "b2", InstructorID: "inst-1", StudentID: "s1", ClassID: "c1", Price: 10, StartTime: "2024-01-10T10:00:00Z"},
			{ID: "b3", InstructorID: "inst-1", StudentID: "s2", Email: "Sam@Example.com", Price: 5.5, StartTime: "2023-01-01"},
		}},
		clients: &fakeClients{list: []models.ExternalClient{
			{ID: "e1", InstructorID: "inst-1", FirstName: "Ada", Email: "ada@example.com", TotalSales: 20, CreatedAt: serviceNow.AddDate(0, -1, 0)},
			{ID: "e2", InstructorID: "inst-1", FirstName: "Ext", Email: "ext@example.com", TotalSales: 700, CreatedAt: serviceNow.AddDate(0, 0, -2)},
			{ID: "other", InstructorID: "inst-2", FirstName: "Nope", Email: "nope@example.com"},
		}},
		profiles: &fakeProfiles{byID: map[string]models.StudentProfile{
			"s1": {ID: "s1", FirstName: "Ada", LastName: "Lovelace", Email: "ADA@example.com", PhoneNumber: "555-0100"},
		}},
		cache:   &fakeCache{},
		storage: &fakeStorage{},
	}
	classes := &fakeClasses{byID: map[string]models.Class{
		"c1": {ID: "c1", Name: "Wheel Throwing", Category: "Pottery"},
	}}

	svc, err := NewDefaultClientService(f.bookings, f.clients, f.profiles, classes, nil)
	if err != nil {
		t.Fatalf("NewDefaultClientService() error = %v", err)
	}
	svc.Cache = f.cache
	svc.Storage = f.storage
	svc.LookupConcurrency = 2
	svc.Clock = func() time.Time { return serviceNow }
	f.svc = svc
	return f
}

func byKey(list []Identity) map[string]Identity {
	out := make(map[string]Identity, len(list))
	for _, id := range list {
		out[id.Key] = id
	}
	return out
}

func TestNewDefaultClientServiceRequiresRepositories(t *testing.T) {
	if _, err := NewDefaultClientService(nil, &fakeClients{}, &fakeProfiles{}, &fakeClasses{}, nil); err == nil {
		t.Error("expected an error for a nil booking repository")
	}
}

func TestListIdentities(t *testing.T) {
	f := newFixture(t)

	list, err := f.svc.ListIdentities(context.Background(), "inst-1")
	if err != nil {
		t.Fatalf("ListIdentities() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 identities, got %d: %v", len(list), keys(list))
	}

	got := byKey(list)
	ada, ok := got["ada@example.com"]
	if !ok {
		t.Fatalf("missing merged identity, keys %v", keys(list))
	}
	if ada.BookingCount != 2 || ada.TotalSales != 70 || !ada.HasExternalSales || ada.Source != SourceBooking {
		t.Errorf("unexpected merged identity %+v", ada)
	}
	if ada.Name != "Ada Lovelace" || ada.Phone != "555-0100" {
		t.Errorf("profile details not applied: name %q phone %q", ada.Name, ada.Phone)
	}
	if ada.ClassDetails.Name != "Wheel Throwing" {
		t.Errorf("class details not applied: %+v", ada.ClassDetails)
	}

	if sam := got["sam@example.com"]; sam.Name != "Sam" || sam.BookingCount != 1 {
		t.Errorf("unexpected identity for booking without profile %+v", sam)
	}
	if _, ok := got["nope@example.com"]; ok {
		t.Error("another instructor's client leaked into the roster")
	}

	if n := f.profiles.calls["s1"]; n != 1 {
		t.Errorf("profile s1 looked up %d times, want 1", n)
	}
}

func TestListIdentitiesUsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.ListIdentities(ctx, "inst-1"); err != nil {
		t.Fatalf("ListIdentities() error = %v", err)
	}
	if _, err := f.svc.ListIdentities(ctx, "inst-1"); err != nil {
		t.Fatalf("ListIdentities() error = %v", err)
	}
	if f.bookings.calls != 1 {
		t.Errorf("bookings fetched %d times, want 1", f.bookings.calls)
	}
}

func TestListIdentitiesIgnoresCacheErrors(t *testing.T) {
	f := newFixture(t)
	f.cache.err = errBackend

	list, err := f.svc.ListIdentities(context.Background(), "inst-1")
	if err != nil {
		t.Fatalf("ListIdentities() error = %v", err)
	}
	if len(list) != 3 {
		t.Errorf("expected 3 identities, got %d", len(list))
	}
}

func TestListIdentitiesSourceFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *serviceFixture)
	}{
		{"bookings", func(f *serviceFixture) { f.bookings.err = errBackend }},
		{"external clients", func(f *serviceFixture) { f.clients.err = errBackend }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			_, err := f.svc.ListIdentities(context.Background(), "inst-1")
			if !errors.Is(err, ErrSourceFetch) {
				t.Errorf("error = %v, want ErrSourceFetch", err)
			}
			if !errors.Is(err, errBackend) {
				t.Errorf("error = %v, want it to wrap the backend error", err)
			}
		})
	}
}

func TestListIdentitiesProfileFailureDegrades(t *testing.T) {
	f := newFixture(t)
	f.profiles.err = errBackend

	list, err := f.svc.ListIdentities(context.Background(), "inst-1")
	if err != nil {
		t.Fatalf("ListIdentities() error = %v", err)
	}
	// Without the profile, b1 and b2 have no email and stay separate.
	if len(list) != 5 {
		t.Errorf("expected 5 identities, got %d: %v", len(list), keys(list))
	}
}

func TestQuery(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Query(context.Background(), "inst-1", Query{
		Criteria: Criteria{Source: SourceBookings},
		Sort:     SortSalesHigh,
	})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if result.Total != 3 {
		t.Errorf("Total = %d, want 3", result.Total)
	}
	if got := keys(result.Clients); len(got) != 2 || got[0] != "ada@example.com" || got[1] != "sam@example.com" {
		t.Errorf("Clients = %v", got)
	}
	if result.Stats.TotalClients != 2 || result.Stats.TotalRevenue != 75.5 || result.Stats.ActiveClients != 1 {
		t.Errorf("unexpected stats %+v", result.Stats)
	}
}

func TestQueryRejectsUnknownFilter(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Query(context.Background(), "inst-1", Query{Criteria: Criteria{SalesRange: "huge"}})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Code != "invalid_sales_range" {
		t.Errorf("error = %v, want invalid_sales_range", err)
	}
}

func TestGetIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	detail, err := f.svc.GetIdentity(ctx, "inst-1", " ADA@Example.com ")
	if err != nil {
		t.Fatalf("GetIdentity() error = %v", err)
	}
	if detail.Key != "ada@example.com" || !detail.Active {
		t.Errorf("unexpected detail %+v", detail)
	}

	if _, err := f.svc.GetIdentity(ctx, "inst-1", "missing@example.com"); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("error = %v, want ErrClientNotFound", err)
	}
}

func TestGetIdentityEmailLessWithoutCache(t *testing.T) {
	f := newFixture(t)
	f.svc.Cache = nil
	f.clients.list = append(f.clients.list, models.ExternalClient{ID: "walkin", InstructorID: "inst-1", FirstName: "Walk-in", TotalSales: 15})
	ctx := context.Background()

	list, err := f.svc.ListIdentities(ctx, "inst-1")
	if err != nil {
		t.Fatalf("ListIdentities() error = %v", err)
	}
	var key string
	for _, id := range list {
		if id.Name == "Walk-in" {
			key = id.Key
		}
	}
	if key != "anon:external:walkin" {
		t.Fatalf("walk-in key = %q, want anon:external:walkin", key)
	}

	detail, err := f.svc.GetIdentity(ctx, "inst-1", key)
	if err != nil {
		t.Fatalf("GetIdentity(%q) error = %v", key, err)
	}
	if detail.TotalSales != 15 || detail.Email != nil {
		t.Errorf("unexpected detail %+v", detail)
	}
}

func TestAddClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.AddClient(ctx, "inst-1", models.NewClientInput{FirstName: " Grace ", Email: "grace@example.com", TotalSales: 12})
	if err != nil {
		t.Fatalf("AddClient() error = %v", err)
	}
	if created.ID == "" || created.FirstName != "Grace" || created.Source != models.ClientSourceManual || !created.CreatedAt.Equal(serviceNow) {
		t.Errorf("unexpected client %+v", created)
	}
	if len(f.cache.invalidated) != 1 {
		t.Errorf("cache invalidated %d times, want 1", len(f.cache.invalidated))
	}

	_, err = f.svc.AddClient(ctx, "inst-1", models.NewClientInput{LastName: "OnlyLast"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Code != "missing_identity" {
		t.Errorf("error = %v, want missing_identity validation error", err)
	}
	if len(f.clients.created) != 1 {
		t.Errorf("rejected client was saved")
	}
}

func TestImportClients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	csvData := "First Name,Email,Total Sales\nZed,zed@example.com,15\n,,\nAda,ada@example.com,5\n"

	n, err := f.svc.ImportClients(ctx, "inst-1", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportClients() error = %v", err)
	}
	if n != 2 || f.clients.batches != 1 {
		t.Errorf("imported %d in %d batches, want 2 in 1", n, f.clients.batches)
	}

	list, err := f.svc.ListIdentities(ctx, "inst-1")
	if err != nil {
		t.Fatalf("ListIdentities() error = %v", err)
	}
	if ada := byKey(list)["ada@example.com"]; ada.TotalSales != 75 {
		t.Errorf("imported sales not merged, TotalSales = %v", ada.TotalSales)
	}
}

func TestImportClientsRejectsOversizedFile(t *testing.T) {
	f := newFixture(t)
	var b strings.Builder
	b.WriteString("email\n")
	for i := 0; i <= MaxImportRows; i++ {
		fmt.Fprintf(&b, "client%d@example.com\n", i)
	}

	_, err := f.svc.ImportClients(context.Background(), "inst-1", strings.NewReader(b.String()))
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Code != "too_many_rows" {
		t.Fatalf("error = %v, want too_many_rows", err)
	}
	if f.clients.batches != 0 || len(f.clients.created) != 0 {
		t.Errorf("oversized import wrote %d batches", f.clients.batches)
	}
}

func TestImportClientsWritesNothingOnInvalidFile(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ImportClients(context.Background(), "inst-1", strings.NewReader("Notes\nhello\n"))
	if !errors.Is(err, ErrNoValidClients) {
		t.Errorf("error = %v, want ErrNoValidClients", err)
	}
	if f.clients.batches != 0 || len(f.cache.invalidated) != 0 {
		t.Error("invalid import touched the store")
	}
}

func TestDeleteClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.DeleteClient(ctx, "inst-1", "e2"); err != nil {
		t.Fatalf("DeleteClient() error = %v", err)
	}
	if err := f.svc.DeleteClient(ctx, "inst-1", "other"); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("deleting another instructor's client: error = %v, want ErrClientNotFound", err)
	}
	if err := f.svc.DeleteClient(ctx, "inst-1", "e2"); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("deleting twice: error = %v, want ErrClientNotFound", err)
	}
}

func TestExport(t *testing.T) {
	f := newFixture(t)

	data, err := f.svc.Export(context.Background(), "inst-1", Query{Criteria: Criteria{Source: SourceExternals}})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(rows) != 2 || rows[1][2] != "ext@example.com" || rows[1][4] != "700.00" {
		t.Errorf("unexpected rows %v", rows)
	}
}

func TestArchiveExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	url, err := f.svc.ArchiveExport(ctx, "inst-1", Query{})
	if err != nil {
		t.Fatalf("ArchiveExport() error = %v", err)
	}
	if f.storage.folder != "exports/clients/inst-1" || f.storage.name != "clients-20240630-120000.csv" {
		t.Errorf("uploaded to %s/%s", f.storage.folder, f.storage.name)
	}
	if !strings.HasSuffix(url, "clients-20240630-120000.csv") {
		t.Errorf("url = %q", url)
	}
	if !bytes.HasPrefix(f.storage.data, []byte("First Name,")) {
		t.Errorf("uploaded data does not look like the export: %q", f.storage.data)
	}

	f.svc.Storage = nil
	if _, err := f.svc.ArchiveExport(ctx, "inst-1", Query{}); !errors.Is(err, ErrArchiveUnavailable) {
		t.Errorf("error = %v, want ErrArchiveUnavailable", err)
	}
}
