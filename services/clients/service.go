package clients

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	bookingRepo "pocketclass/database/repository/booking"
	classRepo "pocketclass/database/repository/class"
	clientRepo "pocketclass/database/repository/client"
	profileRepo "pocketclass/database/repository/profile"
	"pocketclass/models"
	"pocketclass/services/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxImportRows caps one CSV import so every backend can commit it atomically.
const MaxImportRows = 500

const (
	defaultLookupConcurrency = 8
	defaultExportFolder      = "exports/clients"
)

// DefaultClientService is the production implementation.
type DefaultClientService struct {
	Bookings bookingRepo.BookingRepository
	Clients  clientRepo.ClientRepository
	Profiles profileRepo.ProfileRepository
	Classes  classRepo.ClassRepository

	// Optional collaborators.
	Cache   IdentityCache
	Storage storage.StorageService

	Logger            *zap.Logger
	LookupConcurrency int
	ExportFolder      string
	Clock             func() time.Time
}

func NewDefaultClientService(
	bookings bookingRepo.BookingRepository,
	clients clientRepo.ClientRepository,
	profiles profileRepo.ProfileRepository,
	classes classRepo.ClassRepository,
	logger *zap.Logger,
) (*DefaultClientService, error) {
	if bookings == nil || clients == nil || profiles == nil || classes == nil {
		return nil, fmt.Errorf("client service initialization error: one or more repositories are nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultClientService{
		Bookings:          bookings,
		Clients:           clients,
		Profiles:          profiles,
		Classes:           classes,
		Logger:            logger,
		LookupConcurrency: defaultLookupConcurrency,
		ExportFolder:      defaultExportFolder,
		Clock:             time.Now,
	}, nil
}

func (s *DefaultClientService) Now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// ListIdentities returns the instructor's reconciled roster, from cache when possible.
func (s *DefaultClientService) ListIdentities(ctx context.Context, instructorID string) ([]Identity, error) {
	if s.Cache != nil {
		list, ok, err := s.Cache.Get(ctx, instructorID)
		if err != nil {
			s.Logger.Warn("client cache read failed", zap.String("instructorID", instructorID), zap.Error(err))
		} else if ok {
			return list, nil
		}
	}

	list, err := s.load(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, instructorID, list)
	return list, nil
}

// load fetches both sources and reconciles them, bypassing the cache.
func (s *DefaultClientService) load(ctx context.Context, instructorID string) ([]Identity, error) {
	bookings, externals, err := s.fetch(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	s.enrich(ctx, bookings)
	return Reconcile(bookings, externals), nil
}

// fetch reads bookings and external clients concurrently. A failure of either source
// fails the whole fetch.
func (s *DefaultClientService) fetch(ctx context.Context, instructorID string) ([]models.Booking, []models.ExternalClient, error) {
	var (
		bookings  []models.Booking
		externals []models.ExternalClient
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.Bookings.ListByInstructor(gctx, instructorID)
		if err != nil {
			return fmt.Errorf("%w: bookings: %w", ErrSourceFetch, err)
		}
		bookings = list
		return nil
	})
	g.Go(func() error {
		list, err := s.Clients.ListByInstructor(gctx, instructorID)
		if err != nil {
			return fmt.Errorf("%w: external clients: %w", ErrSourceFetch, err)
		}
		externals = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return bookings, externals, nil
}

// enrich attaches student and class details to bookings in place, looking each student
// and class up once. A failed lookup leaves the details empty.
func (s *DefaultClientService) enrich(ctx context.Context, bookings []models.Booking) {
	studentIDs := uniqueIDs(bookings, func(b models.Booking) string { return b.StudentID })
	classIDs := uniqueIDs(bookings, func(b models.Booking) string { return b.ClassID })
	if len(studentIDs) == 0 && len(classIDs) == 0 {
		return
	}

	limit := s.LookupConcurrency
	if limit < 1 {
		limit = defaultLookupConcurrency
	}
	var (
		g        errgroup.Group
		mu       sync.Mutex
		students = make(map[string]models.StudentDetails, len(studentIDs))
		classes  = make(map[string]models.ClassDetails, len(classIDs))
	)
	g.SetLimit(limit)

	for _, id := range studentIDs {
		g.Go(func() error {
			profile, err := s.Profiles.GetByID(ctx, id)
			if err != nil {
				s.logLookupFailure("student profile", id, err)
				return nil
			}
			mu.Lock()
			students[id] = profile.Details()
			mu.Unlock()
			return nil
		})
	}
	for _, id := range classIDs {
		g.Go(func() error {
			class, err := s.Classes.GetByID(ctx, id)
			if err != nil {
				s.logLookupFailure("class", id, err)
				return nil
			}
			mu.Lock()
			classes[id] = class.Details()
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for i := range bookings {
		if d, ok := students[bookings[i].StudentID]; ok {
			bookings[i].StudentDetails = d
		}
		if d, ok := classes[bookings[i].ClassID]; ok {
			bookings[i].ClassDetails = d
		}
	}
}

// uniqueIDs returns the distinct non-empty values of field in first-seen order.
func uniqueIDs(bookings []models.Booking, field func(models.Booking) string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, b := range bookings {
		if id := field(b); id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *DefaultClientService) logLookupFailure(kind, id string, err error) {
	if errors.Is(err, profileRepo.ErrNotFound) || errors.Is(err, classRepo.ErrNotFound) {
		s.Logger.Debug(kind+" not found", zap.String("id", id))
		return
	}
	s.Logger.Warn(kind+" lookup failed", zap.String("id", id), zap.Error(err))
}

func (s *DefaultClientService) store(ctx context.Context, instructorID string, list []Identity) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, instructorID, list); err != nil {
		s.Logger.Warn("client cache write failed", zap.String("instructorID", instructorID), zap.Error(err))
	}
}

func (s *DefaultClientService) invalidate(ctx context.Context, instructorID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, instructorID); err != nil {
		s.Logger.Warn("client cache invalidation failed", zap.String("instructorID", instructorID), zap.Error(err))
	}
}

// Query returns the filtered, sorted roster and its stats. Unknown filter values are
// rejected with a ValidationError.
func (s *DefaultClientService) Query(ctx context.Context, instructorID string, q Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	list, err := s.ListIdentities(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	return Apply(list, q, s.Now()), nil
}

// GetIdentity finds one identity by key. Email keys match case-insensitively.
func (s *DefaultClientService) GetIdentity(ctx context.Context, instructorID, key string) (*IdentityDetail, error) {
	list, err := s.ListIdentities(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	want := strings.TrimSpace(key)
	if !strings.HasPrefix(want, anonymousKeyPrefix) {
		want = NormalizeEmail(want)
	}
	for _, id := range list {
		if id.Key == want {
			return &IdentityDetail{Identity: id, Active: IsActive(id, s.Now())}, nil
		}
	}
	return nil, ErrClientNotFound
}

// AddClient records a manually entered client. Either an email or a first name is required.
func (s *DefaultClientService) AddClient(ctx context.Context, instructorID string, input models.NewClientInput) (*models.ExternalClient, error) {
	client := models.ExternalClient{
		ID:           uuid.NewString(),
		InstructorID: instructorID,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        strings.TrimSpace(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		TotalSales:   input.TotalSales,
		Source:       models.ClientSourceManual,
		CreatedAt:    s.Now(),
	}
	if client.Email == "" && client.FirstName == "" {
		return nil, NewValidationError("missing_identity", "an email or a first name is required")
	}
	if client.TotalSales < 0 {
		return nil, NewValidationError("invalid_sales", "total sales cannot be negative")
	}

	if err := s.Clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to save client: %w", err)
	}
	s.invalidate(ctx, instructorID)
	return &client, nil
}

// ImportClients parses a CSV and saves every valid row in one atomic write. Nothing is
// written when the file is unreadable, has no valid rows or has more than MaxImportRows.
func (s *DefaultClientService) ImportClients(ctx context.Context, instructorID string, r io.Reader) (int, error) {
	clients, err := ParseImport(r, instructorID, s.Now())
	if err != nil {
		return 0, err
	}
	if len(clients) > MaxImportRows {
		return 0, NewValidationError("too_many_rows", fmt.Sprintf("an import can hold at most %d clients, got %d", MaxImportRows, len(clients)))
	}
	if err := s.Clients.CreateMany(ctx, clients); err != nil {
		return 0, fmt.Errorf("failed to save imported clients: %w", err)
	}
	s.invalidate(ctx, instructorID)
	s.Logger.Info("clients imported", zap.String("instructorID", instructorID), zap.Int("count", len(clients)))
	return len(clients), nil
}

// DeleteClient removes one of the instructor's external clients.
func (s *DefaultClientService) DeleteClient(ctx context.Context, instructorID, id string) error {
	if err := s.Clients.Delete(ctx, instructorID, id); err != nil {
		if errors.Is(err, clientRepo.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.invalidate(ctx, instructorID)
	return nil
}

// Export renders the queried roster as CSV.
func (s *DefaultClientService) Export(ctx context.Context, instructorID string, q Query) ([]byte, error) {
	result, err := s.Query(ctx, instructorID, q)
	if err != nil {
		return nil, err
	}
	return ExportCSV(result.Clients)
}

// ArchiveExport uploads the CSV export to object storage and returns its URL.
func (s *DefaultClientService) ArchiveExport(ctx context.Context, instructorID string, q Query) (string, error) {
	if s.Storage == nil {
		return "", ErrArchiveUnavailable
	}
	data, err := s.Export(ctx, instructorID, q)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("clients-%s.csv", s.Now().UTC().Format("20060102-150405"))
	folder := strings.TrimSuffix(s.ExportFolder, "/") + "/" + instructorID
	url, err := s.Storage.UploadFile(ctx, bytes.NewReader(data), folder, name)
	if err != nil {
		return "", fmt.Errorf("failed to archive export: %w", err)
	}
	return url, nil
}
