package clients

import (
	"context"
	"errors"
	"io"
	"sync"

	classRepo "pocketclass/database/repository/class"
	clientRepo "pocketclass/database/repository/client"
	profileRepo "pocketclass/database/repository/profile"
	"pocketclass/models"
)

type fakeBookings struct {
	mu      sync.Mutex
	list    []models.Booking
	err     error
	calls   int
	changes chan struct{}
}

func (f *fakeBookings) ListByInstructor(ctx context.Context, instructorID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Booking, len(f.list))
	copy(out, f.list)
	return out, nil
}

func (f *fakeBookings) Watch(ctx context.Context, instructorID string) (<-chan struct{}, error) {
	if f.changes == nil {
		f.changes = make(chan struct{})
	}
	return f.changes, nil
}

func (f *fakeBookings) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

type fakeClients struct {
	mu        sync.Mutex
	list      []models.ExternalClient
	err       error
	created   []models.ExternalClient
	batches   int
	deleted   []string
	changes   chan struct{}
	createErr error
}

func (f *fakeClients) ListByInstructor(ctx context.Context, instructorID string) ([]models.ExternalClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.ExternalClient
	for _, c := range f.list {
		if c.InstructorID == instructorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClients) Create(ctx context.Context, client models.ExternalClient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, client)
	f.list = append(f.list, client)
	return nil
}

func (f *fakeClients) CreateMany(ctx context.Context, clients []models.ExternalClient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.batches++
	f.created = append(f.created, clients...)
	f.list = append(f.list, clients...)
	return nil
}

func (f *fakeClients) Delete(ctx context.Context, instructorID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.list {
		if c.ID == id && c.InstructorID == instructorID {
			f.list = append(f.list[:i], f.list[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return clientRepo.ErrNotFound
}

func (f *fakeClients) Watch(ctx context.Context, instructorID string) (<-chan struct{}, error) {
	if f.changes == nil {
		f.changes = make(chan struct{})
	}
	return f.changes, nil
}

type fakeProfiles struct {
	mu    sync.Mutex
	byID  map[string]models.StudentProfile
	err   error
	calls map[string]int
}

func (f *fakeProfiles) GetByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[id]++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, profileRepo.ErrNotFound
	}
	return &p, nil
}

type fakeClasses struct {
	byID map[string]models.Class
}

func (f *fakeClasses) GetByID(ctx context.Context, id string) (*models.Class, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, classRepo.ErrNotFound
	}
	return &c, nil
}

type fakeCache struct {
	mu          sync.Mutex
	data        map[string][]Identity
	err         error
	invalidated []string
}

func (f *fakeCache) Get(ctx context.Context, instructorID string) ([]Identity, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}
	list, ok := f.data[instructorID]
	return list, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, instructorID string, list []Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.data == nil {
		f.data = map[string][]Identity{}
	}
	f.data[instructorID] = list
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, instructorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, instructorID)
	delete(f.data, instructorID)
	return f.err
}

type fakeStorage struct {
	folder, name string
	data         []byte
	err          error
}

func (f *fakeStorage) UploadFile(ctx context.Context, content io.Reader, destFolder, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	f.folder, f.name, f.data = destFolder, name, data
	return "https://files.example.com/" + destFolder + "/" + name, nil
}

var errBackend = errors.New("backend unavailable")
