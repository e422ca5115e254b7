package service

import (
	"context"
	"sync"

	"patent-scout-be/internal/entity"
	"patent-scout-be/internal/pkg/logger"
	"patent-scout-be/internal/repository/contract"
	"patent-scout-be/internal/repository/specification"
	"patent-scout-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// testLogger satisfies ILogger without touching the filesystem.
type testLogger struct{}

func (testLogger) Debug(module, message string, details map[string]interface{}) {}
func (testLogger) Info(module, message string, details map[string]interface{})  {}
func (testLogger) Warn(module, message string, details map[string]interface{})  {}
func (testLogger) Error(module, message string, details map[string]interface{}) {}
func (testLogger) Sync() error                                                  { return nil }
func (testLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (testLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

// fakeSessionRepo is an in-memory contract.SessionRepository that records
// every write for assertions.
type fakeSessionRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*entity.SessionRecord
	creates []*entity.SessionRecord
	saves   []*entity.SessionRecord
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{records: make(map[uuid.UUID]*entity.SessionRecord)}
}

func copyRecord(r *entity.SessionRecord) *entity.SessionRecord {
	c := *r
	c.State = append([]byte{}, r.State...)
	return &c
}

func (f *fakeSessionRepo) Create(ctx context.Context, record *entity.SessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := copyRecord(record)
	f.records[record.Id] = c
	f.creates = append(f.creates, c)
	return nil
}

func (f *fakeSessionRepo) Save(ctx context.Context, record *entity.SessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := copyRecord(record)
	if existing, ok := f.records[record.Id]; ok {
		existing.State = c.State
		existing.Library = c.Library
	}
	f.saves = append(f.saves, c)
	return nil
}

func (f *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if r, found := f.records[byID.ID]; found {
				return copyRecord(r), nil
			}
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.SessionRecord, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, copyRecord(r))
	}
	return out, nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, id)
	return nil
}

func (f *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.records)), nil
}

func (f *fakeSessionRepo) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates)
}

func (f *fakeSessionRepo) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeSessionRepo) lastSave() *entity.SessionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saves) == 0 {
		return nil
	}
	return f.saves[len(f.saves)-1]
}

// fakeUow wires the fake repository into the unit of work shape.
type fakeUow struct {
	sessions *fakeSessionRepo
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }
func (u *fakeUow) UserRepository() contract.UserRepository {
	return nil
}
func (u *fakeUow) SessionRepository() contract.SessionRepository {
	return u.sessions
}

type fakeFactory struct {
	sessions *fakeSessionRepo
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{sessions: f.sessions}
}
