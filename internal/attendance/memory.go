package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agora-assembly/backend/internal/models"
)

type memberKey struct {
	assemblyID uuid.UUID
	category   models.ParticipantCategory
	memberID   string
}

// MemoryStore is an in-memory attendance Store used in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[memberKey]models.AttendanceRecord
}

// NewMemoryStore creates an empty in-memory attendance store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[memberKey]models.AttendanceRecord)}
}

func (s *MemoryStore) Get(_ context.Context, assemblyID uuid.UUID, category models.ParticipantCategory, memberID string) (*models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.records[memberKey{assemblyID, category, memberID}]; ok {
		cp := r
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) Upsert(_ context.Context, rec *models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memberKey{rec.AssemblyID, rec.Category, rec.MemberID}
	if existing, ok := s.records[key]; ok {
		rec.ID = existing.ID
	} else {
		rec.ID = uuid.New()
	}
	rec.UpdatedAt = time.Now()
	s.records[key] = *rec
	return nil
}

func (s *MemoryStore) ListByAssembly(_ context.Context, assemblyID uuid.UUID) ([]models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AttendanceRecord
	for _, r := range s.records {
		if r.AssemblyID == assemblyID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].MemberID < out[j].MemberID
	})
	return out, nil
}

func (s *MemoryStore) DeleteAll(_ context.Context, assemblyID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, r := range s.records {
		if r.AssemblyID == assemblyID {
			delete(s.records, k)
			n++
		}
	}
	return n, nil
}
