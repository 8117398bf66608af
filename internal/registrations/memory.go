package registrations

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agora-assembly/backend/internal/core"
	"github.com/agora-assembly/backend/internal/models"
	"github.com/agora-assembly/backend/internal/settings"
)

// MemoryStore is an in-memory Store used in tests and local tooling.
type MemoryStore struct {
	mu   sync.RWMutex
	regs map[uuid.UUID]models.Registration
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{regs: make(map[uuid.UUID]models.Registration)}
}

func (s *MemoryStore) Create(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg.ID = uuid.New()
	now := time.Now()
	reg.RegisteredAt = now
	reg.UpdatedAt = now
	s.regs[reg.ID] = *reg
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.regs[id]; ok {
		cp := r
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) GetActiveByRegistrant(_ context.Context, assemblyID, userID uuid.UUID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.regs {
		if r.AssemblyID == assemblyID && r.RegisteredBy == userID && r.Status != models.StatusCancelled {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetActiveByParticipant(_ context.Context, assemblyID uuid.UUID, participantID string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.regs {
		if r.AssemblyID == assemblyID && r.ParticipantID == participantID && r.Status != models.StatusCancelled {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetLatestByParticipant(_ context.Context, assemblyID uuid.UUID, participantID string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.Registration
	for _, r := range s.regs {
		if r.AssemblyID != assemblyID || r.ParticipantID != participantID {
			continue
		}
		cp := r
		if latest == nil || cp.RegisteredAt.After(latest.RegisteredAt) {
			latest = &cp
		}
	}
	return latest, nil
}

func (s *MemoryStore) Update(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg.UpdatedAt = time.Now()
	s.regs[reg.ID] = *reg
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.regs, id)
	return nil
}

func (s *MemoryStore) CountActive(_ context.Context, assemblyID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.regs {
		if r.AssemblyID == assemblyID && r.Status.Active() {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) CountActiveByModality(_ context.Context, modalityID, exclude uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.regs {
		if r.ModalityID != nil && *r.ModalityID == modalityID && r.ID != exclude && r.Status.Active() {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) ListByAssembly(_ context.Context, assemblyID uuid.UUID) ([]models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Registration
	for _, r := range s.regs {
		if r.AssemblyID == assemblyID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.After(out[j].RegisteredAt) })
	return out, nil
}

// MemoryAssemblies is an in-memory AssemblySource.
type MemoryAssemblies struct {
	mu         sync.RWMutex
	assemblies map[uuid.UUID]models.Assembly
}

func NewMemoryAssemblies() *MemoryAssemblies {
	return &MemoryAssemblies{assemblies: make(map[uuid.UUID]models.Assembly)}
}

func (m *MemoryAssemblies) Put(a models.Assembly) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assemblies[a.ID] = a
}

func (m *MemoryAssemblies) GetByID(_ context.Context, id uuid.UUID) (*models.Assembly, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.assemblies[id]; ok {
		cp := a
		return &cp, nil
	}
	return nil, core.NotFoundf("assembly %s", id)
}

// MemoryModalities is an in-memory ModalitySource.
type MemoryModalities struct {
	mu         sync.RWMutex
	modalities map[uuid.UUID]models.RegistrationModality
}

func NewMemoryModalities() *MemoryModalities {
	return &MemoryModalities{modalities: make(map[uuid.UUID]models.RegistrationModality)}
}

func (m *MemoryModalities) Put(mod models.RegistrationModality) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modalities[mod.ID] = mod
}

func (m *MemoryModalities) GetByID(_ context.Context, id uuid.UUID) (*models.RegistrationModality, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mod, ok := m.modalities[id]; ok {
		cp := mod
		return &cp, nil
	}
	return nil, core.NotFoundf("modality %s", id)
}

// MemoryRoster is an in-memory RosterLookup.
type MemoryRoster struct {
	mu      sync.RWMutex
	entries []models.RosterEntry
}

func NewMemoryRoster() *MemoryRoster { return &MemoryRoster{} }

func (m *MemoryRoster) Add(e models.RosterEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
}

func (m *MemoryRoster) ExistsForAssembly(_ context.Context, assemblyID uuid.UUID, category models.ParticipantCategory, participantID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.AssemblyID == assemblyID && e.Category == category && e.ParticipantID == participantID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryRoster) ExistsAnywhere(_ context.Context, category models.ParticipantCategory, participantID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.Category == category && e.ParticipantID == participantID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryRoster) ExistsParticipant(_ context.Context, assemblyID uuid.UUID, participantID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.AssemblyID == assemblyID && e.ParticipantID == participantID {
			return true, nil
		}
	}
	return false, nil
}

// StaticSettings returns a fixed configuration snapshot.
type StaticSettings struct {
	Snap settings.Snapshot
}

func (s *StaticSettings) Snapshot(_ context.Context) (settings.Snapshot, error) {
	return s.Snap, nil
}
