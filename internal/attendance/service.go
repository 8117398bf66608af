package attendance

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agora-assembly/backend/internal/core"
	"github.com/agora-assembly/backend/internal/metrics"
	"github.com/agora-assembly/backend/internal/models"
)

// Store is the attendance persistence contract.
type Store interface {
	Get(ctx context.Context, assemblyID uuid.UUID, category models.ParticipantCategory, memberID string) (*models.AttendanceRecord, error)
	Upsert(ctx context.Context, rec *models.AttendanceRecord) error
	ListByAssembly(ctx context.Context, assemblyID uuid.UUID) ([]models.AttendanceRecord, error)
	DeleteAll(ctx context.Context, assemblyID uuid.UUID) (int, error)
}

// Broadcaster pushes live board updates to connected viewers.
type Broadcaster interface {
	BroadcastAttendance(assemblyID uuid.UUID, update any)
}

// Service runs the live attendance board: per-member status taps and the
// quorum arithmetic derived from them.
type Service struct {
	store       Store
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewService creates the attendance service. broadcaster and m may be nil.
func NewService(store Store, broadcaster Broadcaster, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, broadcaster: broadcaster, metrics: m, logger: logger}
}

// UpdateInput is one attendance tap or explicit status write.
type UpdateInput struct {
	AssemblyID uuid.UUID
	Category   models.ParticipantCategory
	MemberID   string
	Name       string
	Role       string
	// Status, when set, is written as-is. When empty the member's current
	// status advances one step in the cycle; untouched members start at
	// not_counting.
	Status    Status
	UpdatedBy uuid.UUID
}

// BoardUpdate is the event published to live viewers after each change.
type BoardUpdate struct {
	Record *models.AttendanceRecord `json:"record,omitempty"`
	Quorum models.QuorumSummary     `json:"quorum"`
	Reset  bool                     `json:"reset,omitempty"`
}

// Update applies one attendance change and returns the record with the
// refreshed quorum.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*BoardUpdate, error) {
	if in.MemberID == "" {
		return nil, core.Validationf("member id required")
	}

	current, err := s.store.Get(ctx, in.AssemblyID, in.Category, in.MemberID)
	if err != nil {
		return nil, err
	}

	next := in.Status
	if next == "" {
		from := NotCounting
		if current != nil {
			from = Status(current.Status)
		}
		next, err = from.Next()
		if err != nil {
			return nil, err
		}
	} else if !next.Valid() {
		return nil, core.Validationf("unknown attendance status %q", string(next))
	}

	rec := &models.AttendanceRecord{
		AssemblyID: in.AssemblyID,
		Category:   in.Category,
		MemberID:   in.MemberID,
		Name:       in.Name,
		Role:       in.Role,
		Status:     string(next),
		UpdatedBy:  in.UpdatedBy,
	}
	if current != nil {
		if rec.Name == "" {
			rec.Name = current.Name
		}
		if rec.Role == "" {
			rec.Role = current.Role
		}
	}
	if err := s.store.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	s.metrics.IncAttendance()

	quorum, err := s.Quorum(ctx, in.AssemblyID)
	if err != nil {
		return nil, err
	}
	update := &BoardUpdate{Record: rec, Quorum: quorum}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAttendance(in.AssemblyID, update)
	}
	return update, nil
}

// List returns the full attendance sheet of an assembly.
func (s *Service) List(ctx context.Context, assemblyID uuid.UUID) ([]models.AttendanceRecord, error) {
	return s.store.ListByAssembly(ctx, assemblyID)
}

// Quorum computes the quorum summary. Excluded members leave both sides
// of the ratio; an empty eligible base yields zero percent, never a
// division error.
func (s *Service) Quorum(ctx context.Context, assemblyID uuid.UUID) (models.QuorumSummary, error) {
	records, err := s.store.ListByAssembly(ctx, assemblyID)
	if err != nil {
		return models.QuorumSummary{}, err
	}
	return Summarize(records), nil
}

// Summarize folds a set of records into the quorum arithmetic.
func Summarize(records []models.AttendanceRecord) models.QuorumSummary {
	var sum models.QuorumSummary
	sum.Total = len(records)
	for _, r := range records {
		switch Status(r.Status) {
		case Present:
			sum.Present++
		case Absent:
			sum.Absent++
		case Excluded:
			sum.Excluded++
		default:
			sum.NotCounting++
		}
	}
	sum.Eligible = sum.Total - sum.Excluded
	if sum.Eligible > 0 {
		sum.QuorumPct = float64(sum.Present) / float64(sum.Eligible) * 100
	}
	return sum
}

// QuorumReport is the overall summary plus the per-category breakdown.
type QuorumReport struct {
	Overall    models.QuorumSummary   `json:"overall"`
	Categories []models.QuorumSummary `json:"categories"`
}

// QuorumByCategory computes the overall summary and one per category,
// ordered by category name.
func (s *Service) QuorumByCategory(ctx context.Context, assemblyID uuid.UUID) (*QuorumReport, error) {
	records, err := s.store.ListByAssembly(ctx, assemblyID)
	if err != nil {
		return nil, err
	}
	byCat := make(map[models.ParticipantCategory][]models.AttendanceRecord)
	for _, r := range records {
		byCat[r.Category] = append(byCat[r.Category], r)
	}
	cats := make([]models.ParticipantCategory, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	report := &QuorumReport{Overall: Summarize(records)}
	for _, c := range cats {
		sum := Summarize(byCat[c])
		sum.Category = c
		report.Categories = append(report.Categories, sum)
	}
	return report, nil
}

// Reset wipes the assembly's attendance sheet and returns the number of
// records removed.
func (s *Service) Reset(ctx context.Context, assemblyID, resetBy uuid.UUID) (int, error) {
	n, err := s.store.DeleteAll(ctx, assemblyID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("attendance reset",
		zap.String("assembly_id", assemblyID.String()),
		zap.String("reset_by", resetBy.String()),
		zap.Int("records", n))
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAttendance(assemblyID, &BoardUpdate{Reset: true})
	}
	return n, nil
}
