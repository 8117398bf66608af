package registrations

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/agora-assembly/backend/internal/middleware"
	"github.com/agora-assembly/backend/internal/models"
	"github.com/agora-assembly/backend/internal/settings"
)

func newTestHandler(t *testing.T) (*Handler, *Service, models.Assembly) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	assembly := models.Assembly{
		ID:               uuid.New(),
		Name:             "National Assembly 2024",
		Kind:             models.AssemblyInPerson,
		Status:           models.AssemblyActive,
		RegistrationOpen: true,
	}
	assemblies := NewMemoryAssemblies()
	assemblies.Put(assembly)

	svc := NewService(Deps{
		Store:      NewMemoryStore(),
		Assemblies: assemblies,
		Modalities: NewMemoryModalities(),
		Roster:     NewMemoryRoster(),
		Settings:   &StaticSettings{Snap: settings.Snapshot{RegistrationEnabled: true}},
	})
	return NewHandler(svc, nil, nil), svc, assembly
}

func approvedRegistration(t *testing.T, svc *Service, assembly models.Assembly) *models.Registration {
	t.Helper()
	ctx := context.Background()
	reg, err := svc.Register(ctx, RegisterInput{
		AssemblyID:   assembly.ID,
		RegisteredBy: uuid.New(),
		Eligibility:  EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-1"},
		Personal:     models.PersonalInfo{FullName: "Test Person", Email: "p@example.org"},
	})
	require.NoError(t, err)
	reg, err = svc.Approve(ctx, reg.ID, uuid.New(), "")
	require.NoError(t, err)
	return reg
}

func markAttendanceRequest(t *testing.T, h *Handler, regID uuid.UUID, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/registrations/"+regID.String()+"/attendance", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: regID.String()}}
	c.Set(middleware.ContextUserID, uuid.New())
	h.MarkAttendance(c)
	return w
}

func TestMarkAttendanceHonorsMarkedAt(t *testing.T) {
	h, svc, assembly := newTestHandler(t)
	reg := approvedRegistration(t, svc, assembly)

	markedAt := time.Date(2024, 3, 20, 9, 30, 0, 0, time.UTC)
	body, err := json.Marshal(gin.H{"marked_at": markedAt})
	require.NoError(t, err)

	w := markAttendanceRequest(t, h, reg.ID, body)
	require.Equal(t, 200, w.Code)

	stored, err := svc.GetByID(context.Background(), reg.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AttendedAt)
	require.True(t, stored.AttendedAt.Equal(markedAt))
}

func TestMarkAttendanceDefaultsToNow(t *testing.T) {
	h, svc, assembly := newTestHandler(t)
	reg := approvedRegistration(t, svc, assembly)

	before := time.Now()
	w := markAttendanceRequest(t, h, reg.ID, nil)
	require.Equal(t, 200, w.Code)

	stored, err := svc.GetByID(context.Background(), reg.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AttendedAt)
	require.False(t, stored.AttendedAt.Before(before))
}
