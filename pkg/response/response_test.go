package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/agora-assembly/backend/internal/core"
)

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", core.Validationf("missing field"), http.StatusBadRequest},
		{"not found", core.NotFoundf("registration %s", "x"), http.StatusNotFound},
		{"conflict", core.Conflictf("duplicate"), http.StatusConflict},
		{"illegal transition", core.IllegalTransitionf("cannot approve"), http.StatusConflict},
		{"config disabled", core.ErrConfigDisabled, http.StatusForbidden},
		{"assembly closed", core.ErrAssemblyClosed, http.StatusForbidden},
		{"ineligible", core.Ineligible("not on roster"), http.StatusUnprocessableEntity},
		{"unknown", errors.New("pgx: broken pipe"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			FromError(c, tc.err)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestFromErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	FromError(c, errors.New("connection refused to 10.0.0.5:5432"))
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.Contains(t, rec.Body.String(), "internal error")
}
