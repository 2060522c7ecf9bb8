package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/schemacheck"
)

type stubChecker struct {
	report *schemacheck.Report
	err    error
}

func (s *stubChecker) Run(ctx context.Context) (*schemacheck.Report, error) {
	return s.report, s.err
}

func repairContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/admin/schema/repair", nil)
	return c, w
}

func TestRepairSchema_ReportsConnectivityFailure(t *testing.T) {
	log := zerolog.Nop()
	svc := &service{
		log:     &log,
		checker: &stubChecker{err: errors.New("database unreachable: dial tcp 10.0.0.5:5432: connection refused")},
	}

	c, w := repairContext(t)
	svc.RepairSchema(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "database unreachable")
	assert.Contains(t, body, "connection refused")
}

func TestRepairSchema_ReturnsReport(t *testing.T) {
	log := zerolog.Nop()
	svc := &service{
		log: &log,
		checker: &stubChecker{report: &schemacheck.Report{
			Actions: []string{"added column registrations.guardian_name"},
			Errors:  []string{},
			Success: true,
		}},
	}

	c, w := repairContext(t)
	svc.RepairSchema(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "added column registrations.guardian_name")
}
