package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPayrollHandler answers 200 on every route so tests can check the
// routing table itself.
type stubPayrollHandler struct{}

func stubOK(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func (stubPayrollHandler) GetSetting(w http.ResponseWriter, r *http.Request)      { stubOK(w, r) }
func (stubPayrollHandler) UpdateSetting(w http.ResponseWriter, r *http.Request)   { stubOK(w, r) }
func (stubPayrollHandler) Calculate(w http.ResponseWriter, r *http.Request)       { stubOK(w, r) }
func (stubPayrollHandler) Generate(w http.ResponseWriter, r *http.Request)        { stubOK(w, r) }
func (stubPayrollHandler) List(w http.ResponseWriter, r *http.Request)            { stubOK(w, r) }
func (stubPayrollHandler) Get(w http.ResponseWriter, r *http.Request)             { stubOK(w, r) }
func (stubPayrollHandler) GetSummary(w http.ResponseWriter, r *http.Request)      { stubOK(w, r) }
func (stubPayrollHandler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	stubOK(w, r)
}
func (stubPayrollHandler) ListAdjustments(w http.ResponseWriter, r *http.Request) { stubOK(w, r) }

func (stubPayrollHandler) Transition(payroll.Action) http.HandlerFunc     { return stubOK }
func (stubPayrollHandler) BulkTransition(payroll.Action) http.HandlerFunc { return stubOK }
func (stubPayrollHandler) DecideAdjustment(bool) http.HandlerFunc         { return stubOK }

func routerToken(t *testing.T, svc jwt.Service, role string) string {
	t.Helper()
	_, tokenString, err := svc.JWTAuth().Encode(map[string]interface{}{
		"type":       "access",
		"company_id": "company-1",
		"user_id":    "user-1",
		"role":       role,
	})
	require.NoError(t, err)
	return tokenString
}

func TestRouter_PayrollRoutes(t *testing.T) {
	svc := jwt.NewJWTService("router-test-secret")
	router := NewRouter(svc, stubPayrollHandler{})

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		want   int
	}{
		{"bulk submit as staff", http.MethodPost, "/api/v1/payroll/records/bulk/submit", "hr_staff", http.StatusOK},
		{"bulk approve as manager", http.MethodPost, "/api/v1/payroll/records/bulk/approve", "hr_manager", http.StatusOK},
		{"bulk reject as manager", http.MethodPost, "/api/v1/payroll/records/bulk/reject", "hr_manager", http.StatusOK},
		{"bulk approve as staff is forbidden", http.MethodPost, "/api/v1/payroll/records/bulk/approve", "hr_staff", http.StatusForbidden},
		{"record detail still routes next to bulk", http.MethodGet, "/api/v1/payroll/records/pay-1", "hr_staff", http.StatusOK},
		{"record submit still routes next to bulk", http.MethodPost, "/api/v1/payroll/records/pay-1/submit", "hr_staff", http.StatusOK},
		{"record mark-paid as manager", http.MethodPost, "/api/v1/payroll/records/pay-1/mark-paid", "hr_manager", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+routerToken(t, svc, tt.role))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_RejectsMissingToken(t *testing.T) {
	svc := jwt.NewJWTService("router-test-secret")
	router := NewRouter(svc, stubPayrollHandler{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/records/", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
