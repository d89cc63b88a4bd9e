package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leandrowaltz/provavida/internal/infra/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIMetrics_DomainCounters(t *testing.T) {
	// Duas instâncias no mesmo processo não podem colidir
	_ = metrics.NewAPIMetrics()
	m := metrics.NewAPIMetrics()

	m.CadastroCreated()
	m.CadastroCreated()
	m.AuditEntriesWritten(3)
	m.AuditEntriesWritten(0)
	m.ExportGenerated("visitas", "pdf")

	expected := `
# HELP provavida_cadastros_created_total Total number of registrations created
# TYPE provavida_cadastros_created_total counter
provavida_cadastros_created_total 2
# HELP provavida_audit_entries_total Total number of audit entries written by edits
# TYPE provavida_audit_entries_total counter
provavida_audit_entries_total 3
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"provavida_cadastros_created_total", "provavida_audit_entries_total"))

	count, err := testutil.GatherAndCount(m.Registry(), "provavida_exports_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAPIMetrics_Handler(t *testing.T) {
	m := metrics.NewAPIMetrics()
	m.RequestStarted("/api/cadastros", http.MethodGet)
	m.RequestCompleted("/api/cadastros", http.MethodGet, "200", 10*time.Millisecond, 0, 128)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `provavida_http_requests_total{method="GET",path="/api/cadastros",status="200"} 1`)
}

func TestAPIMetrics_NilSafe(t *testing.T) {
	var m *metrics.APIMetrics
	assert.NotPanics(t, func() {
		m.CadastroCreated()
		m.AuditEntriesWritten(2)
		m.ExportGenerated("all", "csv")
		m.RequestStarted("/", "GET")
		m.RequestError("/", "GET", "client_error")
	})
}
