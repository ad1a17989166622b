package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scrape renders the provider's registry as Prometheus text.
func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

// assertMetricLine matches name{...labels...} value, tolerating the scope labels the
// OTel exporter adds.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	assert.Regexp(t, name+`\{[^}]*`+labels+`[^}]*\} `+value, output)
}

func TestBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("envshare_test")
	require.NoError(t, err)
	defer func() { assert.NoError(t, provider.Shutdown(context.Background())) }()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "envshare_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "vault", "secret_reveal", "success")
	bm.RecordOperation(ctx, "vault", "secret_reveal", "success")
	bm.RecordOperation(ctx, "vault", "secret_reveal", "error")
	bm.RecordOperation(ctx, "apikey", "api_key_create", "success")
	bm.RecordDuration(ctx, "vault", "secret_reveal", 40*time.Millisecond, "success")
	bm.RecordDuration(ctx, "vault", "secret_reveal", 60*time.Millisecond, "success")

	output := scrape(t, provider)

	assertMetricLine(t, output, `envshare_test_operations_total`,
		`domain="vault".*operation="secret_reveal".*status="success"`, `2`)
	assertMetricLine(t, output, `envshare_test_operations_total`,
		`domain="vault".*operation="secret_reveal".*status="error"`, `1`)
	assertMetricLine(t, output, `envshare_test_operations_total`,
		`domain="apikey".*operation="api_key_create".*status="success"`, `1`)
	assertMetricLine(t, output, `envshare_test_operation_duration_seconds_count`,
		`domain="vault".*operation="secret_reveal".*status="success"`, `2`)
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()

	assert.IsType(t, NoOpBusinessMetrics{}, bm)
	assert.NotPanics(t, func() {
		bm.RecordOperation(context.Background(), "vault", "secret_create", "success")
		bm.RecordDuration(context.Background(), "vault", "secret_create", time.Second, "error")
	})
}
