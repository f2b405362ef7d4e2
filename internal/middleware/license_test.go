package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	apierrors "github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/errors"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/shared/testutil"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

// mockStatusProvider is a scripted LicenseStatusProvider
type mockStatusProvider struct {
	status domain.LicenseStatus
	calls  atomic.Int32
}

func (m *mockStatusProvider) GetStatus(context.Context) domain.LicenseStatus {
	m.calls.Add(1)
	return m.status
}

func TestLicenseGate(t *testing.T) {
	tests := []struct {
		name           string
		state          domain.LicenseState
		wantStatusCode int
		wantNextCalled bool
		wantType       string
	}{
		{"active license passes", domain.LicenseStateActive, http.StatusOK, true, ""},
		{"no license blocked", domain.LicenseStateNoLicense, http.StatusForbidden, false, apierrors.TypeLicenseNotFound},
		{"expired blocked", domain.LicenseStateExpired, http.StatusForbidden, false, apierrors.TypeLicenseExpired},
		{"device mismatch blocked", domain.LicenseStateDeviceMismatch, http.StatusForbidden, false, apierrors.TypeLicenseMismatch},
		{"corrupt blocked", domain.LicenseStateCorrupt, http.StatusForbidden, false, apierrors.TypeLicenseCorrupt},
		{"invalid signature blocked", domain.LicenseStateInvalidSignature, http.StatusForbidden, false, apierrors.TypeLicenseInvalid},
		{"not yet valid blocked", domain.LicenseStateNotYetValid, http.StatusForbidden, false, apierrors.TypeLicenseNotYetValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			provider := &mockStatusProvider{status: domain.LicenseStatus{Status: tt.state, Message: "m"}}
			gate := NewLicenseGate(provider, logger, nil)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				status, ok := LicenseStatusFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, domain.LicenseStateActive, status.Status)
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			gate.Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			assert.EqualValues(t, 1, provider.calls.Load())

			if tt.wantType != "" {
				assert.Equal(t, apierrors.ContentTypeProblem, rec.Header().Get("Content-Type"))
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantType, body["type"])
				license, ok := body["license"].(map[string]interface{})
				require.True(t, ok)
				assert.Equal(t, string(tt.state), license["status"])
			}
		})
	}
}

func TestLicenseGateReevaluatesEveryRequest(t *testing.T) {
	provider := &mockStatusProvider{status: domain.LicenseStatus{Status: domain.LicenseStateActive}}
	gate := NewLicenseGate(provider, nil, nil)
	handler := gate.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	provider.status = domain.LicenseStatus{Status: domain.LicenseStateExpired}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.EqualValues(t, 2, provider.calls.Load())
}

func TestLicenseGateMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := NewGateMetrics(provider.Meter("test"))
	require.NoError(t, err)

	status := &mockStatusProvider{status: domain.LicenseStatus{Status: domain.LicenseStateExpired}}
	gate := NewLicenseGate(status, nil, metrics)
	handler := gate.Handler(http.NotFoundHandler())

	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.EqualValues(t, 3, sum.DataPoints[0].Value)
}
