package performance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/canonical"
	apierrors "github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/errors"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/license"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/security"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/shared/testutil"
	handlers "github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/transport/http"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

const (
	// MaxLatency bounds the 95th percentile of a status request.
	MaxLatency = 100 * time.Millisecond

	latencySamples = 200
)

var ConcurrencyLevels = []int{1, 10, 50}

// fixture is a license HTTP adapter over a temporary license file.
type fixture struct {
	manager *license.Manager
	server  *httptest.Server
	text    string
}

func newFixture(tb testing.TB) *fixture {
	tb.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	manager := license.NewManager(
		filepath.Join(tb.TempDir(), "license.json"),
		security.NewFingerprintManager(logger),
		license.WithLogger(logger),
	)
	handler := handlers.NewLicenseHandler(manager, apierrors.NewErrorHandler(logger, false), logger)

	r := chi.NewRouter()
	r.Mount("/api/license", handler.Routes())
	server := httptest.NewServer(r)
	tb.Cleanup(server.Close)

	signer := testutil.NewLicenseSigner(tb)
	return &fixture{
		manager: manager,
		server:  server,
		text:    signer.Sign(testutil.ValidPayload(time.Now(), nil)),
	}
}

func (f *fixture) getStatus(tb testing.TB) domain.LicenseStatus {
	resp, err := http.Get(f.server.URL + "/api/license/status")
	require.NoError(tb, err)
	defer resp.Body.Close()

	var status domain.LicenseStatus
	require.NoError(tb, json.NewDecoder(resp.Body).Decode(&status))
	return status
}

func TestStatusLatency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping latency test in short mode")
	}
	f := newFixture(t)

	durations := make([]time.Duration, 0, latencySamples)
	for i := 0; i < latencySamples; i++ {
		start := time.Now()
		status := f.getStatus(t)
		durations = append(durations, time.Since(start))
		require.Equal(t, domain.LicenseStateNoLicense, status.Status)
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	p95 := durations[len(durations)*95/100]
	t.Logf("status p50=%v p95=%v", durations[len(durations)/2], p95)
	assert.Less(t, p95, MaxLatency)
}

func TestConcurrentActivationThroughput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping throughput test in short mode")
	}
	f := newFixture(t)
	body, err := json.Marshal(domain.LicenseActivationRequest{Text: f.text})
	require.NoError(t, err)

	for _, level := range ConcurrencyLevels {
		start := time.Now()

		var g errgroup.Group
		for i := 0; i < level; i++ {
			g.Go(func() error {
				resp, err := http.Post(f.server.URL+"/api/license/activate", "application/json", strings.NewReader(string(body)))
				if err != nil {
					return err
				}
				defer resp.Body.Close()
				_, err = io.Copy(io.Discard, resp.Body)
				return err
			})
		}
		require.NoError(t, g.Wait())

		elapsed := time.Since(start)
		t.Logf("concurrency=%d elapsed=%v rps=%.0f", level, elapsed, float64(level)/elapsed.Seconds())
	}

	// Foreign-signed activations never reach the store.
	assert.Equal(t, domain.LicenseStateNoLicense, f.getStatus(t).Status)
}

func BenchmarkCanonicalMarshal(b *testing.B) {
	payload := testutil.ValidPayload(time.Now(), map[string]any{
		"customerName": "صيدلية اليسر",
		"features":     []any{"sales", "inventory", "reports", "pos", "accounting"},
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := canonical.Marshal(payload); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEvaluate(b *testing.B) {
	f := newFixture(b)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.manager.ActivateFromText(ctx, f.text, license.ActivateOptions{DryRun: true})
	}
}

func BenchmarkStatusHTTP(b *testing.B) {
	for _, level := range ConcurrencyLevels {
		b.Run(fmt.Sprintf("concurrency_%03d", level), func(b *testing.B) {
			f := newFixture(b)
			client := f.server.Client()
			url := f.server.URL + "/api/license/status"

			b.SetParallelism(level)
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					resp, err := client.Get(url)
					if err != nil {
						b.Error(err)
						return
					}
					_, _ = io.Copy(io.Discard, resp.Body)
					resp.Body.Close()
				}
			})
		})
	}
}
