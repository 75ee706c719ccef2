package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agbru/numkit/internal/logging"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, httptest.NewRequest("GET", "/metrics", http.NoBody))
	return rec.Body.String()
}

func TestNewMetrics(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	if m.handler == nil || m.registry == nil {
		t.Fatal("NewMetrics should initialize the registry and handler")
	}

	// A second instance owns its own registry, so registering again is fine.
	_ = NewMetrics()

	body := scrape(t, m)
	for _, want := range []string{"numkit_active_requests", "numkit_live_objects", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetrics_ActiveRequests(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.IncrementActiveRequests()
	m.IncrementActiveRequests()
	m.DecrementActiveRequests()
	if !strings.Contains(scrape(t, m), "numkit_active_requests 1") {
		t.Error("active requests gauge should read 1")
	}
}

func TestMetrics_BindingCallsAndObjects(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.ObserveBindingCall("fibonacci", nil)
	m.ObserveBindingCall("fibonacci", nil)
	m.ObserveBindingCall("sort_numbers", errors.New("bad input"))
	m.SetLiveObjects(3)

	body := scrape(t, m)
	for _, want := range []string{
		`numkit_binding_calls_total{outcome="ok",symbol="fibonacci"} 2`,
		`numkit_binding_calls_total{outcome="error",symbol="sort_numbers"} 1`,
		"numkit_live_objects 3",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestServer_metricsMiddleware(t *testing.T) {
	t.Parallel()
	s := &Server{metrics: NewMetrics()}

	called := false
	h := s.metricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/test", http.NoBody))

	if !called || rec.Code != http.StatusTeapot {
		t.Fatalf("next handler: called=%v code=%d", called, rec.Code)
	}
	body := scrape(t, s.metrics)
	if !strings.Contains(body, `numkit_requests_total{code="418",method="GET",route="unmatched"} 1`) {
		t.Errorf("request counter not found in:\n%s", body)
	}
	if !strings.Contains(body, "numkit_active_requests 0") {
		t.Error("active requests should return to 0 after the request")
	}
	if !strings.Contains(body, `numkit_request_duration_seconds_count{route="unmatched"} 1`) {
		t.Error("request latency should be observed")
	}
}

func TestServer_handleMetrics(t *testing.T) {
	t.Parallel()
	tests := []struct {
		method string
		status int
	}{
		{"GET", http.StatusOK},
		{"POST", http.StatusMethodNotAllowed},
		{"PUT", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			s := &Server{metrics: NewMetrics(), logger: newTestLogger()}
			rec := httptest.NewRecorder()
			s.handleMetrics(rec, httptest.NewRequest(tt.method, "/metrics", http.NoBody))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK && !strings.Contains(rec.Body.String(), "numkit_") {
				t.Error("response should contain numkit metrics")
			}
			if tt.status == http.StatusMethodNotAllowed && rec.Header().Get("Allow") != "GET" {
				t.Errorf("Allow = %q, want GET", rec.Header().Get("Allow"))
			}
		})
	}
}

// testLogger is a minimal logger for testing that implements logging.Logger.
type testLogger struct{}

func newTestLogger() *testLogger                                  { return &testLogger{} }
func (l *testLogger) Info(_ string, _ ...logging.Field)           {}
func (l *testLogger) Error(_ string, _ error, _ ...logging.Field) {}
func (l *testLogger) Debug(_ string, _ ...logging.Field)          {}
func (l *testLogger) Printf(_ string, _ ...any)                   {}
func (l *testLogger) Println(_ ...any)                            {}
