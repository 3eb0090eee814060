package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"default timeout", 0, DefaultTimeout},
		{"negative timeout", -time.Second, DefaultTimeout},
		{"custom timeout", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.timeout).timeout; got != tt.want {
				t.Errorf("timeout = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegisterAndNames(t *testing.T) {
	c := New(time.Second)
	c.Register("watcher", func(context.Context) error { return nil })
	c.Register("catalog", func(context.Context) error { return nil })
	c.Register("catalog", func(context.Context) error { return errors.New("replaced") })

	names := c.Names()
	if len(names) != 2 || names[0] != "catalog" || names[1] != "watcher" {
		t.Errorf("Names() = %v, want [catalog watcher]", names)
	}
	if r := c.Ready(context.Background()); r.Checks["catalog"].Message != "replaced" {
		t.Errorf("catalog check = %+v, want the replacement to run", r.Checks["catalog"])
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]CheckFunc
		want   string
	}{
		{"no checks", nil, StatusReady},
		{
			"all healthy",
			map[string]CheckFunc{
				"catalog": func(context.Context) error { return nil },
				"watcher": func(context.Context) error { return nil },
			},
			StatusReady,
		},
		{
			"one failing",
			map[string]CheckFunc{
				"catalog": func(context.Context) error { return errors.New("database is locked") },
				"watcher": func(context.Context) error { return nil },
			},
			StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(time.Second)
			for name, fn := range tt.checks {
				c.Register(name, fn)
			}
			report := c.Ready(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %q, want %q", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.checks) {
				t.Errorf("len(Checks) = %d, want %d", len(report.Checks), len(tt.checks))
			}
		})
	}
}

func TestReadyTimeout(t *testing.T) {
	c := New(20 * time.Millisecond)
	block := make(chan struct{})
	defer close(block)
	c.Register("stuck", func(context.Context) error {
		<-block
		return nil
	})

	report := c.Ready(context.Background())
	result := report.Checks["stuck"]
	if result.Status != StatusUnhealthy || result.Message != ErrCheckTimeout.Error() {
		t.Errorf("stuck check = %+v, want unhealthy timeout", result)
	}
}

func TestHandlers(t *testing.T) {
	c := New(time.Second)
	healthy := true
	c.Register("catalog", func(context.Context) error {
		if !healthy {
			return errors.New("closed")
		}
		return nil
	})

	mux := http.NewServeMux()
	c.Mount(mux, VersionInfo{Version: "1.2.3", Commit: "abc"})

	tests := []struct {
		name   string
		method string
		path   string
		ready  bool
		want   int
	}{
		{"liveness", http.MethodGet, "/healthz", true, http.StatusOK},
		{"readiness ok", http.MethodGet, "/readyz", true, http.StatusOK},
		{"readiness degraded", http.MethodGet, "/readyz", false, http.StatusServiceUnavailable},
		{"readiness head", http.MethodHead, "/readyz", true, http.StatusOK},
		{"version", http.MethodGet, "/version", true, http.StatusOK},
		{"post rejected", http.MethodPost, "/healthz", true, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			healthy = tt.ready
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.method == http.MethodHead && rec.Body.Len() != 0 {
				t.Errorf("HEAD body = %q, want empty", rec.Body.String())
			}
		})
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler(VersionInfo{Version: "1.2.3"})(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if info.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", info.Version, "1.2.3")
	}
	if info.GoVersion == "" {
		t.Error("GoVersion is empty")
	}
}
