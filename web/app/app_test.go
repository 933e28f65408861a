package app_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/lumen/internal/classifier"
	"github.com/JaimeStill/lumen/internal/config"
	"github.com/JaimeStill/lumen/internal/report"
	"github.com/JaimeStill/lumen/internal/review"
	"github.com/JaimeStill/lumen/pkg/module"
	"github.com/JaimeStill/lumen/pkg/pagination"
	"github.com/JaimeStill/lumen/web/app"
)

type stubClassifier struct{}

func (stubClassifier) Analyze(context.Context, string) (*classifier.Judgment, error) {
	return &classifier.Judgment{LightsOn: true, Confidence: 1, Explanation: "lit"}, nil
}

func newApp(t *testing.T) (http.Handler, review.System) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

	rev, err := review.New(
		stubClassifier{},
		&config.QueueConfig{Timeout: "5s"},
		&config.ReviewConfig{Workers: 1, StatusTTL: "5s"},
		pg, nil, logger,
	)
	if err != nil {
		t.Fatalf("review.New: %v", err)
	}
	rep := report.New(rev, nil, "report.xlsx", nil, logger)

	m, err := app.NewModule("/app", rev, rep, pg, logger)
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}

	router := module.NewRouter()
	router.Mount(m)
	return router, rev
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func post(h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	h, rev := newApp(t)

	t.Run("unconfigured", func(t *testing.T) {
		rec := get(h, "/app/")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "System Configuration") {
			t.Error("configuration form not rendered")
		}
	})

	t.Run("invalid endpoint", func(t *testing.T) {
		rec := post(h, "/app/configure", url.Values{"endpoint": {"nope"}})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		if rev.Session().Configured {
			t.Error("invalid endpoint accepted")
		}
	})

	t.Run("configure", func(t *testing.T) {
		rec := post(h, "/app/configure", url.Values{"endpoint": {"https://queue.example.com/exec"}})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/app/" {
			t.Errorf("location = %q", loc)
		}

		body := get(h, "/app/").Body.String()
		if !strings.Contains(body, "Fetch Next Batch") {
			t.Error("toolbar not rendered after configuration")
		}
		if !strings.Contains(body, "Queue endpoint saved.") {
			t.Error("status message not rendered")
		}
		if !strings.Contains(body, `http-equiv="refresh"`) {
			t.Error("page should refresh while status messages are live")
		}
	})
}

func TestActions(t *testing.T) {
	h, rev := newApp(t)

	t.Run("reset requires confirmation", func(t *testing.T) {
		rec := post(h, "/app/reset", url.Values{})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d", rec.Code)
		}
		statuses := rev.Statuses()
		if len(statuses) == 0 || statuses[len(statuses)-1].Kind != review.KindError {
			t.Errorf("statuses = %+v", statuses)
		}
	})

	t.Run("export empty history", func(t *testing.T) {
		rec := get(h, "/app/export")
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		statuses := rev.Statuses()
		last := statuses[len(statuses)-1]
		if last.Kind != review.KindInfo || last.Text != "No data to export." {
			t.Errorf("last status = %+v", last)
		}
	})

	t.Run("decision on unknown record", func(t *testing.T) {
		rec := post(h, "/app/records/missing/confirm", url.Values{"page": {"2"}})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/app/?page=2" {
			t.Errorf("location = %q", loc)
		}
	})

	t.Run("unknown image", func(t *testing.T) {
		if rec := get(h, "/app/images/missing"); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestStaticAndFallback(t *testing.T) {
	h, _ := newApp(t)

	if rec := get(h, "/app/static/app.css"); rec.Code != http.StatusOK {
		t.Errorf("stylesheet status = %d", rec.Code)
	}
	if rec := get(h, "/app/nowhere"); rec.Code != http.StatusNotFound {
		t.Errorf("fallback status = %d, want 404", rec.Code)
	}
}
