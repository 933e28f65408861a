package review_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/lumen/internal/classifier"
	"github.com/JaimeStill/lumen/internal/config"
	"github.com/JaimeStill/lumen/internal/queue"
	"github.com/JaimeStill/lumen/internal/review"
	"github.com/JaimeStill/lumen/pkg/lifecycle"
	"github.com/JaimeStill/lumen/pkg/pagination"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClassifier answers by locator. Locators without a configured answer
// are judged lights-on with full confidence. When gate is set, every call
// blocks until a value is received from it.
type fakeClassifier struct {
	mu          sync.Mutex
	judgments   map[string]classifier.Judgment
	failures    map[string]error
	calls       []string
	inflight    int
	maxInflight int
	gate        chan struct{}
}

func newFakeClassifier() *fakeClassifier {
	return &fakeClassifier{
		judgments: make(map[string]classifier.Judgment),
		failures:  make(map[string]error),
	}
}

func (f *fakeClassifier) Analyze(ctx context.Context, locator string) (*classifier.Judgment, error) {
	f.mu.Lock()
	f.calls = append(f.calls, locator)
	f.inflight++
	f.maxInflight = max(f.maxInflight, f.inflight)
	gate := f.gate
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
	}()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.failures[locator]; ok {
		return nil, err
	}
	if j, ok := f.judgments[locator]; ok {
		return &j, nil
	}
	return &classifier.Judgment{LightsOn: true, Confidence: 1, Explanation: "lit"}, nil
}

func (f *fakeClassifier) callOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// backend is a scripted queue service. It records the peak number of
// requests in flight at once; delay holds each request open so that
// overlapping callers would be observed.
type backend struct {
	mu      sync.Mutex
	batches []string
	next    int
	calls   map[string]int
	status  map[string]int
	server  *httptest.Server

	track  sync.Mutex
	active int
	peak   int
	delay  time.Duration
}

func newBackend(t *testing.T, batches ...string) *backend {
	t.Helper()
	b := &backend{
		batches: batches,
		calls:   make(map[string]int),
		status:  make(map[string]int),
	}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

func (b *backend) serve(w http.ResponseWriter, r *http.Request) {
	b.track.Lock()
	b.active++
	b.peak = max(b.peak, b.active)
	delay := b.delay
	b.track.Unlock()

	defer func() {
		b.track.Lock()
		b.active--
		b.track.Unlock()
	}()

	time.Sleep(delay)

	b.mu.Lock()
	defer b.mu.Unlock()

	action := r.URL.Query().Get("action")
	b.calls[action]++

	if code, ok := b.status[action]; ok {
		w.WriteHeader(code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch action {
	case "init", "reset":
		b.next = 0
		fmt.Fprint(w, `{"success": true, "message": "ok"}`)
	case "next":
		if b.next >= len(b.batches) {
			fmt.Fprint(w, `{"images": []}`)
			return
		}
		fmt.Fprint(w, b.batches[b.next])
		b.next++
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func (b *backend) fail(action string, code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status[action] = code
}

func (b *backend) hold(d time.Duration) {
	b.track.Lock()
	defer b.track.Unlock()
	b.delay = d
}

func (b *backend) peakInflight() int {
	b.track.Lock()
	defer b.track.Unlock()
	return b.peak
}

func (b *backend) count(action string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[action]
}

// batchJSON renders a batch whose images have ids img-<n> and locators
// https://img.test/<id>.
func batchJSON(folder string, index, total int, ids ...string) string {
	images := make([]queue.Image, 0, len(ids))
	for _, id := range ids {
		images = append(images, queue.Image{
			ID:                id,
			Name:              id + ".jpg",
			PreviewURL:        "https://preview.test/" + id,
			DirectDownloadURL: locator(id),
		})
	}

	data, _ := json.Marshal(queue.Batch{
		FolderName:   folder,
		FolderID:     "folder-" + folder,
		BatchIndex:   index,
		TotalBatches: total,
		Images:       images,
	})
	return string(data)
}

func locator(id string) string {
	return "https://img.test/" + id
}

func newSession(t *testing.T, cls classifier.System, endpoint string, workers int) review.System {
	t.Helper()

	lc := lifecycle.New()
	t.Cleanup(func() { lc.Shutdown(time.Second) })

	sys, err := review.New(
		cls,
		&config.QueueConfig{Endpoint: endpoint, Timeout: "5s"},
		&config.ReviewConfig{Workers: workers, StatusTTL: "5s"},
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		nil,
		discardLogger(),
	)
	if err != nil {
		t.Fatalf("review.New: %v", err)
	}

	sys.Start(lc)
	return sys
}

func waitIdle(t *testing.T, sys review.System) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sys.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}
