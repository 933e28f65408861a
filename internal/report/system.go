package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/JaimeStill/lumen/internal/metrics"
	"github.com/JaimeStill/lumen/internal/review"
	"github.com/JaimeStill/lumen/pkg/storage"
)

// ContentType is the media type of exported workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Source supplies the history to export.
type Source interface {
	Session() review.Session
	History() []review.Record
}

// File is an exported workbook.
type File struct {
	Name       string
	Data       []byte
	Rows       int
	ArchiveKey string
}

// System exports session history.
type System interface {
	Handler() *Handler

	// Export renders the full history. It returns ErrNothingToExport when
	// the history is empty.
	Export(ctx context.Context) (*File, error)

	// Archived returns a previously archived export. It returns
	// storage.ErrDisabled when no blob storage is configured.
	Archived(ctx context.Context, key string) (*storage.Blob, error)
}

type exporter struct {
	source   Source
	store    storage.System
	filename string
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a report System. A nil store disables archiving.
func New(
	source Source,
	store storage.System,
	filename string,
	m *metrics.Metrics,
	logger *slog.Logger,
) System {
	return &exporter{
		source:   source,
		store:    store,
		filename: filename,
		metrics:  m,
		logger:   logger.With("system", "report"),
		now:      time.Now,
	}
}

func (e *exporter) Handler() *Handler {
	return NewHandler(e, e.logger)
}

func (e *exporter) Export(ctx context.Context) (*File, error) {
	history := e.source.History()
	if len(history) == 0 {
		e.metrics.IncExport(metrics.OutcomeEmpty)
		return nil, ErrNothingToExport
	}

	rows := Rows(history)

	var buf bytes.Buffer
	if err := Write(&buf, rows); err != nil {
		e.metrics.IncExport(metrics.OutcomeFailure)
		return nil, fmt.Errorf("export report: %w", err)
	}

	file := &File{
		Name: e.filename,
		Data: buf.Bytes(),
		Rows: len(rows),
	}

	if e.store != nil {
		key := e.archiveKey()
		if err := e.store.Upload(ctx, key, bytes.NewReader(file.Data), ContentType); err != nil {
			e.metrics.IncExport(metrics.OutcomeFailure)
			return nil, fmt.Errorf("archive report: %w", err)
		}
		file.ArchiveKey = key
	}

	e.metrics.IncExport(metrics.OutcomeSuccess)
	e.logger.InfoContext(
		ctx, "report exported",
		"rows", file.Rows,
		"size", len(file.Data),
		"archive_key", file.ArchiveKey,
	)

	return file, nil
}

func (e *exporter) Archived(ctx context.Context, key string) (*storage.Blob, error) {
	if e.store == nil {
		return nil, storage.ErrDisabled
	}
	return e.store.Download(ctx, key)
}

func (e *exporter) archiveKey() string {
	session := e.source.Session().ID.String()
	stamp := e.now().UTC().Format("20060102T150405Z")
	return path.Join("reports", session, stamp+"-"+e.filename)
}
