// Package review implements the review session: it pulls batches from the
// queue backend, runs each image through the classifier, and records the
// human decision for every image ever fetched.
//
// History is the single source of truth. Each fetched image becomes one
// Record under a session-unique key, and the current batch is an ordered
// list of keys into that history, so the batch and history views can
// never disagree.
package review

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lumen/internal/classifier"
	"github.com/JaimeStill/lumen/internal/queue"
)

// ValidationStatus is the human review state of a record.
type ValidationStatus string

// Validation states.
const (
	StatusPending   ValidationStatus = "pending"
	StatusConfirmed ValidationStatus = "confirmed"
	StatusDenied    ValidationStatus = "denied"
)

// Valid reports whether s is one of the known states.
func (s ValidationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDenied:
		return true
	}
	return false
}

// Record is the review state of one fetched image.
//
// At most one of Judgment and Error is set. FinalStatus is non-nil exactly
// when ValidationStatus is not pending.
type Record struct {
	Key               uuid.UUID            `json:"key"`
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	PreviewURL        string               `json:"preview_url"`
	DirectDownloadURL string               `json:"direct_download_url"`
	FolderName        string               `json:"folder_name"`
	Judgment          *classifier.Judgment `json:"judgment"`
	Error             string               `json:"error,omitempty"`
	HumanOverride     *bool                `json:"human_override"`
	FinalStatus       *bool                `json:"final_status"`
	ValidationStatus  ValidationStatus     `json:"validation_status"`
	FetchedAt         time.Time            `json:"fetched_at"`
	AnalyzedAt        *time.Time           `json:"analyzed_at,omitempty"`
	ReviewedAt        *time.Time           `json:"reviewed_at,omitempty"`
}

func newRecord(img queue.Image, folder string, now time.Time) Record {
	return Record{
		Key:               uuid.New(),
		ID:                img.ID,
		Name:              img.Name,
		PreviewURL:        img.PreviewURL,
		DirectDownloadURL: img.DirectDownloadURL,
		FolderName:        folder,
		ValidationStatus:  StatusPending,
		FetchedAt:         now,
	}
}

// Analyzing reports whether the classifier has not yet produced a judgment
// or an error for the record.
func (r Record) Analyzing() bool {
	return r.Judgment == nil && r.Error == ""
}

// Reviewed reports whether a human has confirmed or denied the record.
func (r Record) Reviewed() bool {
	return r.ValidationStatus != StatusPending
}

// Resolved returns the light state used for reporting: the final status
// once reviewed, the judgment's light state while only analyzed, and nil
// when neither exists.
func (r Record) Resolved() *bool {
	if r.FinalStatus != nil {
		return boolPtr(*r.FinalStatus)
	}
	if r.Judgment != nil {
		return boolPtr(r.Judgment.LightsOn)
	}
	return nil
}

// MarshalJSON adds the derived resolved_status field.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	return json.Marshal(struct {
		plain
		ResolvedStatus *bool `json:"resolved_status"`
	}{
		plain:          plain(r),
		ResolvedStatus: r.Resolved(),
	})
}

func (r Record) withJudgment(j *classifier.Judgment, now time.Time) Record {
	judgment := *j
	r.Judgment = &judgment
	r.Error = ""
	r.AnalyzedAt = &now
	return r
}

func (r Record) withError(msg string, now time.Time) Record {
	r.Judgment = nil
	r.Error = msg
	r.AnalyzedAt = &now
	return r
}

// confirm accepts the judgment as-is. Without a judgment the record is
// returned unchanged and ok is false.
func (r Record) confirm(now time.Time) (Record, bool) {
	if r.Judgment == nil {
		return r, false
	}
	r.ValidationStatus = StatusConfirmed
	r.HumanOverride = nil
	r.FinalStatus = boolPtr(r.Judgment.LightsOn)
	r.ReviewedAt = &now
	return r, true
}

// deny reverses the judgment. Without a judgment the record is returned
// unchanged and ok is false.
func (r Record) deny(now time.Time) (Record, bool) {
	if r.Judgment == nil {
		return r, false
	}
	override := !r.Judgment.LightsOn
	r.ValidationStatus = StatusDenied
	r.HumanOverride = boolPtr(override)
	r.FinalStatus = boolPtr(override)
	r.ReviewedAt = &now
	return r, true
}

func boolPtr(b bool) *bool {
	return &b
}

// BatchInfo describes the batch currently on display.
type BatchInfo struct {
	FolderName   string `json:"folder_name"`
	FolderID     string `json:"folder_id"`
	BatchIndex   int    `json:"batch_index"`
	TotalBatches int    `json:"total_batches"`
}

func newBatchInfo(b *queue.Batch) *BatchInfo {
	return &BatchInfo{
		FolderName:   b.FolderName,
		FolderID:     b.FolderID,
		BatchIndex:   b.BatchIndex,
		TotalBatches: b.TotalBatches,
	}
}

// BatchView is the current batch resolved against history.
type BatchView struct {
	Info    *BatchInfo `json:"info"`
	Records []Record   `json:"records"`
}

// Analyzing returns the number of records still awaiting a judgment or error.
func (v BatchView) Analyzing() int {
	n := 0
	for _, r := range v.Records {
		if r.Analyzing() {
			n++
		}
	}
	return n
}

// Session summarizes the review session.
type Session struct {
	ID         uuid.UUID `json:"id"`
	Endpoint   string    `json:"endpoint"`
	Configured bool      `json:"configured"`
	StartedAt  time.Time `json:"started_at"`
	History    int       `json:"history"`
	Batch      int       `json:"batch"`
	Analyzing  int       `json:"analyzing"`
	Reviewed   int       `json:"reviewed"`
}
