// Package queue implements the client for the external batch queue backend.
// The backend serves batches of image references through a single endpoint
// selected by an action query parameter (init, next, reset).
package queue

import (
	"fmt"
	"strings"
)

// Image identifies one reviewable image and its locators.
type Image struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	PreviewURL        string `json:"previewUrl"`
	DirectDownloadURL string `json:"directDownloadUrl"`
}

// Validate checks that the fields required for review and analysis are present.
func (i Image) Validate() error {
	var missing []string
	if strings.TrimSpace(i.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(i.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(i.DirectDownloadURL) == "" {
		missing = append(missing, "directDownloadUrl")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Batch describes one fetched group of images sharing a source folder.
type Batch struct {
	FolderName   string  `json:"folderName"`
	FolderID     string  `json:"folderId"`
	BatchIndex   int     `json:"batchIndex"`
	TotalBatches int     `json:"totalBatches"`
	Images       []Image `json:"images"`
}

// Validate checks batch metadata and every image in the batch.
func (b *Batch) Validate() error {
	if b.BatchIndex < 0 {
		return fmt.Errorf("batchIndex must not be negative: %d", b.BatchIndex)
	}
	if b.TotalBatches < 0 {
		return fmt.Errorf("totalBatches must not be negative: %d", b.TotalBatches)
	}

	seen := make(map[string]struct{}, len(b.Images))
	for i, img := range b.Images {
		if err := img.Validate(); err != nil {
			return fmt.Errorf("images[%d]: %w", i, err)
		}
		if _, dup := seen[img.ID]; dup {
			return fmt.Errorf("images[%d]: duplicate id %q", i, img.ID)
		}
		seen[img.ID] = struct{}{}
	}
	return nil
}

// Ack is the backend response to init and reset.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
