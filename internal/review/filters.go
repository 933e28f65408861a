package review

import (
	"fmt"
	"net/url"

	"github.com/JaimeStill/lumen/pkg/pagination"
)

// Filters narrows a history listing.
type Filters struct {
	Status ValidationStatus `json:"status,omitempty"`
	Folder string           `json:"folder,omitempty"`
}

// FiltersFromQuery reads the status and folder query parameters.
func FiltersFromQuery(values url.Values) (Filters, error) {
	f := Filters{
		Status: ValidationStatus(values.Get("status")),
		Folder: values.Get("folder"),
	}
	if f.Status != "" && !f.Status.Valid() {
		return Filters{}, fmt.Errorf("%w: %q", ErrInvalidStatus, f.Status)
	}
	return f, nil
}

func (f Filters) match(r Record, page pagination.PageRequest) bool {
	if f.Status != "" && r.ValidationStatus != f.Status {
		return false
	}
	if f.Folder != "" && r.FolderName != f.Folder {
		return false
	}

	explanation := ""
	if r.Judgment != nil {
		explanation = r.Judgment.Explanation
	}
	return page.Matches(r.Name, r.ID, r.FolderName, explanation, r.Error)
}
