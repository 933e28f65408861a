package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/lumen/internal/report"
	"github.com/JaimeStill/lumen/internal/review"
	"github.com/JaimeStill/lumen/pkg/handlers"
	"github.com/JaimeStill/lumen/pkg/pagination"
	"github.com/JaimeStill/lumen/pkg/routes"
	"github.com/JaimeStill/lumen/pkg/web"
)

type handler struct {
	ts         *web.TemplateSet
	review     review.System
	report     report.System
	pagination pagination.Config
	logger     *slog.Logger
}

func newHandler(
	ts *web.TemplateSet,
	rev review.System,
	rep report.System,
	pagination pagination.Config,
	logger *slog.Logger,
) *handler {
	return &handler{
		ts:         ts,
		review:     rev,
		report:     rep,
		pagination: pagination,
		logger:     logger.With("handler", "app"),
	}
}

func (h *handler) routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{$}", Handler: h.index},
			{Method: "GET", Pattern: "/images/{id}", Handler: h.image},
			{Method: "GET", Pattern: "/export", Handler: h.export},
			{Method: "POST", Pattern: "/configure", Handler: h.configure},
			{Method: "POST", Pattern: "/init", Handler: h.initQueue},
			{Method: "POST", Pattern: "/next", Handler: h.nextBatch},
			{Method: "POST", Pattern: "/reset", Handler: h.resetQueue},
		},
		Children: []routes.Group{
			{
				Prefix: "/records/{id}",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/confirm", Handler: h.confirm},
					{Method: "POST", Pattern: "/deny", Handler: h.deny},
				},
			},
		},
	}
}

type indexPage struct {
	Session  review.Session
	Info     *review.BatchInfo
	Batch    []card
	History  []card
	Statuses []review.Status
	Page     int
	Pages    []int
	Total    int
}

// card is one record rendered with the context its forms need.
type card struct {
	review.Record
	BasePath string
	Page     int
}

func (h *handler) cards(recs []review.Record, page int) []card {
	out := make([]card, len(recs))
	for i, r := range recs {
		out[i] = card{Record: r, BasePath: h.ts.BasePath(), Page: page}
	}
	return out
}

type imagePage struct {
	Record *review.Record
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	batch := h.review.Batch()
	history := h.review.Search(page, review.Filters{})

	data := indexPage{
		Session:  h.review.Session(),
		Info:     batch.Info,
		Batch:    h.cards(batch.Records, page.Page),
		History:  h.cards(history.Data, page.Page),
		Statuses: h.review.Statuses(),
		Page:     page.Page,
		Total:    history.Total,
	}
	for i := 1; i <= history.TotalPages; i++ {
		data.Pages = append(data.Pages, i)
	}

	view := h.ts.Data(indexView, data)
	if data.Session.Analyzing > 0 || len(data.Statuses) > 0 {
		view.Refresh = refreshSeconds
	}

	if err := h.ts.Render(w, layout, indexView.Template, view); err != nil {
		h.logger.Error("render index", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *handler) image(w http.ResponseWriter, r *http.Request) {
	rec, err := h.review.Find(r.PathValue("id"))
	if err != nil {
		h.ts.ErrorHandler(layout, errorView, http.StatusNotFound)(w, r)
		return
	}

	view := h.ts.Data(imageView, imagePage{Record: rec})
	view.Title = rec.Name
	if rec.Analyzing() {
		view.Refresh = refreshSeconds
	}

	if err := h.ts.Render(w, layout, imageView.Template, view); err != nil {
		h.logger.Error("render image", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *handler) configure(w http.ResponseWriter, r *http.Request) {
	if err := h.review.Configure(r.FormValue("endpoint")); err != nil {
		h.review.Notify(review.KindError, "Please enter a valid http(s) queue endpoint URL.")
		h.logger.Warn("configure rejected", "error", err)
	} else {
		h.review.Notify(review.KindSuccess, "Queue endpoint saved.")
	}
	h.back(w, r, "")
}

func (h *handler) initQueue(w http.ResponseWriter, r *http.Request) {
	h.queueAction(w, r, func(ctx context.Context) error {
		return h.review.Init(ctx)
	})
}

func (h *handler) nextBatch(w http.ResponseWriter, r *http.Request) {
	h.queueAction(w, r, func(ctx context.Context) error {
		_, err := h.review.Next(ctx)
		return err
	})
}

func (h *handler) resetQueue(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.FormValue("confirm"))
	if !confirmed {
		h.review.Notify(review.KindError, "Tick the confirmation box to reset the queue.")
		h.back(w, r, "")
		return
	}

	h.queueAction(w, r, func(ctx context.Context) error {
		return h.review.Reset(ctx, true)
	})
}

// queueAction runs a queue operation. The review system posts its own
// status messages, so failures here are only logged.
func (h *handler) queueAction(w http.ResponseWriter, r *http.Request, fn func(context.Context) error) {
	if err := fn(r.Context()); err != nil {
		h.logger.Warn("queue action failed", "path", r.URL.Path, "error", err)
	}
	h.back(w, r, "")
}

func (h *handler) confirm(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.review.Confirm)
}

func (h *handler) deny(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.review.Deny)
}

func (h *handler) decide(w http.ResponseWriter, r *http.Request, fn func(string) (*review.Record, error)) {
	id := r.PathValue("id")
	rec, err := fn(id)
	if err != nil {
		h.review.Notify(review.KindError, fmt.Sprintf("Record %s not found.", id))
		h.back(w, r, "")
		return
	}
	h.back(w, r, "record-"+rec.Key.String())
}

func (h *handler) export(w http.ResponseWriter, r *http.Request) {
	file, err := h.report.Export(r.Context())
	if errors.Is(err, report.ErrNothingToExport) {
		h.review.Notify(review.KindInfo, "No data to export.")
		h.back(w, r, "")
		return
	}
	if err != nil {
		h.logger.Error("export failed", "error", err)
		h.review.Notify(review.KindError, "Export failed.")
		h.back(w, r, "")
		return
	}

	h.review.Notify(review.KindSuccess, "Export completed successfully.")

	handlers.RespondAttachment(w, report.ContentType, file.Name, file.Data)
}

// back redirects to the index page, preserving the history page and
// optionally scrolling to an anchor.
func (h *handler) back(w http.ResponseWriter, r *http.Request, anchor string) {
	target := h.ts.BasePath() + "/"
	if p, err := strconv.Atoi(r.FormValue("page")); err == nil && p > 1 {
		target += "?page=" + strconv.Itoa(p)
	}
	if anchor != "" {
		target += "#" + anchor
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
