package handlers

import (
	"log/slog"
	"net/http"

	"TODO_WEB-APP/internal/dto"
	"TODO_WEB-APP/internal/flash"
	"TODO_WEB-APP/internal/render"
	"TODO_WEB-APP/internal/utils"
)

// View renders HTML pages together with the pending notices
type View struct {
	renderer      *render.Renderer
	flash         *flash.Flash
	logger        *slog.Logger
	googleEnabled bool
}

// NewView creates a View. googleEnabled shows the Google sign-in link.
func NewView(renderer *render.Renderer, notices *flash.Flash, logger *slog.Logger, googleEnabled bool) *View {
	return &View{
		renderer:      renderer,
		flash:         notices,
		logger:        logger,
		googleEnabled: googleEnabled,
	}
}

// page renders one HTML page, consuming the pending notices
func (v *View) page(w http.ResponseWriter, r *http.Request, page string, data dto.PageData) {
	data.Notices = v.flash.Pop(w, r)
	data.GoogleEnabled = v.googleEnabled
	if err := v.renderer.Render(w, http.StatusOK, page, data); err != nil {
		v.serverError(w, r, err)
	}
}

// notify queues a notice for the next page and redirects there
func (v *View) notify(w http.ResponseWriter, r *http.Request, category flash.Category, message, path string) {
	v.flash.Add(w, r, category, message)
	utils.SeeOther(w, r, path)
}

func (v *View) serverError(w http.ResponseWriter, r *http.Request, err error) {
	v.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
