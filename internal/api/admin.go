package api

import (
	"net/http"
	"net/url"

	"github.com/RichardoC/venue-assistant/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type adminView struct {
	Dates []models.AvailableDate
	Flash *ActionResult
}

// AdminPage lists the available dates. The outcome of the last mutation comes
// back through the ok and msg query parameters of the redirect.
func (h *Handler) AdminPage(w http.ResponseWriter, r *http.Request) {
	dates, err := h.db.ListAvailableDates(r.Context())
	if err != nil {
		h.logger.Error("Failed to list available dates", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	view := adminView{Dates: dates}
	if msg := r.URL.Query().Get("msg"); msg != "" {
		view.Flash = &ActionResult{Success: r.URL.Query().Get("ok") == "1", Message: msg}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := adminTemplate.Execute(w, view); err != nil {
		h.logger.Error("Failed to render admin page", zap.Error(err))
	}
}

func (h *Handler) AdminAddDate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectAdmin(w, r, ActionResult{Message: "Invalid form submission."})
		return
	}
	_, result := h.addDate(r.Context(), r.PostForm.Get("date"))
	redirectAdmin(w, r, result)
}

func (h *Handler) AdminDeleteDate(w http.ResponseWriter, r *http.Request) {
	_, result := h.deleteDate(r.Context(), chi.URLParam(r, "id"))
	redirectAdmin(w, r, result)
}

func redirectAdmin(w http.ResponseWriter, r *http.Request, result ActionResult) {
	q := url.Values{}
	q.Set("msg", result.Message)
	if result.Success {
		q.Set("ok", "1")
	}
	http.Redirect(w, r, "/admin?"+q.Encode(), http.StatusSeeOther)
}
