package api

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/RichardoC/venue-assistant/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

//go:embed web
var webFS embed.FS

var adminTemplate = template.Must(template.ParseFS(webFS, "web/templates/admin.html"))

// Conversation runs one chat turn.
type Conversation interface {
	Converse(ctx context.Context, session models.Session, userText string) (string, error)
}

// Store is the persistence the handlers read and mutate directly.
type Store interface {
	GetSessionHistory(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
	CreateAvailableDate(ctx context.Context, day time.Time) (*models.AvailableDate, error)
	ListAvailableDates(ctx context.Context) ([]models.AvailableDate, error)
	DeleteAvailableDate(ctx context.Context, id int64) error
}

type Handler struct {
	db     Store
	chat   Conversation
	logger *zap.Logger
}

func NewHandler(database Store, chat Conversation, logger *zap.Logger) *Handler {
	return &Handler{
		db:     database,
		chat:   chat,
		logger: logger,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Routes wires every endpoint, the admin page and the chat page.
func (h *Handler) Routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.HandleChat)
		r.Get("/chat/{sessionID}/messages", h.GetMessages)

		r.Get("/dates", h.ListDates)
		r.Post("/dates", h.CreateDate)
		r.Delete("/dates/{id}", h.DeleteDate)
	})

	r.Get("/admin", h.AdminPage)
	r.Post("/admin/dates", h.AdminAddDate)
	r.Post("/admin/dates/{id}/delete", h.AdminDeleteDate)

	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	r.Handle("/*", http.FileServer(http.FS(static)))

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("Served request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
