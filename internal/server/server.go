// Package server exposes flyer generation over HTTP using the same contract
// as the hosted generation service.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goflyer/internal/flyer"
	"github.com/hyperifyio/goflyer/internal/remote"
	flyerrender "github.com/hyperifyio/goflyer/internal/render"
)

// Generator is the never-failing facade the handlers call.
type Generator interface {
	Generate(ctx context.Context, description string) flyer.Result
}

// Options configures the router. Zero values pick defaults.
type Options struct {
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string
	// RateLimit is requests per minute per client IP; zero uses 60, negative
	// disables limiting.
	RateLimit int
	// MaxDescriptionBytes caps request bodies; zero uses 64 KiB.
	MaxDescriptionBytes int64
	// GenerateTimeout bounds a single generation; zero uses 30s.
	GenerateTimeout time.Duration
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewRouter wires the HTTP API around gen.
func NewRouter(gen Generator, opts Options) http.Handler {
	if opts.RateLimit == 0 {
		opts.RateLimit = 60
	}
	if opts.MaxDescriptionBytes <= 0 {
		opts.MaxDescriptionBytes = 64 << 10
	}
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = 30 * time.Second
	}
	h := &handlers{gen: gen, opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler)
	if opts.RateLimit > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimit, time.Minute))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]bool{"ok": true})
	})
	r.Post(remote.GeneratePath, h.generate)
	r.Post("/v1/flyer/preview", h.preview)
	return r
}

type handlers struct {
	gen  Generator
	opts Options
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request) (remote.Request, bool) {
	var req remote.Request
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxDescriptionBytes)
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "invalid json body")
		return req, false
	}
	if strings.TrimSpace(req.Description) == "" {
		h.fail(w, r, http.StatusBadRequest, "description is required")
		return req, false
	}
	if req.Type != "" && req.Type != remote.FlyerType {
		h.fail(w, r, http.StatusBadRequest, "unsupported flyer type")
		return req, false
	}
	return req, true
}

func (h *handlers) run(r *http.Request, description string) flyer.Result {
	ctx, cancel := context.WithTimeout(r.Context(), h.opts.GenerateTimeout)
	defer cancel()
	return h.gen.Generate(ctx, description)
}

func (h *handlers) generate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, h.run(r, req.Description))
}

func (h *handlers) preview(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	res := h.run(r, req.Description)
	page, err := flyerrender.HTMLString(res.Data)
	if err != nil {
		log.Error().Err(err).Msg("render preview")
		h.fail(w, r, http.StatusInternalServerError, "render failed")
		return
	}
	render.HTML(w, r, page)
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Success: false, Error: msg})
}

// requestLogger logs one line per request through zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}
