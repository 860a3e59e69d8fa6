package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	auditService "github.com/ivstepanov/copyright-guard-bot/internal/modules/audit/service"
	"github.com/ivstepanov/copyright-guard-bot/internal/shared/config"
	sloghttp "github.com/samber/slog-http"
)

// Server exposes the moderation activity feed and a health check.
type Server struct {
	cfg    *config.Config
	audit  *auditService.Service
	logger *slog.Logger
}

// New creates a new HTTP server.
func New(cfg *config.Config, audit *auditService.Service) *Server {
	return &Server{
		cfg:    cfg,
		audit:  audit,
		logger: slog.Default(),
	}
}

// SetLogger overrides the server's logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start runs the HTTP server. It blocks until the listener fails.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Moderation activity feed endpoint
	mux.HandleFunc("GET /feed/{chatID}", s.handleFeed)

	// Health check endpoint
	mux.HandleFunc("GET /health", s.handleHealth)

	// Root endpoint with instructions
	mux.HandleFunc("GET /", s.handleRoot)

	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("HTTP server starting", "addr", addr)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	chatID, err := strconv.ParseInt(r.PathValue("chatID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)

	feed, err := s.audit.GenerateFeed(chatID, baseURL)
	if err != nil {
		s.logger.Error("Error generating feed", "chat_id", chatID, "error", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Copyright Guard Bot</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>Copyright Guard Bot</h1>
    <div class="info">
        <p>This service exposes the bot's moderation activity per group.</p>
        <p>To access a group's feed, use: <code>/feed/{chatID}</code></p>
        <p>Example: <code>/feed/-1001234567890</code></p>
    </div>
    <p><a href="/health">Health Check</a></p>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
