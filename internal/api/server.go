package api

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/audionode/internal/alsa"
	"github.com/smazurov/audionode/internal/api/models"
	"github.com/smazurov/audionode/internal/events"
	"github.com/smazurov/audionode/internal/logging"
	"github.com/smazurov/audionode/internal/sensor"
	"github.com/smazurov/audionode/internal/version"
)

// CardLister supplies the card inventory for the cards endpoint.
type CardLister interface {
	Cards(ctx context.Context) ([]alsa.Card, error)
}

// Options configures the API server.
type Options struct {
	AuthUsername      string
	AuthPassword      string
	Sensor            *sensor.Sensor
	Cards             CardLister
	EventBus          *events.Bus
	PrometheusHandler http.Handler // Optional Prometheus metrics handler
}

// Server is the Huma v2 API server for audionode.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	sensor     *sensor.Sensor
	cards      CardLister
	eventBus   *events.Bus
	options    *Options
	logger     *slog.Logger
}

// basicAuthMiddleware creates middleware for HTTP basic authentication
func (s *Server) basicAuthMiddleware(username, password string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		// Skip auth for operations without security requirements
		op := ctx.Operation()
		if op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		// Try Authorization header first
		authHeader := ctx.Header("Authorization")
		var credentials string

		if authHeader != "" {
			const prefix = "Basic "
			if !strings.HasPrefix(authHeader, prefix) {
				ctx.SetHeader("WWW-Authenticate", `Basic realm="AudioNode API"`)
				huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid authentication type")
				return
			}

			decoded, err := base64.StdEncoding.DecodeString(authHeader[len(prefix):])
			if err != nil {
				ctx.SetHeader("WWW-Authenticate", `Basic realm="AudioNode API"`)
				huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid credentials format", err)
				return
			}

			credentials = string(decoded)
		} else {
			// For SSE endpoints, try query parameters as fallback
			queryAuth := ctx.Query("auth")
			if queryAuth != "" {
				decoded, err := base64.StdEncoding.DecodeString(queryAuth)
				if err != nil {
					ctx.SetHeader("WWW-Authenticate", `Basic realm="AudioNode API"`)
					huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid credentials format", err)
					return
				}
				credentials = string(decoded)
			}
		}

		if credentials == "" {
			ctx.SetHeader("WWW-Authenticate", `Basic realm="AudioNode API"`)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Authentication required")
			return
		}

		parts := strings.SplitN(credentials, ":", 2)
		if len(parts) != 2 {
			ctx.SetHeader("WWW-Authenticate", `Basic realm="AudioNode API"`)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid credentials format")
			return
		}

		if parts[0] != username || parts[1] != password {
			ctx.SetHeader("WWW-Authenticate", `Basic realm="AudioNode API"`)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		next(ctx)
	}
}

// NewServer creates a new API server with Huma v2 using Go 1.22+ native routing
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	AddCORSHandler(mux, corsConfig)

	config := huma.DefaultConfig("AudioNode API", "1.0.0")
	config.Info.Description = "ALSA playback volume sensing and control API"
	// Empty servers list will make OpenAPI use relative paths, working with any host
	config.Servers = []*huma.Server{}

	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, config)

	server := &Server{
		api:      api,
		mux:      mux,
		sensor:   opts.Sensor,
		cards:    opts.Cards,
		eventBus: opts.EventBus,
		options:  opts,
		logger:   logging.GetLogger("api"),
	}

	// CORS first, then logging, then auth.
	api.UseMiddleware(NewCORSMiddleware(corsConfig))
	api.UseMiddleware(HTTPLoggingMiddleware)

	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		api.UseMiddleware(server.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	// Prometheus scrapes bypass Huma and auth.
	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	server.registerRoutes()

	return server
}

// GetMux returns the underlying HTTP ServeMux for additional setup
func (s *Server) GetMux() *http.ServeMux {
	return s.mux
}

// GetAPI returns the Huma API instance
func (s *Server) GetAPI() huma.API {
	return s.api
}

// Start starts the HTTP server on the specified address.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting AudioNode API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	return s.httpServer.ListenAndServe()
}

// Stop shuts down the server without waiting for open connections.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")

	if s.httpServer != nil {
		return s.httpServer.Close()
	}

	return nil
}

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() {
	// Health check endpoint - no auth required
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
		Security:    []map[string][]string{}, // Empty security = no auth required
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Message: "API is healthy",
			},
		}, nil
	})

	// Version endpoint - no auth required
	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{}, // Empty security = no auth required
	}, func(ctx context.Context, input *struct{}) (*models.VersionResponse, error) {
		versionInfo := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   versionInfo.Version,
				GitCommit: versionInfo.GitCommit,
				BuildDate: versionInfo.BuildDate,
				GoVersion: versionInfo.GoVersion,
				Platform:  versionInfo.Platform,
			},
		}, nil
	})

	s.registerCardRoutes()
	s.registerReadingsRoutes()
	s.registerCommandRoutes()
	s.registerSSERoutes()
}

// withAuth returns security requirement for basic auth
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}
