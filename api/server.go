package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/consultancy-site-backend/config"
	"github.com/rs/zerolog/log"
)

// Dependencies are the collaborators the router is built from. Uploader,
// Notifier and DB may be nil; uploads then answer 503 and the contact
// form skips notifications.
type Dependencies struct {
	Stores   Stores
	Uploader Uploader
	Notifier contactNotifier
	DB       pinger
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, deps Dependencies) (Server, error) {
	// Ensure correct port is set
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	router, err := newRouter(deps, withConfig(c), withStartupTime(startupTime))
	if err != nil {
		return Server{}, err
	}

	// Get timeout values from config with sensible defaults
	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadTimeout:       readTimeout,  // Timeout for reading the entire request
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout, // Timeout for writing the response
		IdleTimeout:       idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) (*chi.Mux, error) {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	tokens, err := newTokenIssuer(router.config)
	if err != nil {
		return nil, err
	}
	allowRegistration := config.GetBool(router.config, "ALLOW_REGISTRATION", false)

	// Initialize all handlers
	handlers := initializeHandlers(deps, tokens, allowRegistration, router.startupTime)

	// Initialize auth middleware
	authMiddleware := newAuthMiddleware(tokens)

	proxies, err := parseTrustedProxies(router.config)
	if err != nil {
		return nil, err
	}
	limiter := newIPRateLimiter(
		config.GetDuration(router.config, "RATE_LIMIT_INTERVAL", 12*time.Second),
		config.GetInt(router.config, "RATE_LIMIT_BURST", 5),
	)

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(realIP(proxies))
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(HTTPLoggingMiddleware(!config.IsProduction(router.config)))

	// Apply CORS middleware
	acceptedOrigins := allowedOrigins(router.config)
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	chiRouter.Get("/health", handlers.healthHandler.health())
	chiRouter.Route("/api", func(r chi.Router) {
		setupPublicRoutes(r, handlers, deps.Stores, limiter)
		r.Route("/admin", func(r chi.Router) {
			setupAdminRoutes(r, handlers, deps.Stores, authMiddleware)
		})
	})

	return chiRouter, nil
}

// allowedOrigins merges PRODUCTION_URL and ACCEPTED_ORIGINS. Outside
// production the usual local dev servers are allowed when neither is set.
func allowedOrigins(c map[string]string) []string {
	origins := config.GetStrings(c, "ACCEPTED_ORIGINS")
	if prod := config.GetString(c, "PRODUCTION_URL", ""); prod != "" {
		origins = append(origins, prod)
	}
	if len(origins) == 0 && !config.IsProduction(c) {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	return origins
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
