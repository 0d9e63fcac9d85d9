// Package dashboard serves the JSON API the planning dashboard UI is built on.
package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/p-blackswan/spatialflow/internal/health"
	"github.com/p-blackswan/spatialflow/internal/metrics"
	"github.com/p-blackswan/spatialflow/internal/orchestrator"
	"github.com/p-blackswan/spatialflow/internal/requestid"
)

// DefaultListenAddr is used when ServerConfig.ListenAddr is empty.
const DefaultListenAddr = ":8090"

// maxBodySize bounds uploads; site plans are the largest bodies.
const maxBodySize = 20 << 20

// ServerConfig holds configuration for the dashboard server.
type ServerConfig struct {
	ListenAddr  string
	RateLimit   RateLimitConfig
	CORSOrigins []string
}

// Server is the dashboard Fiber application.
type Server struct {
	app     *fiber.App
	limiter *rateLimiter
	logger  zerolog.Logger
	config  ServerConfig
}

// NewServer creates and configures a dashboard server over orch. m may be nil.
func NewServer(
	cfg ServerConfig,
	orch *orchestrator.Orchestrator,
	checker *health.Checker,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler(logger),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             maxBodySize,
		ReadBufferSize:        8192,
		WriteBufferSize:       8192,
	})

	s := &Server{
		app:    app,
		logger: logger.With().Str("component", "dashboard").Logger(),
		config: cfg,
	}

	s.setupMiddleware(cfg)
	s.setupRoutes(NewHandlers(orch, checker, logger), m)

	return s
}

func (s *Server) setupMiddleware(cfg ServerConfig) {
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Request ID: reuse the caller's when present so it reaches the backend unchanged.
	s.app.Use(func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		reqID := strings.Clone(c.Get(requestid.Header))
		if reqID != "" {
			ctx = requestid.WithRequestID(ctx, reqID)
		} else {
			ctx, reqID = requestid.New(ctx)
		}
		c.SetUserContext(ctx)
		c.Set(requestid.Header, reqID)
		c.Locals("request_id", reqID)
		return c.Next()
	})

	if len(cfg.CORSOrigins) > 0 {
		s.app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
			AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
			AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
		}))
	}

	if cfg.RateLimit.RPS > 0 {
		s.limiter = newRateLimiter(cfg.RateLimit)
		go s.limiter.sweep()
		s.app.Use(s.limiter.handler())
	}

	s.app.Use(func(c *fiber.Ctx) error {
		path := c.Path()
		if isProbe(path) {
			return c.Next()
		}

		err := c.Next()
		s.logger.Info().
			Str("method", c.Method()).
			Str("path", path).
			Str("ip", c.IP()).
			Int("status", c.Response().StatusCode()).
			Str("request_id", requestid.FromContext(c.UserContext())).
			Msg("dashboard api request")
		return err
	})
}

func (s *Server) setupRoutes(h *Handlers, m *metrics.Metrics) {
	s.app.Get("/healthz", h.Liveness)
	s.app.Get("/readyz", h.Readiness)
	s.app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	v1 := s.app.Group("/api/v1")

	v1.Get("/state", h.GetState)

	v1.Put("/schedule", h.PutSchedule)
	v1.Post("/schedule/upload", h.UploadSchedule)
	v1.Post("/schedule/parse", h.ParseSchedule)

	v1.Put("/week", h.PutWeek)
	v1.Post("/week/step", h.StepWeek)

	v1.Put("/image", h.PutImage)
	v1.Delete("/image", h.DeleteImage)

	v1.Put("/delay-type", h.PutDelayType)

	v1.Post("/layout", h.GenerateLayout)
	v1.Get("/layout", h.GetLayout)
	v1.Post("/query", h.Query)
	v1.Get("/query", h.GetQuery)
	v1.Post("/replan", h.Replan)
	v1.Get("/replan", h.GetReplan)
}

// Start starts the server. Blocks until stopped.
func (s *Server) Start() error {
	addr := s.config.ListenAddr
	if addr == "" {
		addr = DefaultListenAddr
	}

	s.logger.Info().Str("addr", addr).Msg("dashboard server starting")
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.logger.Info().Msg("dashboard server shutting down")
	if s.limiter != nil {
		s.limiter.Close()
	}
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

func customErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		detail := err.Error()
		if code == fiber.StatusInternalServerError {
			logger.Error().
				Err(err).
				Str("path", c.Path()).
				Str("method", c.Method()).
				Msg("unhandled error")
			detail = "An internal error occurred"
		}

		return c.Status(code).JSON(ProblemDetail{
			Type:     problemType(code),
			Title:    titleFor(code),
			Status:   code,
			Detail:   detail,
			Instance: c.Path(),
		})
	}
}

func problemType(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusMethodNotAllowed:
		return "method_not_allowed"
	case fiber.StatusRequestEntityTooLarge:
		return "body_too_large"
	case fiber.StatusInternalServerError:
		return "internal_error"
	}
	return "request_failed"
}

func titleFor(code int) string {
	if t := http.StatusText(code); t != "" {
		return t
	}
	return "Error"
}
