// Package web builds the fiber app of the dashboard and runs it until shutdown.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	accesslog "github.com/Blackwork-AI/Blackwork-Dashboard/internal/logger/adapter/fiber"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler"
	oidchandler "github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler/auth/oidc"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler/calendar"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler/dashboard"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler/home"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler/login"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler/onboarding"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler/payment"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler/settings"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler/webhook"
	authmiddleware "github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/middleware/auth"
)

const (
	// CheckAlivePath answers 200 while the service takes traffic and 503 while it drains.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	stoppers     []func()
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the service down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown drains, stops the http server and the background workers of the handlers.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown

	for _, stop := range s.stoppers {
		stop()
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether checkalive answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// checkAlive is the load balancer probe.
func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// NewTemplateEngine returns the embedded templates, or the working tree ones in dev mode.
func NewTemplateEngine(devMode bool) *html.Engine {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if devMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	// Add template helper functions
	templateEngine.AddFunc("iterate", func(count int) []int {
		result := make([]int, count)
		for i := range result {
			result[i] = i
		}

		return result
	})
	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})
	templateEngine.AddFunc("pct", func(f float64) int {
		return int(f*100 + 0.5) //nolint:mnd
	})

	return templateEngine
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize:    8192,
			AppName:           cfg.Title,
			CaseSensitive:     true,
			Prefork:           false,
			Immutable:         true,
			Views:             NewTemplateEngine(cfg.DevMode),
			PassLocalsToViews: true,
		},
	)

	service := &Service{
		cfg: cfg,
		App: app,
		db:  db,
	}
	service.alive.Store(true)

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	// session middleware, handlers pick the session up with auth.SessionFrom
	app.Use(authmiddleware.Middleware)

	handlers := []handler.Service{
		&home.Handler,
		&login.Handler,
		&oidchandler.Handler,
		&dashboard.Handler,
		&onboarding.Handler,
		&settings.Handler,
		&calendar.Handler,
		&payment.Handler,
		&webhook.Handler,
	}

	for _, h := range handlers {
		if err := h.Init(app, cfg, db); err != nil {
			return nil, err
		}
	}

	service.stoppers = append(service.stoppers, calendar.Handler.Stop)

	return service, nil
}
