package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/stash/internal/apperr"
	"github.com/tuanvumaihuynh/stash/internal/config"
	"github.com/tuanvumaihuynh/stash/internal/http/metric"
	"github.com/tuanvumaihuynh/stash/internal/http/middleware"
	"github.com/tuanvumaihuynh/stash/internal/http/swagger"
	"github.com/tuanvumaihuynh/stash/internal/service"
	"github.com/tuanvumaihuynh/stash/internal/storage/db"
	"github.com/tuanvumaihuynh/stash/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Services groups the application services exposed over HTTP.
type Services struct {
	Stock         service.StockService
	Product       service.ProductService
	Category      service.CategoryService
	Location      service.LocationService
	ParentProduct service.ParentProductService
}

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	logger    *slog.Logger
	metrics   *metric.Metrics
	gatherer  prometheus.Gatherer
	validator validator.Validator
	health    db.HealthChecker

	svcs Services
}

type CleanupFunc func(ctx context.Context) error

type Option func(*Service)

// WithRegistry registers the HTTP metrics on reg instead of the default registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Service) {
		s.metrics = metric.New(reg)
		s.gatherer = reg
	}
}

// WithHealthChecker backs /healthz with the given checker.
func WithHealthChecker(hc db.HealthChecker) Option {
	return func(s *Service) {
		s.health = hc
	}
}

func New(
	cfg config.HTTP,
	log *slog.Logger,
	svcs Services,
	opts ...Option,
) *Service {
	s := &Service{
		cfg:       cfg,
		logger:    log.With(slog.String("service", "http")),
		validator: validator.MustNewDefaultValidator(),
		svcs:      svcs,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		s.metrics = metric.New(prometheus.DefaultRegisterer)
		s.gatherer = prometheus.DefaultGatherer
	}

	return s
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	return s.RunWithServer(ctx, s.Handler())
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	s.RegisterHandlers(r)
	return r
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", slog.Any("error", err))
		}
	}()

	s.logger.Info("http server listening", slog.String("addr", srv.Addr))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.CorrelationID(),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.Cors(s.cfg.CorsAllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/stocks", (&stockHandler{Service: s, stockSvc: s.svcs.Stock}).routes)
		r.Route("/products", (&productHandler{Service: s, productSvc: s.svcs.Product}).routes)
		r.Route("/categories", (&categoryHandler{Service: s, categorySvc: s.svcs.Category}).routes)
		r.Route("/locations", (&locationHandler{Service: s, locationSvc: s.svcs.Location}).routes)
		r.Route("/parentproducts", (&parentProductHandler{Service: s, parentProductSvc: s.svcs.ParentProduct}).routes)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.handleResponseError(w, r, apperr.RouteNotFoundErr.WrapParent(fmt.Errorf("%s %s", r.Method, r.URL.Path)))
	})

	r.Get("/healthz", s.healthz)

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

func (s *Service) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	if ok, err := s.health.IsHealthy(r.Context()); !ok || err != nil {
		s.handleResponseError(w, r, apperr.UnhealthyErr.WrapParent(err))
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
