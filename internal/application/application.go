package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/psds-microservice/ticket-reply-service/internal/auth"
	"github.com/psds-microservice/ticket-reply-service/internal/config"
	"github.com/psds-microservice/ticket-reply-service/internal/database"
	"github.com/psds-microservice/ticket-reply-service/internal/dedup"
	"github.com/psds-microservice/ticket-reply-service/internal/handler"
	"github.com/psds-microservice/ticket-reply-service/internal/kafka"
	"github.com/psds-microservice/ticket-reply-service/internal/router"
	"github.com/psds-microservice/ticket-reply-service/internal/service"
	"github.com/psds-microservice/ticket-reply-service/internal/telemetry"
	"github.com/psds-microservice/ticket-reply-service/internal/workflow"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "ticket-reply-service"

// API приложение: HTTP-сервер шлюза ответов (режим api).
type API struct {
	cfg      *config.Config
	log      *slog.Logger
	httpSrv  *http.Server
	gateway  *service.Gateway
	producer *kafka.Producer
	redis    *redis.Client
	shutdown func(context.Context) error
}

// NewAPI создаёт приложение для режима api. Конфигурация читается один раз
// и дальше передаётся компонентам явно.
func NewAPI(ctx context.Context, cfg *config.Config, log *slog.Logger) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := database.MigrateUp(ctx, cfg.DatabaseURL()); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	authn := auth.NewAuthenticator(cfg.FormAccessToken)
	if !authn.Configured() {
		log.Error("form_access_token_missing", slog.Bool("secret_configured", false))
	}
	if cfg.WorkflowURL == "" {
		log.Error("workflow_url_missing")
	}

	shutdownTracing := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint, cfg.OTelInsecure, log)

	ticketSvc := service.NewTicketService(db, cfg.StoreTimeout)
	forwarder := workflow.NewClient(cfg.WorkflowURL, cfg.WorkflowTimeout, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicReply, log)

	var guard dedup.Guard = dedup.Noop{}
	var rdb *redis.Client
	if cfg.DedupEnabled() {
		rdb, err = dedup.Connect(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		guard = dedup.NewRedisGuard(rdb, cfg.ReplyDedupWindow)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gw := service.NewGateway(service.GatewayDeps{
		Auth:      authn,
		Tickets:   ticketSvc,
		Forwarder: forwarder,
		Events:    producer,
		Guard:     guard,
		Metrics:   service.NewMetrics(reg),
		Log:       log,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	deps := router.Deps{
		Tickets:  handler.NewTicketHandler(gw, log),
		Store:    ticketSvc,
		Log:      log,
		Registry: reg,
	}
	if cfg.DebugTokenEnabled() {
		deps.DebugToken = authn
		log.Warn("debug_token_endpoint_enabled")
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(router.New(deps), serviceName),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		log:      log,
		httpSrv:  httpSrv,
		gateway:  gw,
		producer: producer,
		redis:    rdb,
		shutdown: shutdownTracing,
	}, nil
}

// Run запускает HTTP-сервер, блокируется до отмены ctx. Ресурсы закрываются
// на любом пути выхода, в том числе если сервер не смог стартовать.
func (a *API) Run(ctx context.Context) error {
	a.log.Info("http_listening",
		slog.String("addr", a.httpSrv.Addr),
		slog.Bool("kafka_enabled", a.producer.Enabled()),
		slog.Bool("dedup_enabled", a.redis != nil),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			runErr = fmt.Errorf("http: %w", err)
		}
	}

	a.log.Info("shutdown_start")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("http shutdown: %w", err)
	}
	a.close(shutdownCtx)
	a.log.Info("shutdown_done")
	return runErr
}

// close освобождает зависимости после остановки HTTP: сначала дожидается
// аудит-событий, потом закрывает продюсер, Redis и трейсинг.
func (a *API) close(ctx context.Context) {
	if err := a.gateway.Drain(ctx); err != nil {
		a.log.Warn("reply_events_drain_incomplete", slog.String("err", err.Error()))
	}
	if err := a.producer.Close(); err != nil {
		a.log.Warn("kafka_close_failed", slog.String("err", err.Error()))
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if err := a.shutdown(ctx); err != nil {
		a.log.Warn("otel_shutdown_failed", slog.String("err", err.Error()))
	}
}
