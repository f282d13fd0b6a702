package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"backend-antrian-pst/internal/config"
	"backend-antrian-pst/internal/events"
	"backend-antrian-pst/internal/http/handler"
	"backend-antrian-pst/internal/http/middleware"
	"backend-antrian-pst/internal/http/response"
	"backend-antrian-pst/internal/http/router"
	"backend-antrian-pst/internal/ratelimit"
	"backend-antrian-pst/internal/realtime"
	"backend-antrian-pst/internal/repository"
	"backend-antrian-pst/internal/service"
	"backend-antrian-pst/internal/whatsapp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	config.LoadEnv()
	cfg := config.Load()

	log, err := config.NewLogger(cfg.Log, "backend-antrian-pst")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("konfigurasi tidak valid", zap.Error(err))
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal("timezone tidak valid", zap.String("timezone", cfg.App.Timezone), zap.Error(err))
	}

	db, err := config.OpenDB(cfg.DB, loc)
	if err != nil {
		log.Fatal("database tidak bisa dibuka", zap.Error(err))
	}
	defer db.Close()

	rdb, err := config.NewRedis(cfg.Redis)
	if err != nil {
		log.Warn("redis tidak tersedia, rate limit dimatikan", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queues := repository.NewQueueRepo(db)
	services := repository.NewServiceRepo(db)
	users := repository.NewUserRepo(db)
	notifications := repository.NewNotificationRepo(db)
	links := repository.NewTempLinkRepo(db)
	configs := repository.NewConfigRepo(db)

	jwtm := config.NewJWTManager(cfg.JWT)
	validate := service.NewValidator()

	display := service.NewDisplayService(queues, loc)
	hub := realtime.NewHub(func(ctx context.Context) ([]byte, error) {
		feed, err := display.Display(ctx, service.DisplayParams{})
		if err != nil {
			return nil, err
		}
		return json.Marshal(feed)
	}, log.Named("realtime"))

	notificationSvc := service.NewNotificationService(notifications, log.Named("notification"))
	publisher := newPublisher(ctx, cfg.RabbitMQ, notificationSvc.HandleEvent, log.Named("events"))
	if closer, ok := publisher.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	var captcha service.CaptchaVerifier
	if v := config.NewRecaptchaVerifier(cfg.Recaptcha); v != nil {
		captcha = v
	}

	h := &handler.Handler{
		Auth: service.NewAuthService(users, jwtm, captcha, log.Named("auth")),
		Intake: service.NewIntakeService(service.IntakeDeps{
			Queues:        queues,
			Services:      services,
			Configs:       configs,
			Validate:      validate,
			Publisher:     publisher,
			Notifier:      hub,
			Log:           log.Named("intake"),
			Location:      loc,
			PublicBaseURL: cfg.App.PublicBaseURL,
		}),
		Lifecycle:     service.NewLifecycleService(queues, users, publisher, hub, log.Named("lifecycle")),
		Query:         service.NewQueryService(queues, loc),
		Display:       display,
		Dashboard:     service.NewDashboardService(queues, loc),
		Notifications: notificationSvc,
		TempLinks:     service.NewTempLinkService(links, jwtm, cfg.App.TempLinkTTL, cfg.App.PublicBaseURL, log.Named("templink")),
		Reminders: service.NewReminderService(queues, whatsapp.NewClient(cfg.WhatsApp, log.Named("whatsapp")),
			publisher, hub, cfg.App.PublicBaseURL, log.Named("reminder")),
		Catalog: service.NewCatalogService(services, validate, log.Named("catalog")),
		Hours:   service.NewOpeningHoursService(configs, loc),
		Reports: service.NewReportService(queues, loc),
		Health:  service.NewHealthService(healthChecks(db.PingContext, rdb)),
		Log:     log,
	}

	app := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
		ErrorHandler:  response.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log.Named("http")))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, x-queue-hash",
		AllowMethods:  "GET, POST, PUT, DELETE",
		ExposeHeaders: "x-queue-hash, Retry-After, Content-Disposition",
	}))

	deps := router.Deps{
		Handler:   h,
		Tokens:    jwtm,
		RateLimit: cfg.RateLimit,
		BasicAuth: cfg.BasicAuth,
		Hub:       hub,
		Log:       log.Named("ratelimit"),
	}
	if rdb != nil {
		deps.Limiter = ratelimit.NewLimiter(rdb, cfg.RateLimit.Prefix)
	}
	router.Setup(app, deps)

	go func() {
		<-ctx.Done()
		log.Info("server berhenti")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error("shutdown gagal", zap.Error(err))
		}
	}()

	addr := cfg.ListenAddr()
	log.Info("Server jalan di", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server gagal", zap.Error(err))
	}
}

// newPublisher picks RabbitMQ when configured, with a consumer turning
// events into notifications. Without a broker events are handled inline.
func newPublisher(ctx context.Context, cfg config.RabbitMQConfig, handle events.Handler, log *zap.Logger) events.Publisher {
	if cfg.URL == "" {
		return events.NewDirectPublisher(log, handle)
	}

	consumer := events.NewConsumer(cfg, handle, log)
	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("event consumer berhenti", zap.Error(err))
		}
	}()
	return events.NewAMQPPublisher(cfg, log)
}

func healthChecks(pingDB service.Check, rdb *redis.Client) map[string]service.Check {
	checks := map[string]service.Check{"mysql": pingDB}
	checks["redis"] = func(ctx context.Context) error {
		if rdb == nil {
			return errors.New("redis tidak terhubung")
		}
		return rdb.Ping(ctx).Err()
	}
	return checks
}
