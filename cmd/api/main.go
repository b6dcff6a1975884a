package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/jobcards-api/internal/application/auth"
	"github.com/jhoicas/jobcards-api/internal/application/jobcard"
	"github.com/jhoicas/jobcards-api/internal/application/usecase"
	"github.com/jhoicas/jobcards-api/internal/domain/repository"
	"github.com/jhoicas/jobcards-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/jobcards-api/internal/infrastructure/pdf"
	"github.com/jhoicas/jobcards-api/internal/infrastructure/postgres"
	"github.com/jhoicas/jobcards-api/internal/infrastructure/session"
	httpRouter "github.com/jhoicas/jobcards-api/internal/interfaces/http"
	"github.com/jhoicas/jobcards-api/pkg/config"
	"github.com/jhoicas/jobcards-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// stores repositorios elegidos según STORE_DRIVER.
type stores struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	orders    repository.OrderRepository
	txRunner  jobcard.TxRunner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var st stores
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		mem := memory.NewStore()
		st = stores{users: mem.Users(), companies: mem.Companies(), orders: mem.Orders(), txRunner: mem.TxRunner()}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Str("db", postgres.Describe(cfg.DB)).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			migrate(ctx, pool, log)
		}
		st = stores{
			users:     postgres.NewUserRepository(pool),
			companies: postgres.NewCompanyRepository(pool),
			orders:    postgres.NewOrderRepository(pool),
			txRunner:  postgres.NewTxRunner(pool),
		}
	}

	// Sesiones: Redis si está configurado, si no en memoria del proceso
	var sessions repository.SessionStore
	if cfg.Redis.Enabled() {
		client, err := session.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		sessions = session.NewRedisStore(client)
	} else {
		sessions = session.NewMemoryStore()
	}

	authUC := auth.NewAuthUseCase(st.users, sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	lifecycle := jobcard.NewLifecycle(st.txRunner, st.orders, st.companies, cfg.Orders.NumberingRetries, log)
	queryResolver := jobcard.NewQueryResolver(st.orders)
	printUC := jobcard.NewPrintUseCase(st.orders, infrapdf.NewMarotoJobCardGenerator(cfg.Orders.ShopName))
	companyUC := usecase.NewCompanyUseCase(st.companies)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Job Cards API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		Lifecycle: lifecycle,
		Query:     queryResolver,
		Print:     printUC,
		CompanyUC: companyUC,
		Cookie: httpRouter.SessionCookie{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		},
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) {
	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}
	for _, v := range applied {
		log.Info().Str("version", v).Msg("migración aplicada")
	}
}
