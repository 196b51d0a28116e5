package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/cuentas-api/internal/application/auth"
	appnotify "github.com/jhoicas/cuentas-api/internal/application/notify"
	"github.com/jhoicas/cuentas-api/internal/application/sheetsync"
	"github.com/jhoicas/cuentas-api/internal/application/tasks"
	"github.com/jhoicas/cuentas-api/internal/application/usecase"
	infranotify "github.com/jhoicas/cuentas-api/internal/infrastructure/notify"
	"github.com/jhoicas/cuentas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cuentas-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/cuentas-api/internal/infrastructure/sheets"
	httpRouter "github.com/jhoicas/cuentas-api/internal/interfaces/http"
	"github.com/jhoicas/cuentas-api/pkg/config"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	accountRepo := postgres.NewAccountRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	// Servicios de vida de aplicación: una sola instancia por proceso,
	// inyectada explícitamente (nada de globales perezosos).
	taskManager := tasks.NewManager(log)
	whatsapp := infranotify.NewWhatsAppClient(cfg.WhatsApp)
	queue := appnotify.NewQueue(whatsapp, cfg.Sync.MinDelay, cfg.Sync.MaxDelay, log)

	var emailSender sheetsync.EmailSender
	if cfg.SMTP.Enabled() {
		emailSender = infranotify.NewEmailSender(cfg.SMTP)
	} else {
		log.Warn().Msg("SMTP sin configurar: notificaciones por correo deshabilitadas")
	}

	sheetsClient := sheets.NewClient(cfg.Sheets)
	engine := sheetsync.NewEngine(
		sheetsClient, accountRepo, serviceRepo, customerRepo,
		queue, emailSender, cfg.Sync.SupplierID, log,
	)

	accountUC := usecase.NewAccountUseCase(accountRepo, customerRepo)
	serviceUC := usecase.NewServiceUseCase(serviceRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	syncUC := usecase.NewSyncUseCase(taskManager, engine)
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Disparo periódico opcional; el single-flight del manager absorbe
	// solapamientos con disparos manuales.
	sched := scheduler.New(log)
	if cfg.Sync.CronSpec != "" {
		if err := sched.Add(cfg.Sync.CronSpec, func() {
			if started, task := syncUC.StartSync(); !started {
				log.Info().Str("task_id", task.ID).Msg("sincronización ya en curso, disparo de cron omitido")
			}
		}); err != nil {
			log.Fatal().Err(err).Str("spec", cfg.Sync.CronSpec).Msg("expresión cron inválida")
		}
		sched.Start()
		defer sched.Stop()
	}

	// Limpieza periódica del registro de tareas terminadas.
	reapDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-reapDone:
				return
			case <-ticker.C:
				if n := taskManager.Reap(cfg.Sync.TaskRetention); n > 0 {
					log.Debug().Int("eliminadas", n).Msg("tareas viejas purgadas del registro")
				}
			}
		}
	}()
	defer close(reapDone)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cuentas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AccountUC:  accountUC,
		ServiceUC:  serviceUC,
		CustomerUC: customerUC,
		SyncUC:     syncUC,
		UserUC:     userUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
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

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// Dar una última oportunidad a las notificaciones pendientes.
	queue.Stop(30 * time.Second)

	log.Info().Msg("aplicación detenida")
}
