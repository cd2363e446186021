package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rgpatients/patients/internal/config"
	"github.com/rgpatients/patients/internal/domain/diagnosis"
	"github.com/rgpatients/patients/internal/domain/geo"
	"github.com/rgpatients/patients/internal/domain/medication"
	"github.com/rgpatients/patients/internal/domain/patient"
	"github.com/rgpatients/patients/internal/domain/treatment"
	"github.com/rgpatients/patients/internal/domain/units"
	"github.com/rgpatients/patients/internal/platform/auth"
	"github.com/rgpatients/patients/internal/platform/db"
	"github.com/rgpatients/patients/internal/platform/middleware"
	"github.com/rgpatients/patients/internal/platform/session"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "patients-server",
		Short: "RG Patients records API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// openMigrator loads config and connects to the database for the migrate
// subcommands. Empty flag values fall back to the configured schema and dir.
func openMigrator(ctx context.Context, cmd *cobra.Command) (*db.Migrator, *pgxpool.Pool, string, error) {
	schema, _ := cmd.Flags().GetString("schema")
	dir, _ := cmd.Flags().GetString("dir")

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, "", err
	}
	if schema == "" {
		schema = cfg.DBSchema
	}
	if dir == "" {
		dir = cfg.MigrationsDir
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, schema, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, "", err
	}
	return db.NewMigrator(pool, dir, schema), pool, schema, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			migrator, pool, schema, err := openMigrator(ctx, cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			fmt.Printf("Running migrations on schema: %s\n", schema)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("schema", "", "Target schema for migrations (default DB_SCHEMA)")
	upCmd.Flags().String("dir", "", "Path to migrations directory (default MIGRATIONS_DIR)")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			migrator, pool, schema, err := openMigrator(ctx, cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("Migration status for schema: %s\n", schema)
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("schema", "", "Target schema for migrations (default DB_SCHEMA)")
	statusCmd.Flags().String("dir", "", "Path to migrations directory (default MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Rollback last migration (not supported)",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("WARNING: migrate down is destructive and not supported by the built-in runner.")
			fmt.Println("Restore from a backup or write a new forward migration instead.")
			return nil
		},
	})

	return cmd
}

func newLogger(dev bool) zerolog.Logger {
	if dev {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// authMiddleware validates bearer tokens. In development requests without a
// token run as an administrator; tokens that are sent are checked when a
// signing key is configured.
func authMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	var jwtMW echo.MiddlewareFunc
	if cfg.AuthSigningKey != "" {
		jwtMW = auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.AuthSigningKey),
			Skipper:    auth.Skipper,
		})
	}
	if cfg.IsDev() {
		return auth.DevAuthMiddleware(jwtMW)
	}
	return jwtMW
}

// newServer builds the echo instance with global middleware, health checks and
// every domain's routes under /api/v1.
func newServer(cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	if cfg.TLSEnabled {
		e.Use(middleware.HSTS())
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(authMiddleware(cfg))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(pool, db.StatsOf(pool)))

	apiV1 := e.Group("/api/v1")

	// Reference data
	geoSvc := geo.NewService(geo.NewCountryRepoPG(pool), geo.NewProvinceRepoPG(pool))
	geo.NewHandler(geoSvc).RegisterRoutes(apiV1)

	unitSvc := units.NewService(units.NewUnitRepoPG(pool))
	units.NewHandler(unitSvc).RegisterRoutes(apiV1)

	medSvc := medication.NewService(
		medication.NewMedicationTypeRepoPG(pool),
		medication.NewMedicationRepoPG(pool),
		db.PoolTransactor{Pool: pool},
	)
	medication.NewHandler(medSvc).RegisterRoutes(apiV1)

	// Patients and their care
	patientSvc := patient.NewService(patient.NewPatientRepoPG(pool), geoSvc)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)

	dxSvc := diagnosis.NewService(
		diagnosis.NewCategoryRepoPG(pool),
		diagnosis.NewDiagnosisRepoPG(pool),
		diagnosis.NewPatientDiagnosisRepoPG(pool),
	)
	diagnosis.NewHandler(dxSvc).RegisterRoutes(apiV1)

	txSvc := treatment.NewService(
		treatment.NewTreatmentRepoPG(pool),
		treatment.NewPatientTreatmentRepoPG(pool),
		treatment.NewPatientMedicationRepoPG(pool),
		dxSvc,
	)
	treatment.NewHandler(txSvc).RegisterRoutes(apiV1)

	return e
}

func runServer() error {
	logger := newLogger(os.Getenv("ENV") == "development")

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	session.Configure(session.Options{Secure: cfg.CookieSecure})

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBSchema, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Str("schema", cfg.DBSchema).Msg("connected to database")

	e := newServer(cfg, pool, logger)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Bool("tls", cfg.TLSEnabled).Msg("starting server")
		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
