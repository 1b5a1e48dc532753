package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/limelightcms/limelight/internal/admin"
	"github.com/limelightcms/limelight/internal/auth"
	"github.com/limelightcms/limelight/internal/config"
	"github.com/limelightcms/limelight/internal/content"
	"github.com/limelightcms/limelight/internal/event"
	"github.com/limelightcms/limelight/internal/live"
	"github.com/limelightcms/limelight/internal/media"
	"github.com/limelightcms/limelight/internal/metrics"
	"github.com/limelightcms/limelight/internal/module"
	"github.com/limelightcms/limelight/internal/server"
	"github.com/limelightcms/limelight/internal/site"
	"github.com/limelightcms/limelight/internal/social"
	"github.com/limelightcms/limelight/internal/store"
	"github.com/limelightcms/limelight/internal/version"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "backup":
			runBackup(args[1:])
			return
		case "restore":
			runRestore(args[1:])
			return
		case "serve":
			args = args[1:]
		}
	}
	runServe(args)
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Limelight server starting")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Open the database
	dbPath := cfg.GetString("server.db_path")
	if dbPath == "" {
		dbPath = filepath.Join("data", "limelight.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logger.Fatal("failed to create data directory", zap.Error(err))
	}
	st, err := store.New(dbPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer st.Close()

	bus := event.NewBus(logger.Named("bus"))

	// Create module registry
	registry := module.NewRegistry(logger)

	// Construct modules in dependency order: admin and media borrow the
	// auth module's session provider, the site module reads the admin
	// module's repositories.
	authMod := auth.New(st)
	mediaMod := media.New(authMod)
	adminMod := admin.New(st, authMod)
	siteMod := site.New(adminMod)
	socialMod := social.New(nil)
	liveMod := live.New()
	metricsMod := metrics.New()

	modules := []module.Module{
		authMod,
		mediaMod,
		adminMod,
		siteMod,
		socialMod,
		liveMod,
		metricsMod,
	}
	for _, m := range modules {
		if p, ok := m.(module.EventPublisher); ok {
			p.SetBus(bus)
		}
		if err := registry.Register(m); err != nil {
			logger.Fatal("failed to register module", zap.Error(err))
		}
	}

	// Initialize all modules
	if err := registry.InitAll(cfg); err != nil {
		logger.Fatal("failed to initialize modules", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := bootstrapAdmin(ctx, cfg, logger, authMod); err != nil {
		logger.Fatal("failed to bootstrap admin account", zap.Error(err))
	}
	if err := applySeed(ctx, cfg, logger, adminMod); err != nil {
		logger.Fatal("failed to apply seed content", zap.Error(err))
	}

	// Start modules
	if err := registry.StartAll(ctx); err != nil {
		logger.Fatal("failed to start modules", zap.Error(err))
	}

	// Create and start HTTP server
	addr := cfg.GetString("server.host") + ":" + cfg.GetString("server.port")
	if addr == ":" {
		addr = "0.0.0.0:8080"
	}
	srv := server.New(addr, registry, logger, metricsMod.Middleware())

	// Start server in background
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("Limelight server ready", zap.String("addr", addr))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	registry.StopAll()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("Limelight server stopped")
}

// bootstrapAdmin creates the first account when the account table is empty.
// The password comes from configuration or is generated and logged once.
func bootstrapAdmin(ctx context.Context, cfg *config.Config, logger *zap.Logger, authMod *auth.Auth) error {
	accounts := authMod.Accounts()

	count, err := accounts.Count(ctx)
	if err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if count > 0 {
		return nil
	}

	username := cfg.GetString("modules.auth.bootstrap_username")
	if username == "" {
		username = "admin"
	}

	password := cfg.GetString("modules.auth.bootstrap_password")
	generated := password == ""
	if generated {
		buf := make([]byte, 16)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generate password: %w", err)
		}
		password = hex.EncodeToString(buf)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	account := auth.Account{
		Username:     username,
		Email:        cfg.GetString("modules.auth.bootstrap_email"),
		PasswordHash: hash,
		Role:         "owner",
	}
	if err := accounts.Create(ctx, &account); err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	if generated {
		// Shown once; change it after first login.
		logger.Info("created initial admin account",
			zap.String("username", username),
			zap.String("password", password),
		)
	} else {
		logger.Info("created initial admin account", zap.String("username", username))
	}
	return nil
}

// applySeed loads the optional seed file and fills empty repositories.
func applySeed(ctx context.Context, cfg *config.Config, logger *zap.Logger, adminMod *admin.Admin) error {
	path := cfg.GetString("seed.file")
	if path == "" {
		path = "seed.yaml"
	}

	seed, err := content.LoadSeed(path)
	if err != nil {
		return err
	}
	if seed == nil {
		return nil
	}

	repos := adminMod.Repositories()
	seeder := content.Seeder{
		Settings: repos.Settings,
		Banners:  repos.Banners,
		About:    repos.About,
		Services: repos.Services,
		Overview: repos.Overview,
		Logger:   logger.Named("seed"),
	}
	return seeder.Apply(ctx, seed)
}
