package main

import (
	"github.com/wfunc/settlers/config"
	"github.com/wfunc/settlers/logger"
	"github.com/wfunc/settlers/monitor"
	"github.com/wfunc/settlers/persistence"
	"github.com/wfunc/settlers/server"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Database
	db, err := persistence.NewGormPostgreSQL(
		cfg.Database.Postgres.Host,
		cfg.Database.Postgres.Port,
		cfg.Database.Postgres.User,
		cfg.Database.Postgres.Password,
		cfg.Database.Postgres.DBName,
	)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Log.Info("Database connection successful.")

	// Metrics endpoint
	metrics := monitor.NewMonitor("settlers")
	metrics.StartServer(cfg.Server.MetricsAddress)

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg, db, metrics)

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
