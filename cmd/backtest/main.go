package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quantpilot/mlcore/internal/api/marketdata"
	"github.com/quantpilot/mlcore/internal/backtest"
	"github.com/quantpilot/mlcore/internal/config"
	"github.com/quantpilot/mlcore/internal/database"
	"github.com/quantpilot/mlcore/internal/indicator"
	"github.com/quantpilot/mlcore/models"
)

func main() {
	csvPath := flag.String("csv", "", "load bars from a CSV file instead of the API")
	strategyName := flag.String("strategy", "", "strategy to run (overrides STRATEGY env)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *strategyName != "" {
		cfg.Strategy = *strategyName
	}

	setupLogging(cfg.LogLevel)
	log.Info().Str("symbol", cfg.Symbol).Str("strategy", cfg.Strategy).Msg("Starting backtest")

	bars, err := loadBars(ctx, cfg, *csvPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load bars")
	}
	log.Info().Int("bars", len(bars)).Msg("Bar history loaded")

	engine := backtest.NewEngine(indicator.Config{
		RSIPeriod:        cfg.RSIPeriod,
		MACDFastPeriod:   cfg.MACDFastPeriod,
		MACDSlowPeriod:   cfg.MACDSlowPeriod,
		MACDSignalPeriod: cfg.MACDSignalPeriod,
		BBPeriod:         cfg.BBPeriod,
		BBStdDev:         cfg.BBStdDev,
		StochKPeriod:     cfg.StochKPeriod,
		StochDPeriod:     cfg.StochDPeriod,
	}, cfg.CommissionPct)

	var result *models.BacktestResult
	if cfg.Strategy == "model_driven" {
		result, err = engine.RunModelDriven(cfg.Symbol, bars, cfg.InitialCapital, backtest.ModelDrivenOptions{
			Lookforward: cfg.Lookforward,
			Seed:        cfg.Seed,
		})
	} else {
		var strategy backtest.Strategy
		strategy, err = backtest.StrategyByName(cfg.Strategy, cfg.StopLossPct, cfg.TakeProfitPct)
		if err != nil {
			log.Fatal().Err(err).Msg("Unknown strategy")
		}
		result, err = engine.Run(strategy, cfg.Symbol, bars, cfg.InitialCapital)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Backtest failed")
	}

	fmt.Println(backtest.FormatResults(result))

	if cfg.SaveToDB {
		saveBacktest(cfg, result)
	}
}

// loadBars reads history from a CSV file when one is given, otherwise
// from the Twelve Data API.
func loadBars(ctx context.Context, cfg *config.Config, csvPath string) ([]models.PriceBar, error) {
	var source models.BarSource
	if csvPath != "" {
		source = &marketdata.FileSource{Path: csvPath}
	} else {
		source = marketdata.NewClient(cfg.TwelveAPIKey, time.Duration(cfg.RequestTimeout)*time.Second)
	}
	return source.GetDailyBars(ctx, cfg.Symbol, cfg.LookbackDays)
}

func saveBacktest(cfg *config.Config, result *models.BacktestResult) {
	db, err := database.New(database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to database")
		return
	}
	defer db.Close()

	if err := db.SaveBacktest(result); err != nil {
		log.Error().Err(err).Msg("Failed to save backtest")
		return
	}
	log.Info().Str("strategy", result.StrategyName).Msg("Backtest saved")
}

// setupSignalHandling configures signal handling for graceful shutdown
func setupSignalHandling(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutdown signal received, exiting...")
		cancel()
		os.Exit(0)
	}()
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}
