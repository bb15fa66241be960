package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quantpilot/mlcore/internal/api/marketdata"
	"github.com/quantpilot/mlcore/internal/config"
	"github.com/quantpilot/mlcore/internal/database"
	"github.com/quantpilot/mlcore/internal/ensemble"
	"github.com/quantpilot/mlcore/internal/indicator"
	"github.com/quantpilot/mlcore/models"
)

func main() {
	csvPath := flag.String("csv", "", "load bars from a CSV file instead of the API")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg.LogLevel)
	log.Info().Str("symbol", cfg.Symbol).Msg("Starting predictor")

	bars, err := loadBars(ctx, cfg, *csvPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load bars")
	}
	log.Info().Int("bars", len(bars)).Msg("Bar history loaded")

	// Current technical picture.
	snapshot := indicator.Calculate(bars, indicatorConfig(cfg))
	log.Info().
		Float64("rsi", snapshot.RSI.Value).
		Str("rsi_signal", snapshot.RSI.Signal).
		Str("macd_trend", snapshot.MACD.Trend).
		Str("overall", snapshot.OverallSignal).
		Msg("Indicator snapshot")

	engine := ensemble.New(ensemble.Options{
		Lookforward: cfg.Lookforward,
		Seed:        cfg.Seed,
	})
	prediction, err := engine.Predict(cfg.Symbol, bars)
	if err != nil {
		log.Fatal().Err(err).Msg("Prediction failed")
	}

	printPrediction(prediction, snapshot)

	if cfg.SaveToDB {
		savePrediction(cfg, prediction)
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

func indicatorConfig(cfg *config.Config) indicator.Config {
	return indicator.Config{
		RSIPeriod:        cfg.RSIPeriod,
		MACDFastPeriod:   cfg.MACDFastPeriod,
		MACDSlowPeriod:   cfg.MACDSlowPeriod,
		MACDSignalPeriod: cfg.MACDSignalPeriod,
		BBPeriod:         cfg.BBPeriod,
		BBStdDev:         cfg.BBStdDev,
		StochKPeriod:     cfg.StochKPeriod,
		StochDPeriod:     cfg.StochDPeriod,
	}
}

func printPrediction(p *models.EnsemblePrediction, snap *models.IndicatorSnapshot) {
	payload := struct {
		*models.EnsemblePrediction
		Indicators *models.IndicatorSnapshot `json:"indicators"`
	}{p, snap}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal prediction")
		return
	}
	fmt.Println(string(out))
	fmt.Println()
	fmt.Println(p.Analysis)
}

func savePrediction(cfg *config.Config, p *models.EnsemblePrediction) {
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

	if prev, err := db.GetLatestPrediction(p.Symbol); err != nil {
		log.Warn().Err(err).Msg("Failed to read previous prediction")
	} else if prev != nil {
		log.Info().
			Float64("predicted", prev.Predictions.NextDay.PredictedPrice).
			Str("recommendation", prev.Recommendation).
			Time("generated_at", prev.GeneratedAt).
			Msg("Previous prediction")
	}

	if err := db.SavePrediction(p); err != nil {
		log.Error().Err(err).Msg("Failed to save prediction")
		return
	}
	log.Info().Str("symbol", p.Symbol).Msg("Prediction saved")
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
