package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/quantpilot/mlcore/models"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS prediction_runs (
			id SERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			current_price DOUBLE PRECISION NOT NULL,
			next_day_price DOUBLE PRECISION NOT NULL,
			next_week_price DOUBLE PRECISION NOT NULL,
			next_month_price DOUBLE PRECISION NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			recommendation TEXT NOT NULL,
			data_points INT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS backtest_runs (
			id SERIAL PRIMARY KEY,
			strategy TEXT NOT NULL,
			symbol TEXT NOT NULL,
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP NOT NULL,
			initial_capital DOUBLE PRECISION NOT NULL,
			final_capital DOUBLE PRECISION NOT NULL,
			total_return_pct DOUBLE PRECISION NOT NULL,
			number_of_trades INT NOT NULL,
			win_rate DOUBLE PRECISION NOT NULL,
			max_drawdown_pct DOUBLE PRECISION NOT NULL,
			sharpe_ratio DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)

	return err
}

// SavePrediction stores a completed prediction run
func (db *DB) SavePrediction(p *models.EnsemblePrediction) error {
	_, err := db.Exec(`
		INSERT INTO prediction_runs (
			symbol, current_price, next_day_price, next_week_price,
			next_month_price, confidence, recommendation, data_points, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		p.Symbol, p.CurrentPrice,
		p.Predictions.NextDay.PredictedPrice,
		p.Predictions.NextWeek.PredictedPrice,
		p.Predictions.NextMonth.PredictedPrice,
		p.Confidence, p.Recommendation, p.DataPoints, p.GeneratedAt)

	return err
}

// SaveBacktest stores a completed backtest run
func (db *DB) SaveBacktest(r *models.BacktestResult) error {
	_, err := db.Exec(`
		INSERT INTO backtest_runs (
			strategy, symbol, start_date, end_date, initial_capital, final_capital,
			total_return_pct, number_of_trades, win_rate, max_drawdown_pct,
			sharpe_ratio, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		r.StrategyName, r.Symbol, r.StartDate, r.EndDate,
		r.InitialCapital, r.FinalCapital, r.TotalReturnPercent,
		r.NumberOfTrades, r.WinRate, r.MaxDrawdownPercent,
		r.SharpeRatio, time.Now())

	return err
}

// GetLatestPrediction retrieves the most recent prediction for a symbol
func (db *DB) GetLatestPrediction(symbol string) (*models.EnsemblePrediction, error) {
	var p models.EnsemblePrediction

	err := db.QueryRow(`
		SELECT
			symbol, current_price, next_day_price, next_week_price,
			next_month_price, confidence, recommendation, data_points, created_at
		FROM prediction_runs
		WHERE symbol = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, symbol).Scan(
		&p.Symbol, &p.CurrentPrice,
		&p.Predictions.NextDay.PredictedPrice,
		&p.Predictions.NextWeek.PredictedPrice,
		&p.Predictions.NextMonth.PredictedPrice,
		&p.Confidence, &p.Recommendation, &p.DataPoints, &p.GeneratedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No prediction found
		}
		return nil, err
	}

	return &p, nil
}
