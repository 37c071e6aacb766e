package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps the order-log database connection
type DB struct {
	*sql.DB
}

// Config holds database configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection
func New(cfg Config) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return &DB{sqlDB}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// InitSchema initializes the database schema
func (db *DB) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL,
		coin_pair VARCHAR(20) NOT NULL,
		side VARCHAR(10) NOT NULL,
		status VARCHAR(20) NOT NULL,
		quantity DECIMAL(30, 8) NOT NULL,
		limit_price DECIMAL(30, 2) NOT NULL,
		executed_quantity DECIMAL(30, 8) NOT NULL,
		executed_price_avg DECIMAL(30, 8) NOT NULL,
		fee DECIMAL(30, 8) NOT NULL,
		action VARCHAR(20) NOT NULL,
		recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT unique_order_action UNIQUE (order_id, coin_pair, action)
	);

	CREATE INDEX IF NOT EXISTS idx_orders_coin_pair ON orders(coin_pair);
	CREATE INDEX IF NOT EXISTS idx_orders_recorded_at ON orders(recorded_at DESC);
	`

	_, err := db.Exec(schema)
	return err
}
