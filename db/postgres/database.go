package postgres

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Db struct {
	PostgresClient *sql.DB
	logger         *zap.Logger
}

// ConnectDB establishes a connection to the PostgreSQL database, retrying
// until the server answers a ping or MAX_DB_ATTEMPTS is exhausted.
func ConnectDB(logger *zap.Logger) (*Db, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_DB"),
	)

	maxRetries, _ := strconv.Atoi(os.Getenv("MAX_DB_ATTEMPTS"))
	if maxRetries == 0 {
		maxRetries = 10
	}

	var db *sql.DB
	var err error
	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", connStr)
		if err != nil {
			logger.Warn("failed to open database connection",
				zap.Int("attempt", i+1), zap.Error(err))
			time.Sleep(2 * time.Second)
			continue
		}

		if err = db.Ping(); err == nil {
			logger.Info("connected to PostgreSQL")
			return &Db{PostgresClient: db, logger: logger}, nil
		}

		logger.Warn("failed to ping PostgreSQL",
			zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("exceeded max retries connecting to PostgreSQL: %w", err)
}

// Stop gracefully closes the PostgreSQL connection.
func (db *Db) Stop() {
	if db.PostgresClient == nil {
		return
	}
	if err := db.PostgresClient.Close(); err != nil {
		db.logger.Error("error closing PostgreSQL connection", zap.Error(err))
		return
	}
	db.logger.Info("PostgreSQL connection closed")
}

// InitSchema applies db/postgres/schema.sql. Intended for development and
// test databases; production schemas are managed externally.
func (db *Db) InitSchema() error {
	schemaPath := filepath.Join("db", "postgres", "schema.sql")
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err = db.PostgresClient.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	db.logger.Info("database schema initialized", zap.String("path", schemaPath))
	return nil
}
