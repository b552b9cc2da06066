package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/nyumba-labs/propops/internal/logger"
	"github.com/nyumba-labs/propops/store"
)

func getStore() (*store.Store, *logger.Logger, error) {
	log, err := logger.New(os.Getenv("PROPOPS_LOG"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL not set in environment or .env file")
	}

	st, err := store.Open(dsn, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %v", err)
	}
	return st, log, nil
}

func parseDate(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return parsed, nil
}
