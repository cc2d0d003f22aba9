package providers

import (
	"database/sql"
	"fmt"
)

// DBHelper hands the shared *sql.DB to the repositories.
type DBHelper struct {
	PostgresClient *sql.DB
}

func NewDbProvider(client *sql.DB) (*DBHelper, error) {
	if client == nil {
		return nil, fmt.Errorf("nil postgres client")
	}
	return &DBHelper{PostgresClient: client}, nil
}
