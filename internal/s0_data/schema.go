package s0_data

import (
	"context"
	_ "embed"

	"github.com/wonny/balancedrisk/pkg/database"
)

// Schema is the DDL of the metrics store
//
//go:embed schema.sql
var Schema string

// EnsureSchema creates the metrics store tables when missing
func EnsureSchema(ctx context.Context, db *database.DB) error {
	return db.ApplySchema(ctx, Schema)
}
