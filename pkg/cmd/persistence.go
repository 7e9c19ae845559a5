// Package cmd wires configuration strings into the concrete backends the
// binaries run with.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/persistence"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/persistence/file"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/persistence/postgresql"
)

// NewPersistence selects the persistence backend from the database URL scheme.
// Anything that is not a postgres URL is treated as a file path.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parseScheme(databaseURL) {
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parseScheme(url string) string {
	scheme, _, found := strings.Cut(url, "://")
	if !found {
		return ""
	}

	return scheme
}
