package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/atlantix-inc/insight-engine/pkg/apperrors"
	"github.com/atlantix-inc/insight-engine/pkg/logging"
	"github.com/atlantix-inc/insight-engine/pkg/models"
)

// Executor runs read-only SQL against the warehouse and returns a tabular
// result. The pipeline depends on this interface so tests can substitute a
// stub.
type Executor interface {
	Query(ctx context.Context, stmt string) (*models.TabularResult, error)
}

// PgExecutor executes statements on a pgx pool.
type PgExecutor struct {
	db     *DB
	logger *zap.Logger
}

// NewPgExecutor creates an executor over the given pool.
func NewPgExecutor(db *DB, logger *zap.Logger) *PgExecutor {
	return &PgExecutor{
		db:     db,
		logger: logger.Named("executor"),
	}
}

// Query runs a single SELECT and collects the full row set. Column semantic
// kinds are inferred from the PostgreSQL type OIDs of the result fields.
// Execution errors are wrapped as apperrors.ErrExecution and carry the
// underlying message.
func (e *PgExecutor) Query(ctx context.Context, stmt string) (*models.TabularResult, error) {
	start := time.Now()

	rows, err := e.db.Pool.Query(ctx, stmt)
	if err != nil {
		e.logger.Error("Query failed",
			zap.String("sql", logging.SanitizeQuery(stmt)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExecution, err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]models.Column, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = models.Column{
			Name: string(fd.Name),
			Kind: columnKindFromOID(fd.DataTypeOID),
		}
	}

	resultRows := make([]models.Row, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrExecution, err)
		}

		row := make(models.Row, len(columns))
		for i, col := range columns {
			row[col.Name] = normalizeValue(values[i])
		}
		resultRows = append(resultRows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExecution, err)
	}

	e.logger.Debug("Query completed",
		zap.Int("rows", len(resultRows)),
		zap.Duration("elapsed", time.Since(start)))

	return &models.TabularResult{
		Columns: columns,
		Rows:    resultRows,
	}, nil
}

// columnKindFromOID maps PostgreSQL type OIDs to the semantic kinds the
// chart builder understands. Anything that is neither numeric nor temporal
// is treated as categorical.
func columnKindFromOID(oid uint32) models.ColumnKind {
	switch oid {
	case 20, 21, 23, 700, 701, 790, 1700: // int8, int2, int4, float4, float8, money, numeric
		return models.ColumnNumeric
	case 1082, 1114, 1184: // date, timestamp, timestamptz
		return models.ColumnTemporal
	default:
		return models.ColumnCategorical
	}
}

// normalizeValue converts driver-specific values into JSON-friendly
// scalars. Timestamps become ISO date-time strings so cached results and
// chart axes serialize deterministically.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return v
	}
}

// Ensure PgExecutor implements Executor at compile time.
var _ Executor = (*PgExecutor)(nil)
