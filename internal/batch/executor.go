package batch

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/trendsql/pkg/adapter"
)

// Outcome is the result of executing one query: either the materialized
// result set or the error the engine reported.
type Outcome struct {
	Columns []string
	Rows    [][]any
	Err     error
}

// Failed reports whether the statement failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Message is the status recorded in the manifest.
func (o Outcome) Message() string {
	if o.Err == nil {
		return StatusOK
	}
	return o.Err.Error()
}

// Execute submits the statement verbatim and materializes every row.
// Errors, including ones raised mid-iteration, come back inside the Outcome.
// Statements that return no rows (DDL, DML) succeed with no columns.
func Execute(ctx context.Context, db adapter.Querier, q Query) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Errorf("panic while executing query %s: %v", q.Number, r)}
		}
	}()

	//nolint:rowserrcheck // checked below after iteration
	rows, err := db.QueryContext(ctx, q.SQL)
	if err != nil {
		return Outcome{Err: err}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return Outcome{Err: err}
	}

	var data [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Outcome{Err: err}
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return Outcome{Err: err}
	}

	return Outcome{Columns: columns, Rows: data}
}
