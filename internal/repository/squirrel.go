package repository

import (
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mtlprog/khomvg/internal/domain"
)

// psql is the shared Squirrel statement builder configured for PostgreSQL dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DATE columns travel through pgx as midnight UTC time.Time values.

func datePtr(t *time.Time) *domain.Date {
	if t == nil {
		return nil
	}
	d := domain.DateOf(*t)
	return &d
}

// dateArg converts an optional date into a driver argument (nil for SQL NULL).
func dateArg(d *domain.Date) interface{} {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.Time()
}
