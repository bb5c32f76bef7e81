package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeQuerier registra el SQL recibido y devuelve respuestas fijas.
type fakeQuerier struct {
	sql     []string
	args    [][]any
	rowJSON []byte
	rowErr  error
	tag     string
	execErr error
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return pgconn.NewCommandTag(f.tag), f.execErr
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return nil, errors.New("query no soportado en el fake")
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return fakeRow{raw: f.rowJSON, err: f.rowErr}
}

type fakeRow struct {
	raw []byte
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if b, ok := dest[0].(*[]byte); ok {
		*b = r.raw
	}
	return nil
}
