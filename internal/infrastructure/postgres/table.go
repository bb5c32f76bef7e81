package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
)

// Operadores soportados por Filter.
const (
	OpEq     = "="
	OpLt     = "<"
	OpLte    = "<="
	OpGte    = ">="
	OpSearch = "ILIKE"
)

// Filter condición WHERE. OpSearch aplica ILIKE '%valor%' sobre cualquiera de Columns.
type Filter struct {
	Op      string
	Columns []string
	Value   any
}

// Eq columna = valor.
func Eq(column string, value any) Filter { return Filter{Op: OpEq, Columns: []string{column}, Value: value} }

// Lt columna < valor.
func Lt(column string, value any) Filter { return Filter{Op: OpLt, Columns: []string{column}, Value: value} }

// Lte columna <= valor.
func Lte(column string, value any) Filter { return Filter{Op: OpLte, Columns: []string{column}, Value: value} }

// Gte columna >= valor.
func Gte(column string, value any) Filter { return Filter{Op: OpGte, Columns: []string{column}, Value: value} }

// likeEscaper escapa los comodines de LIKE; la barra invertida es el escape por defecto de Postgres.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Search coincidencia parcial sin distinguir mayúsculas en cualquiera de las columnas.
// % y _ del término se buscan literalmente.
func Search(term string, columns ...string) Filter {
	return Filter{Op: OpSearch, Columns: columns, Value: "%" + likeEscaper.Replace(term) + "%"}
}

// ListOptions filtros y paginación. Limit 0 = sin límite. OrderBy vacío usa el orden por defecto de la tabla.
type ListOptions struct {
	Filters []Filter
	OrderBy string
	Limit   int
	Offset  int
}

// Table CRUD genérico sobre una tabla. T se escanea por nombre de columna (tags db).
type Table[T any] struct {
	q       Querier
	name    string
	columns []string
	orderBy string
}

// NewTable construye el acceso genérico a una tabla con sus columnas y orden por defecto.
func NewTable[T any](q Querier, name string, columns []string, orderBy string) *Table[T] {
	return &Table[T]{q: q, name: name, columns: columns, orderBy: orderBy}
}

func ident(name string) string { return pgx.Identifier{name}.Sanitize() }

// coalesce columna nullable leída con valor por defecto, conservando el nombre para el escaneo.
func coalesce(column, def string) string {
	return fmt.Sprintf("COALESCE(%s, %s) AS %s", ident(column), def, ident(column))
}

func (t *Table[T]) selectList() string {
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		if strings.ContainsAny(c, " (") {
			cols[i] = c // expresión ya armada (coalesce)
			continue
		}
		cols[i] = ident(c)
	}
	return strings.Join(cols, ", ")
}

// where arma la cláusula WHERE a partir de los filtros. Los placeholders empiezan en $1.
func where(filters []Filter) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	var (
		parts []string
		args  []any
	)
	for _, f := range filters {
		args = append(args, f.Value)
		ph := fmt.Sprintf("$%d", len(args))
		if f.Op == OpSearch {
			ors := make([]string, len(f.Columns))
			for i, c := range f.Columns {
				ors[i] = fmt.Sprintf("%s::text ILIKE %s", ident(c), ph)
			}
			parts = append(parts, "("+strings.Join(ors, " OR ")+")")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s %s", ident(f.Columns[0]), f.Op, ph))
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func (t *Table[T]) listSQL(opts ListOptions) (string, []any) {
	w, args := where(opts.Filters)
	sql := fmt.Sprintf("SELECT %s FROM %s%s", t.selectList(), ident(t.name), w)
	order := opts.OrderBy
	if order == "" {
		order = t.orderBy
	}
	if order != "" {
		sql += " ORDER BY " + order
	}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		sql += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return sql, args
}

// All lista filas según filtros y paginación.
func (t *Table[T]) All(ctx context.Context, opts ListOptions) ([]*T, error) {
	sql, args := t.listSQL(opts)
	return t.collect(ctx, sql, args...)
}

// Query ejecuta una consulta arbitraria y escanea el resultado en T.
func (t *Table[T]) Query(ctx context.Context, sql string, args ...any) ([]*T, error) {
	return t.collect(ctx, sql, args...)
}

func (t *Table[T]) collect(ctx context.Context, sql string, args ...any) ([]*T, error) {
	rows, err := t.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: list: %w", t.name, err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		return nil, fmt.Errorf("%s: scan: %w", t.name, err)
	}
	return list, nil
}

// ByID obtiene una fila por id. Devuelve (nil, nil) si no existe.
func (t *Table[T]) ByID(ctx context.Context, id string) (*T, error) {
	return t.One(ctx, Eq("id", id))
}

// One obtiene la primera fila que cumple los filtros. Devuelve (nil, nil) si no hay ninguna.
func (t *Table[T]) One(ctx context.Context, filters ...Filter) (*T, error) {
	sql, args := t.listSQL(ListOptions{Filters: filters, Limit: 1})
	rows, err := t.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: get: %w", t.name, err)
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: get: %w", t.name, err)
	}
	return item, nil
}

// sortedKeys orden estable de columnas para que el SQL generado sea determinista.
func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func insertSQL(table string, values map[string]any) (string, []any) {
	keys := sortedKeys(values)
	cols := make([]string, len(keys))
	phs := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		cols[i] = ident(k)
		phs[i] = fmt.Sprintf("$%d", i+1)
		args[i] = values[k]
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", ident(table), strings.Join(cols, ", "), strings.Join(phs, ", ")), args
}

func updateSQL(table, id string, values map[string]any) (string, []any) {
	keys := sortedKeys(values)
	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		args = append(args, values[k])
		sets[i] = fmt.Sprintf("%s = $%d", ident(k), len(args))
	}
	args = append(args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", ident(table), strings.Join(sets, ", "), len(args)), args
}

// Insert inserta una fila con las columnas indicadas. Violación de unicidad → domain.ErrDuplicate.
func (t *Table[T]) Insert(ctx context.Context, values map[string]any) error {
	sql, args := insertSQL(t.name, values)
	if _, err := t.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("%s: insert: %w", t.name, err)
	}
	return nil
}

// Update actualiza las columnas indicadas de la fila id. Sin filas afectadas → domain.ErrNotFound.
func (t *Table[T]) Update(ctx context.Context, id string, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	sql, args := updateSQL(t.name, id, values)
	cmd, err := t.q.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("%s: update: %w", t.name, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la fila id. Sin filas afectadas → domain.ErrNotFound.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	cmd, err := t.q.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", ident(t.name)), id)
	if err != nil {
		return fmt.Errorf("%s: delete: %w", t.name, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count cuenta las filas que cumplen los filtros.
func (t *Table[T]) Count(ctx context.Context, filters ...Filter) (int, error) {
	w, args := where(filters)
	var n int
	if err := t.q.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", ident(t.name), w), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: count: %w", t.name, err)
	}
	return n, nil
}

// Exists indica si hay una fila con ese id.
func (t *Table[T]) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := t.q.QueryRow(ctx, fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", ident(t.name)), id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("%s: exists: %w", t.name, err)
	}
	return ok, nil
}
