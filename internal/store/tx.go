package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/pkordes/tripstore/internal/domain"
)

// Row is satisfied by *sql.Row and *sql.Rows.
type Row interface {
	Scan(dest ...any) error
}

// Cond is an equality condition on one field.
type Cond struct {
	Field string
	Value any
}

// Eq builds a Cond.
func Eq(field string, value any) Cond {
	return Cond{Field: field, Value: value}
}

// Query selects rows whose fields equal every condition in Where, ordered by
// OrderBy. A (parent, key) compound index makes this an index range scan; with
// Desc and Limit 1 it fetches the last element of the range.
type Query struct {
	Where   []Cond
	OrderBy []string
	Desc    bool
	Limit   int
	Offset  int
}

// Tx is an open transaction over a fixed set of collections.
type Tx struct {
	id      string
	q       querier
	store   *Store
	scope   map[string]bool
	write   bool
	dialect Dialect
}

// ID is a trace identifier for log correlation.
func (tx *Tx) ID() string { return tx.id }

func (tx *Tx) covers(scope []*Collection, write bool) error {
	if write && !tx.write {
		return fmt.Errorf("store: nested update: %w", ErrReadOnly)
	}
	var missing []string
	for _, c := range scope {
		if !tx.scope[c.Name] {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) > 0 {
		return scopeError("nested transaction needs", missing...)
	}
	return nil
}

func (tx *Tx) check(c *Collection, write bool, fields ...string) error {
	if !tx.scope[c.Name] {
		return scopeError("access to", c.Name)
	}
	if write && !tx.write {
		return fmt.Errorf("store: write to %s: %w", c.Name, ErrReadOnly)
	}
	for _, f := range fields {
		if !c.has(f) {
			return fmt.Errorf("store: %s has no field %q", c.Name, f)
		}
	}
	return nil
}

// Get loads the row with the given id and hands it to scan.
// Returns ErrNoRecord when no row matches.
func (tx *Tx) Get(ctx context.Context, c *Collection, id string, scan func(Row) error) error {
	if err := tx.check(c, false); err != nil {
		return err
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", strings.Join(c.Columns, ", "), c.Name)
	row := tx.q.QueryRowContext(ctx, tx.dialect.rebind(q), id)
	if err := scan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoRecord
		}
		return &domain.StorageError{Op: "get", Entity: c.Name, ID: id, Err: err}
	}
	return nil
}

// Find runs q against c and calls scan once per matching row.
func (tx *Tx) Find(ctx context.Context, c *Collection, q Query, scan func(Row) error) error {
	fields := make([]string, 0, len(q.Where)+len(q.OrderBy))
	for _, w := range q.Where {
		fields = append(fields, w.Field)
	}
	fields = append(fields, q.OrderBy...)
	if err := tx.check(c, false, fields...); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(c.Columns, ", "), c.Name)
	where, args := whereClause(q.Where)
	b.WriteString(where)
	if len(q.OrderBy) > 0 {
		dir := ""
		if q.Desc {
			dir = " DESC"
		}
		order := make([]string, len(q.OrderBy))
		for i, f := range q.OrderBy {
			order[i] = f + dir
		}
		b.WriteString(" ORDER BY " + strings.Join(order, ", "))
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
		if q.Offset > 0 {
			fmt.Fprintf(&b, " OFFSET %d", q.Offset)
		}
	}

	rows, err := tx.q.QueryContext(ctx, tx.dialect.rebind(b.String()), args...)
	if err != nil {
		return &domain.StorageError{Op: "find", Entity: c.Name, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return &domain.StorageError{Op: "scan", Entity: c.Name, Err: err}
		}
	}
	if err := rows.Err(); err != nil {
		return &domain.StorageError{Op: "find", Entity: c.Name, Err: err}
	}
	return nil
}

// Count returns how many rows of c match every condition.
func (tx *Tx) Count(ctx context.Context, c *Collection, where ...Cond) (int64, error) {
	fields := make([]string, len(where))
	for i, w := range where {
		fields[i] = w.Field
	}
	if err := tx.check(c, false, fields...); err != nil {
		return 0, err
	}
	clause, args := whereClause(where)
	q := "SELECT COUNT(*) FROM " + c.Name + clause

	var n int64
	if err := tx.q.QueryRowContext(ctx, tx.dialect.rebind(q), args...).Scan(&n); err != nil {
		return 0, &domain.StorageError{Op: "count", Entity: c.Name, Err: err}
	}
	return n, nil
}

// Insert writes a new row. Columns missing from values are stored as NULL.
// A unique-constraint violation is reported as domain.ErrConflict.
func (tx *Tx) Insert(ctx context.Context, c *Collection, values map[string]any) error {
	if err := tx.check(c, true, slices.Sorted(maps.Keys(values))...); err != nil {
		return err
	}
	args := make([]any, len(c.Columns))
	for i, col := range c.Columns {
		args[i] = values[col]
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		c.Name, strings.Join(c.Columns, ", "), placeholders(len(c.Columns)))

	if _, err := tx.q.ExecContext(ctx, tx.dialect.rebind(q), args...); err != nil {
		id, _ := values["id"].(string)
		if tx.dialect.isUniqueViolation(err) {
			return fmt.Errorf("store: insert %s %q: %w", c.Name, id, domain.ErrConflict)
		}
		return &domain.StorageError{Op: "insert", Entity: c.Name, ID: id, Err: err}
	}
	return nil
}

// Upsert inserts the row or, when the id exists, overwrites every other column.
func (tx *Tx) Upsert(ctx context.Context, c *Collection, values map[string]any) error {
	if err := tx.check(c, true, slices.Sorted(maps.Keys(values))...); err != nil {
		return err
	}
	args := make([]any, len(c.Columns))
	sets := make([]string, 0, len(c.Columns)-1)
	for i, col := range c.Columns {
		args[i] = values[col]
		if col != "id" {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", col, col))
		}
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		c.Name, strings.Join(c.Columns, ", "), placeholders(len(c.Columns)), strings.Join(sets, ", "))

	if _, err := tx.q.ExecContext(ctx, tx.dialect.rebind(q), args...); err != nil {
		id, _ := values["id"].(string)
		return &domain.StorageError{Op: "upsert", Entity: c.Name, ID: id, Err: err}
	}
	return nil
}

// Patch sets only the given fields on the row with id and reports whether
// such a row existed.
func (tx *Tx) Patch(ctx context.Context, c *Collection, id string, set map[string]any) (bool, error) {
	n, err := tx.patch(ctx, c, set, []Cond{Eq("id", id)})
	if err != nil {
		if se := (*domain.StorageError)(nil); errors.As(err, &se) {
			se.ID = id
		}
		return false, err
	}
	return n > 0, nil
}

// PatchWhere sets the given fields on every row matching where and returns
// the number of rows changed.
func (tx *Tx) PatchWhere(ctx context.Context, c *Collection, set map[string]any, where ...Cond) (int64, error) {
	return tx.patch(ctx, c, set, where)
}

func (tx *Tx) patch(ctx context.Context, c *Collection, set map[string]any, where []Cond) (int64, error) {
	fields := slices.Sorted(maps.Keys(set))
	check := append([]string{}, fields...)
	for _, w := range where {
		check = append(check, w.Field)
	}
	if err := tx.check(c, true, check...); err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		// Nothing to change; still report whether the row exists.
		return tx.Count(ctx, c, where...)
	}
	if slices.Contains(fields, "id") {
		return 0, fmt.Errorf("store: %s: id is immutable", c.Name)
	}

	assigns := make([]string, len(fields))
	args := make([]any, 0, len(fields)+len(where))
	for i, f := range fields {
		assigns[i] = f + " = ?"
		args = append(args, set[f])
	}
	clause, whereArgs := whereClause(where)
	args = append(args, whereArgs...)
	q := fmt.Sprintf("UPDATE %s SET %s%s", c.Name, strings.Join(assigns, ", "), clause)

	res, err := tx.q.ExecContext(ctx, tx.dialect.rebind(q), args...)
	if err != nil {
		return 0, &domain.StorageError{Op: "update", Entity: c.Name, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &domain.StorageError{Op: "update", Entity: c.Name, Err: err}
	}
	return n, nil
}

// Delete removes the row with id. Deleting a missing id is not an error.
func (tx *Tx) Delete(ctx context.Context, c *Collection, id string) error {
	if _, err := tx.DeleteWhere(ctx, c, Eq("id", id)); err != nil {
		if se := (*domain.StorageError)(nil); errors.As(err, &se) {
			se.ID = id
		}
		return err
	}
	return nil
}

// DeleteWhere removes every row matching where and returns how many went.
// At least one condition is required.
func (tx *Tx) DeleteWhere(ctx context.Context, c *Collection, where ...Cond) (int64, error) {
	if len(where) == 0 {
		return 0, fmt.Errorf("store: delete from %s without conditions", c.Name)
	}
	fields := make([]string, len(where))
	for i, w := range where {
		fields[i] = w.Field
	}
	if err := tx.check(c, true, fields...); err != nil {
		return 0, err
	}
	clause, args := whereClause(where)
	res, err := tx.q.ExecContext(ctx, tx.dialect.rebind("DELETE FROM "+c.Name+clause), args...)
	if err != nil {
		return 0, &domain.StorageError{Op: "delete", Entity: c.Name, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &domain.StorageError{Op: "delete", Entity: c.Name, Err: err}
	}
	return n, nil
}

func whereClause(where []Cond) (string, []any) {
	if len(where) == 0 {
		return "", nil
	}
	parts := make([]string, len(where))
	args := make([]any, len(where))
	for i, w := range where {
		parts[i] = w.Field + " = ?"
		args[i] = w.Value
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
