package sqlxrepo

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core"
	"github.com/trezcool/secundaria/core/academia"
)

// Store implements academia.Store on top of sqlx. It speaks both postgres and sqlite3.
type Store struct {
	*repository
	db core.DB
}

var _ academia.Store = (*Store)(nil) // interface compliance check

// NewStore wraps db. A positive timeout bounds every transaction and every standalone query.
func NewStore(db core.DB, timeout time.Duration) *Store {
	return &Store{
		repository: &repository{exec: db, timeout: timeout},
		db:         db,
	}
}

func (s *Store) InTx(ctx context.Context, fn func(repo academia.Repository) error) (err error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(&repository{exec: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Wrapf(err, "rolling back: %v", rbErr)
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(mapErr(err), "committing transaction")
	}
	return nil
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return errors.Wrap(s.db.PingContext(ctx), "pinging database")
}

// Close releases the database handle. The store is unusable afterwards.
func (s *Store) Close() error {
	return errors.Wrap(s.db.Close(), "closing database")
}

// Stats counts the stored rows of each entity kind.
func (s *Store) Stats(ctx context.Context) (map[academia.EntityKind]int, error) {
	counters := []struct {
		kind  academia.EntityKind
		count func() (int, error)
	}{
		{academia.EntityCurso, func() (int, error) { return s.CountCursos(ctx, academia.CursoFilter{}) }},
		{academia.EntityMateria, func() (int, error) { return s.CountMaterias(ctx, academia.MateriaFilter{}) }},
		{academia.EntityPersona, func() (int, error) { return s.CountPersonas(ctx, academia.PersonaFilter{}) }},
		{academia.EntityDictado, func() (int, error) { return s.CountDictados(ctx, academia.DictadoFilter{}) }},
		{academia.EntityExamen, func() (int, error) { return s.CountExamenes(ctx, academia.ExamenFilter{}) }},
		{academia.EntityEvaluacion, func() (int, error) { return s.CountEvaluaciones(ctx, academia.EvaluacionFilter{}) }},
	}
	stats := make(map[academia.EntityKind]int, len(counters))
	for _, c := range counters {
		n, err := c.count()
		if err != nil {
			return nil, errors.Wrapf(err, "counting %s", c.kind)
		}
		stats[c.kind] = n
	}
	return stats, nil
}

// repository runs the queries on the pool or on a transaction.
type repository struct {
	exec    core.DBExecutor
	timeout time.Duration // 0 inside transactions: InTx already bounds them
}

func (r *repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return ctx, func() {}
}

func (r *repository) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return mapErr(sqlx.GetContext(ctx, r.exec, dest, r.exec.Rebind(query), args...))
}

func (r *repository) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return mapErr(sqlx.SelectContext(ctx, r.exec, dest, r.exec.Rebind(query), args...))
}

// execAffected runs a write and returns the number of affected rows.
func (r *repository) execAffected(ctx context.Context, query string, args ...interface{}) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.exec.ExecContext(ctx, r.exec.Rebind(query), args...)
	if err != nil {
		return 0, mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "reading affected rows")
	}
	return n, nil
}

// execOne runs a write that must touch exactly one row.
func (r *repository) execOne(ctx context.Context, query string, args ...interface{}) error {
	n, err := r.execAffected(ctx, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.WithStack(academia.ErrNoRows)
	}
	return nil
}

// insert runs an INSERT ... RETURNING id.
func (r *repository) insert(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var id int64
	if err := r.get(ctx, &id, query+" RETURNING id", args...); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) count(ctx context.Context, from string, w where) (int, error) {
	var n int
	err := r.get(ctx, &n, "SELECT COUNT(*) FROM "+from+w.clause(), w.args...)
	return n, err
}

// constraintError keeps the driver error while matching an academia sentinel with errors.Is.
type constraintError struct {
	sentinel error
	cause    error
}

func (e constraintError) Error() string        { return e.sentinel.Error() + ": " + e.cause.Error() }
func (e constraintError) Unwrap() error        { return e.cause }
func (e constraintError) Is(target error) bool { return target == e.sentinel }

// mapErr translates driver errors into the academia storage sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.WithStack(academia.ErrNoRows)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return errors.WithStack(constraintError{academia.ErrUniqueViolation, err})
		case "23503": // foreign_key_violation
			return errors.WithStack(constraintError{academia.ErrForeignKeyViolation, err})
		}
		return errors.WithStack(err)
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return errors.WithStack(constraintError{academia.ErrUniqueViolation, err})
		case sqlite3.ErrConstraintForeignKey:
			return errors.WithStack(constraintError{academia.ErrForeignKeyViolation, err})
		}
	}
	return errors.WithStack(err)
}

// where accumulates AND-ed conditions written with `?` placeholders.
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) and(cond string, args ...interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains returns the LIKE pattern matching term anywhere, lowercased.
func contains(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// search adds a case-insensitive substring match on any of cols.
// On sqlite3, LOWER is the unicode aware function registered by the database package.
func (w *where) search(term string, cols ...string) {
	term = core.CleanString(term)
	if term == "" {
		return
	}
	like := contains(term)
	ors := make([]string, 0, len(cols))
	for _, col := range cols {
		ors = append(ors, "LOWER("+col+") LIKE ? ESCAPE '\\'")
		w.args = append(w.args, like)
	}
	w.conds = append(w.conds, "("+strings.Join(ors, " OR ")+")")
}

func (w where) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// orderBy maps API field names to columns; unknown fields are ignored.
// def is always appended as a tie-break.
func orderBy(ordering []core.DBOrdering, columns map[string]string, def string) string {
	parts := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		if col, ok := columns[ord.Field]; ok {
			parts = append(parts, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	parts = append(parts, def)
	return " ORDER BY " + strings.Join(parts, ", ")
}

func limit(opts academia.ListOptions) (string, []interface{}) {
	if opts.Limit <= 0 {
		return "", nil
	}
	return " LIMIT ? OFFSET ?", []interface{}{opts.Limit, opts.Offset}
}
