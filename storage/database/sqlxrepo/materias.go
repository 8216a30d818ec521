package sqlxrepo

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core/academia"
)

const materiaColumns = "id, nombre, descripcion, created_at, updated_at"

var materiaOrdering = map[string]string{
	"id":        "id",
	"nombre":    "nombre",
	"createdAt": "created_at",
}

func materiaWhere(filter academia.MateriaFilter) where {
	var w where
	w.search(filter.Search, "nombre", "COALESCE(descripcion, '')")
	return w
}

func (r *repository) CreateMateria(ctx context.Context, m academia.Materia) (academia.Materia, error) {
	id, err := r.insert(ctx,
		"INSERT INTO materias (nombre, descripcion, created_at, updated_at) VALUES (?, ?, ?, ?)",
		m.Nombre, nullString(m.Descripcion), m.CreatedAt.UTC(), m.UpdatedAt.UTC(),
	)
	if err != nil {
		return academia.Materia{}, errors.Wrap(err, "inserting materia")
	}
	m.ID = id
	return m, nil
}

func (r *repository) GetMateria(ctx context.Context, id int64) (academia.Materia, error) {
	var row materiaRow
	if err := r.get(ctx, &row, "SELECT "+materiaColumns+" FROM materias WHERE id = ?", id); err != nil {
		return academia.Materia{}, errors.Wrap(err, "selecting materia")
	}
	return row.materia(), nil
}

func (r *repository) ListMaterias(ctx context.Context, filter academia.MateriaFilter, opts academia.ListOptions) ([]academia.Materia, error) {
	w := materiaWhere(filter)
	lim, limArgs := limit(opts)
	q := "SELECT " + materiaColumns + " FROM materias" + w.clause() + orderBy(opts.Ordering, materiaOrdering, "nombre ASC, id ASC") + lim
	return r.selectMaterias(ctx, q, append(w.args, limArgs...)...)
}

func (r *repository) CountMaterias(ctx context.Context, filter academia.MateriaFilter) (int, error) {
	n, err := r.count(ctx, "materias", materiaWhere(filter))
	return n, errors.Wrap(err, "counting materias")
}

func (r *repository) ListMateriasByCurso(ctx context.Context, cursoID int64) ([]academia.Materia, error) {
	q := "SELECT " + materiaColumns + " FROM materias WHERE id IN (SELECT materia_id FROM dictados WHERE curso_id = ?) ORDER BY nombre ASC, id ASC"
	return r.selectMaterias(ctx, q, cursoID)
}

func (r *repository) selectMaterias(ctx context.Context, q string, args ...interface{}) ([]academia.Materia, error) {
	var rows []materiaRow
	if err := r.selectAll(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting materias")
	}
	materias := make([]academia.Materia, 0, len(rows))
	for _, row := range rows {
		materias = append(materias, row.materia())
	}
	return materias, nil
}

func (r *repository) UpdateMateria(ctx context.Context, m academia.Materia) (academia.Materia, error) {
	err := r.execOne(ctx,
		"UPDATE materias SET nombre = ?, descripcion = ?, updated_at = ? WHERE id = ?",
		m.Nombre, nullString(m.Descripcion), m.UpdatedAt.UTC(), m.ID,
	)
	if err != nil {
		return academia.Materia{}, errors.Wrap(err, "updating materia")
	}
	return m, nil
}

func (r *repository) DeleteMateria(ctx context.Context, id int64) error {
	return errors.Wrap(r.execOne(ctx, "DELETE FROM materias WHERE id = ?", id), "deleting materia")
}
