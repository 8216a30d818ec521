package sqlxrepo

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core/academia"
)

const examenColumns = "id, fecha_examen, temas, copias, dictado_id, created_at, updated_at"

var examenOrdering = map[string]string{
	"id":          "id",
	"fechaExamen": "fecha_examen",
	"copias":      "copias",
	"createdAt":   "created_at",
}

func examenWhere(filter academia.ExamenFilter) where {
	var w where
	if filter.DictadoID != nil {
		w.and("dictado_id = ?", *filter.DictadoID)
	}
	if filter.MateriaID != nil {
		w.and("dictado_id IN (SELECT id FROM dictados WHERE materia_id = ?)", *filter.MateriaID)
	}
	if filter.CursoID != nil {
		w.and("dictado_id IN (SELECT id FROM dictados WHERE curso_id = ?)", *filter.CursoID)
	}
	return w
}

func (r *repository) CreateExamen(ctx context.Context, e academia.Examen) (academia.Examen, error) {
	e.FechaExamen = academia.DateOf(e.FechaExamen).Time
	id, err := r.insert(ctx,
		"INSERT INTO examenes (fecha_examen, temas, copias, dictado_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		e.FechaExamen, e.Temas, e.Copias, e.DictadoID, e.CreatedAt.UTC(), e.UpdatedAt.UTC(),
	)
	if err != nil {
		return academia.Examen{}, errors.Wrap(err, "inserting examen")
	}
	e.ID = id
	return e, nil
}

func (r *repository) GetExamen(ctx context.Context, id int64) (academia.Examen, error) {
	var row examenRow
	if err := r.get(ctx, &row, "SELECT "+examenColumns+" FROM examenes WHERE id = ?", id); err != nil {
		return academia.Examen{}, errors.Wrap(err, "selecting examen")
	}
	return row.examen(), nil
}

func (r *repository) ListExamenes(ctx context.Context, filter academia.ExamenFilter, opts academia.ListOptions) ([]academia.Examen, error) {
	w := examenWhere(filter)
	lim, limArgs := limit(opts)
	q := "SELECT " + examenColumns + " FROM examenes" + w.clause() + orderBy(opts.Ordering, examenOrdering, "fecha_examen ASC, id ASC") + lim

	var rows []examenRow
	if err := r.selectAll(ctx, &rows, q, append(w.args, limArgs...)...); err != nil {
		return nil, errors.Wrap(err, "selecting examenes")
	}
	examenes := make([]academia.Examen, 0, len(rows))
	for _, row := range rows {
		examenes = append(examenes, row.examen())
	}
	return examenes, nil
}

func (r *repository) CountExamenes(ctx context.Context, filter academia.ExamenFilter) (int, error) {
	n, err := r.count(ctx, "examenes", examenWhere(filter))
	return n, errors.Wrap(err, "counting examenes")
}

func (r *repository) UpdateExamen(ctx context.Context, e academia.Examen) (academia.Examen, error) {
	e.FechaExamen = academia.DateOf(e.FechaExamen).Time
	err := r.execOne(ctx,
		"UPDATE examenes SET fecha_examen = ?, temas = ?, copias = ?, dictado_id = ?, updated_at = ? WHERE id = ?",
		e.FechaExamen, e.Temas, e.Copias, e.DictadoID, e.UpdatedAt.UTC(), e.ID,
	)
	if err != nil {
		return academia.Examen{}, errors.Wrap(err, "updating examen")
	}
	return e, nil
}

func (r *repository) DeleteExamen(ctx context.Context, id int64) error {
	return errors.Wrap(r.execOne(ctx, "DELETE FROM examenes WHERE id = ?", id), "deleting examen")
}
