package sqlxrepo

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core/academia"
)

const evaluacionColumns = "id, nota, observacion, examen_id, alumno_id, created_at, updated_at"

var evaluacionOrdering = map[string]string{
	"id":        "id",
	"nota":      "nota",
	"createdAt": "created_at",
}

func evaluacionWhere(filter academia.EvaluacionFilter) where {
	var w where
	if filter.ExamenID != nil {
		w.and("examen_id = ?", *filter.ExamenID)
	}
	if filter.AlumnoID != nil {
		w.and("alumno_id = ?", *filter.AlumnoID)
	}
	if filter.DictadoID != nil {
		w.and("examen_id IN (SELECT id FROM examenes WHERE dictado_id = ?)", *filter.DictadoID)
	}
	return w
}

func (r *repository) CreateEvaluacion(ctx context.Context, e academia.Evaluacion) (academia.Evaluacion, error) {
	id, err := r.insert(ctx,
		"INSERT INTO evaluaciones (nota, observacion, examen_id, alumno_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		e.Nota, nullString(e.Observacion), e.ExamenID, e.AlumnoID, e.CreatedAt.UTC(), e.UpdatedAt.UTC(),
	)
	if err != nil {
		return academia.Evaluacion{}, errors.Wrap(err, "inserting evaluacion")
	}
	e.ID = id
	return e, nil
}

func (r *repository) GetEvaluacion(ctx context.Context, id int64) (academia.Evaluacion, error) {
	var row evaluacionRow
	if err := r.get(ctx, &row, "SELECT "+evaluacionColumns+" FROM evaluaciones WHERE id = ?", id); err != nil {
		return academia.Evaluacion{}, errors.Wrap(err, "selecting evaluacion")
	}
	return row.evaluacion(), nil
}

func (r *repository) ListEvaluaciones(ctx context.Context, filter academia.EvaluacionFilter, opts academia.ListOptions) ([]academia.Evaluacion, error) {
	w := evaluacionWhere(filter)
	lim, limArgs := limit(opts)
	q := "SELECT " + evaluacionColumns + " FROM evaluaciones" + w.clause() + orderBy(opts.Ordering, evaluacionOrdering, "id ASC") + lim

	var rows []evaluacionRow
	if err := r.selectAll(ctx, &rows, q, append(w.args, limArgs...)...); err != nil {
		return nil, errors.Wrap(err, "selecting evaluaciones")
	}
	evals := make([]academia.Evaluacion, 0, len(rows))
	for _, row := range rows {
		evals = append(evals, row.evaluacion())
	}
	return evals, nil
}

func (r *repository) CountEvaluaciones(ctx context.Context, filter academia.EvaluacionFilter) (int, error) {
	n, err := r.count(ctx, "evaluaciones", evaluacionWhere(filter))
	return n, errors.Wrap(err, "counting evaluaciones")
}

func (r *repository) UpdateEvaluacion(ctx context.Context, e academia.Evaluacion) (academia.Evaluacion, error) {
	err := r.execOne(ctx,
		"UPDATE evaluaciones SET nota = ?, observacion = ?, examen_id = ?, alumno_id = ?, updated_at = ? WHERE id = ?",
		e.Nota, nullString(e.Observacion), e.ExamenID, e.AlumnoID, e.UpdatedAt.UTC(), e.ID,
	)
	if err != nil {
		return academia.Evaluacion{}, errors.Wrap(err, "updating evaluacion")
	}
	return e, nil
}

func (r *repository) DeleteEvaluacion(ctx context.Context, id int64) error {
	return errors.Wrap(r.execOne(ctx, "DELETE FROM evaluaciones WHERE id = ?", id), "deleting evaluacion")
}

func (r *repository) DeleteEvaluaciones(ctx context.Context, filter academia.EvaluacionFilter) (int64, error) {
	w := evaluacionWhere(filter)
	n, err := r.execAffected(ctx, "DELETE FROM evaluaciones"+w.clause(), w.args...)
	return n, errors.Wrap(err, "deleting evaluaciones")
}
