package sqlxrepo

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core/academia"
)

const dictadoColumns = "id, anio, dias_cursado, fecha_desde, fecha_hasta, curso_id, materia_id, docente_id, created_at, updated_at"

var dictadoOrdering = map[string]string{
	"id":         "id",
	"anio":       "anio",
	"fechaDesde": "fecha_desde",
	"fechaHasta": "fecha_hasta",
	"createdAt":  "created_at",
}

func dictadoWhere(filter academia.DictadoFilter) where {
	var w where
	if filter.CursoID != nil {
		w.and("curso_id = ?", *filter.CursoID)
	}
	if filter.MateriaID != nil {
		w.and("materia_id = ?", *filter.MateriaID)
	}
	if filter.DocenteID != nil {
		w.and("docente_id = ?", *filter.DocenteID)
	}
	if filter.Anio != 0 {
		w.and("anio = ?", filter.Anio)
	}
	return w
}

func (r *repository) CreateDictado(ctx context.Context, d academia.Dictado) (academia.Dictado, error) {
	row := newDictadoRow(d)
	id, err := r.insert(ctx,
		`INSERT INTO dictados (anio, dias_cursado, fecha_desde, fecha_hasta, curso_id, materia_id, docente_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.Anio, row.DiasCursado, row.FechaDesde, row.FechaHasta, row.CursoID, row.MateriaID, row.DocenteID,
		row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return academia.Dictado{}, errors.Wrap(err, "inserting dictado")
	}
	row.ID = id
	return row.dictado(), nil
}

func (r *repository) GetDictado(ctx context.Context, id int64) (academia.Dictado, error) {
	var row dictadoRow
	if err := r.get(ctx, &row, "SELECT "+dictadoColumns+" FROM dictados WHERE id = ?", id); err != nil {
		return academia.Dictado{}, errors.Wrap(err, "selecting dictado")
	}
	return row.dictado(), nil
}

func (r *repository) ListDictados(ctx context.Context, filter academia.DictadoFilter, opts academia.ListOptions) ([]academia.Dictado, error) {
	w := dictadoWhere(filter)
	lim, limArgs := limit(opts)
	q := "SELECT " + dictadoColumns + " FROM dictados" + w.clause() + orderBy(opts.Ordering, dictadoOrdering, "anio DESC, id ASC") + lim

	var rows []dictadoRow
	if err := r.selectAll(ctx, &rows, q, append(w.args, limArgs...)...); err != nil {
		return nil, errors.Wrap(err, "selecting dictados")
	}
	dictados := make([]academia.Dictado, 0, len(rows))
	for _, row := range rows {
		dictados = append(dictados, row.dictado())
	}
	return dictados, nil
}

func (r *repository) CountDictados(ctx context.Context, filter academia.DictadoFilter) (int, error) {
	n, err := r.count(ctx, "dictados", dictadoWhere(filter))
	return n, errors.Wrap(err, "counting dictados")
}

func (r *repository) UpdateDictado(ctx context.Context, d academia.Dictado) (academia.Dictado, error) {
	row := newDictadoRow(d)
	err := r.execOne(ctx,
		`UPDATE dictados SET anio = ?, dias_cursado = ?, fecha_desde = ?, fecha_hasta = ?,
		curso_id = ?, materia_id = ?, docente_id = ?, updated_at = ? WHERE id = ?`,
		row.Anio, row.DiasCursado, row.FechaDesde, row.FechaHasta,
		row.CursoID, row.MateriaID, row.DocenteID, row.UpdatedAt, row.ID,
	)
	if err != nil {
		return academia.Dictado{}, errors.Wrap(err, "updating dictado")
	}
	return row.dictado(), nil
}

func (r *repository) DeleteDictado(ctx context.Context, id int64) error {
	return errors.Wrap(r.execOne(ctx, "DELETE FROM dictados WHERE id = ?", id), "deleting dictado")
}

func (r *repository) DetachDocente(ctx context.Context, dni int64) (int64, error) {
	n, err := r.execAffected(ctx, "UPDATE dictados SET docente_id = NULL WHERE docente_id = ?", dni)
	return n, errors.Wrap(err, "detaching docente")
}
