package sqlxrepo

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core/academia"
)

const cursoColumns = "id, nro_letra, turno, created_at, updated_at"

var cursoOrdering = map[string]string{
	"id":        "id",
	"nroLetra":  "nro_letra",
	"turno":     "turno",
	"createdAt": "created_at",
}

func cursoWhere(filter academia.CursoFilter) where {
	var w where
	w.search(filter.Search, "nro_letra")
	if filter.Turno != "" {
		w.and("turno = ?", string(filter.Turno))
	}
	return w
}

func (r *repository) CreateCurso(ctx context.Context, c academia.Curso) (academia.Curso, error) {
	id, err := r.insert(ctx,
		"INSERT INTO cursos (nro_letra, turno, created_at, updated_at) VALUES (?, ?, ?, ?)",
		c.NroLetra, string(c.Turno), c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	if err != nil {
		return academia.Curso{}, errors.Wrap(err, "inserting curso")
	}
	c.ID = id
	return c, nil
}

func (r *repository) GetCurso(ctx context.Context, id int64) (academia.Curso, error) {
	var row cursoRow
	if err := r.get(ctx, &row, "SELECT "+cursoColumns+" FROM cursos WHERE id = ?", id); err != nil {
		return academia.Curso{}, errors.Wrap(err, "selecting curso")
	}
	return row.curso(), nil
}

func (r *repository) ListCursos(ctx context.Context, filter academia.CursoFilter, opts academia.ListOptions) ([]academia.Curso, error) {
	w := cursoWhere(filter)
	lim, limArgs := limit(opts)
	q := "SELECT " + cursoColumns + " FROM cursos" + w.clause() + orderBy(opts.Ordering, cursoOrdering, "nro_letra ASC, id ASC") + lim

	var rows []cursoRow
	if err := r.selectAll(ctx, &rows, q, append(w.args, limArgs...)...); err != nil {
		return nil, errors.Wrap(err, "selecting cursos")
	}
	cursos := make([]academia.Curso, 0, len(rows))
	for _, row := range rows {
		cursos = append(cursos, row.curso())
	}
	return cursos, nil
}

func (r *repository) CountCursos(ctx context.Context, filter academia.CursoFilter) (int, error) {
	n, err := r.count(ctx, "cursos", cursoWhere(filter))
	return n, errors.Wrap(err, "counting cursos")
}

func (r *repository) UpdateCurso(ctx context.Context, c academia.Curso) (academia.Curso, error) {
	err := r.execOne(ctx,
		"UPDATE cursos SET nro_letra = ?, turno = ?, updated_at = ? WHERE id = ?",
		c.NroLetra, string(c.Turno), c.UpdatedAt.UTC(), c.ID,
	)
	if err != nil {
		return academia.Curso{}, errors.Wrap(err, "updating curso")
	}
	return c, nil
}

func (r *repository) DeleteCurso(ctx context.Context, id int64) error {
	return errors.Wrap(r.execOne(ctx, "DELETE FROM cursos WHERE id = ?", id), "deleting curso")
}
