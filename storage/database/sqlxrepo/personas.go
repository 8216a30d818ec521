package sqlxrepo

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core"
	"github.com/trezcool/secundaria/core/academia"
)

const personaColumns = "dni, nombre, apellido, telefono, direccion, email, tipo, curso_id, especialidad, created_at, updated_at"

var personaOrdering = map[string]string{
	"dni":       "dni",
	"nombre":    "nombre",
	"apellido":  "apellido",
	"email":     "email",
	"createdAt": "created_at",
}

func personaWhere(filter academia.PersonaFilter) where {
	var w where
	w.search(filter.Search, "nombre", "apellido", "email", "COALESCE(especialidad, '')")
	if filter.Tipo != "" {
		w.and("tipo = ?", string(filter.Tipo))
	}
	if filter.CursoID != nil {
		w.and("curso_id = ?", *filter.CursoID)
	}
	if esp := core.CleanString(filter.Especialidad); esp != "" {
		w.and(`LOWER(especialidad) LIKE ? ESCAPE '\'`, contains(esp))
	}
	return w
}

func (r *repository) CreatePersona(ctx context.Context, p academia.Persona) (academia.Persona, error) {
	row := newPersonaRow(p)
	_, err := r.execAffected(ctx,
		"INSERT INTO personas ("+personaColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		row.DNI, row.Nombre, row.Apellido, row.Telefono, row.Direccion, row.Email, row.Tipo,
		row.CursoID, row.Especialidad, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return academia.Persona{}, errors.Wrap(err, "inserting persona")
	}
	return p, nil
}

func (r *repository) GetPersona(ctx context.Context, dni int64) (academia.Persona, error) {
	var row personaRow
	if err := r.get(ctx, &row, "SELECT "+personaColumns+" FROM personas WHERE dni = ?", dni); err != nil {
		return academia.Persona{}, errors.Wrap(err, "selecting persona")
	}
	return row.persona()
}

func (r *repository) ListPersonas(ctx context.Context, filter academia.PersonaFilter, opts academia.ListOptions) ([]academia.Persona, error) {
	w := personaWhere(filter)
	lim, limArgs := limit(opts)
	q := "SELECT " + personaColumns + " FROM personas" + w.clause() + orderBy(opts.Ordering, personaOrdering, "apellido ASC, nombre ASC, dni ASC") + lim

	var rows []personaRow
	if err := r.selectAll(ctx, &rows, q, append(w.args, limArgs...)...); err != nil {
		return nil, errors.Wrap(err, "selecting personas")
	}
	personas := make([]academia.Persona, 0, len(rows))
	for _, row := range rows {
		p, err := row.persona()
		if err != nil {
			return nil, err
		}
		personas = append(personas, p)
	}
	return personas, nil
}

func (r *repository) CountPersonas(ctx context.Context, filter academia.PersonaFilter) (int, error) {
	n, err := r.count(ctx, "personas", personaWhere(filter))
	return n, errors.Wrap(err, "counting personas")
}

// UpdatePersona never touches dni nor tipo.
func (r *repository) UpdatePersona(ctx context.Context, p academia.Persona) (academia.Persona, error) {
	row := newPersonaRow(p)
	err := r.execOne(ctx,
		`UPDATE personas SET nombre = ?, apellido = ?, telefono = ?, direccion = ?, email = ?,
		curso_id = ?, especialidad = ?, updated_at = ? WHERE dni = ?`,
		row.Nombre, row.Apellido, row.Telefono, row.Direccion, row.Email,
		row.CursoID, row.Especialidad, row.UpdatedAt, row.DNI,
	)
	if err != nil {
		return academia.Persona{}, errors.Wrap(err, "updating persona")
	}
	return p, nil
}

func (r *repository) DeletePersona(ctx context.Context, dni int64) error {
	return errors.Wrap(r.execOne(ctx, "DELETE FROM personas WHERE dni = ?", dni), "deleting persona")
}
