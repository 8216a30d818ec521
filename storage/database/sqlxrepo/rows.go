package sqlxrepo

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/secundaria/core/academia"
)

type cursoRow struct {
	ID        int64     `db:"id"`
	NroLetra  string    `db:"nro_letra"`
	Turno     string    `db:"turno"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r cursoRow) curso() academia.Curso {
	return academia.Curso{
		ID:        r.ID,
		NroLetra:  r.NroLetra,
		Turno:     academia.Turno(r.Turno),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type materiaRow struct {
	ID          int64       `db:"id"`
	Nombre      string      `db:"nombre"`
	Descripcion null.String `db:"descripcion"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r materiaRow) materia() academia.Materia {
	return academia.Materia{
		ID:          r.ID,
		Nombre:      r.Nombre,
		Descripcion: r.Descripcion.String,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type personaRow struct {
	DNI          int64       `db:"dni"`
	Nombre       string      `db:"nombre"`
	Apellido     string      `db:"apellido"`
	Telefono     string      `db:"telefono"`
	Direccion    string      `db:"direccion"`
	Email        string      `db:"email"`
	Tipo         string      `db:"tipo"`
	CursoID      null.Int64  `db:"curso_id"`
	Especialidad null.String `db:"especialidad"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func newPersonaRow(p academia.Persona) personaRow {
	esp := p.Especialidad()
	return personaRow{
		DNI:          p.DNI,
		Nombre:       p.Nombre,
		Apellido:     p.Apellido,
		Telefono:     p.Telefono,
		Direccion:    p.Direccion,
		Email:        p.Email,
		Tipo:         string(p.Tipo()),
		CursoID:      null.Int64FromPtr(p.CursoID()),
		Especialidad: null.NewString(esp, p.IsDocente() && esp != ""),
		CreatedAt:    p.CreatedAt.UTC(),
		UpdatedAt:    p.UpdatedAt.UTC(),
	}
}

func (r personaRow) persona() (academia.Persona, error) {
	rol, err := academia.NewRol(academia.Tipo(r.Tipo), r.CursoID.Ptr(), r.Especialidad.String)
	if err != nil {
		return academia.Persona{}, errors.Wrapf(err, "persona %d", r.DNI)
	}
	return academia.Persona{
		DNI:       r.DNI,
		Nombre:    r.Nombre,
		Apellido:  r.Apellido,
		Telefono:  r.Telefono,
		Direccion: r.Direccion,
		Email:     r.Email,
		Rol:       rol,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}, nil
}

type dictadoRow struct {
	ID          int64      `db:"id"`
	Anio        int        `db:"anio"`
	DiasCursado string     `db:"dias_cursado"`
	FechaDesde  null.Time  `db:"fecha_desde"`
	FechaHasta  null.Time  `db:"fecha_hasta"`
	CursoID     int64      `db:"curso_id"`
	MateriaID   int64      `db:"materia_id"`
	DocenteID   null.Int64 `db:"docente_id"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func newDictadoRow(d academia.Dictado) dictadoRow {
	return dictadoRow{
		ID:          d.ID,
		Anio:        d.Anio,
		DiasCursado: d.DiasCursado,
		FechaDesde:  nullDate(d.FechaDesde),
		FechaHasta:  nullDate(d.FechaHasta),
		CursoID:     d.CursoID,
		MateriaID:   d.MateriaID,
		DocenteID:   null.Int64FromPtr(d.DocenteID),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r dictadoRow) dictado() academia.Dictado {
	return academia.Dictado{
		ID:          r.ID,
		Anio:        r.Anio,
		DiasCursado: r.DiasCursado,
		FechaDesde:  datePtr(r.FechaDesde),
		FechaHasta:  datePtr(r.FechaHasta),
		CursoID:     r.CursoID,
		MateriaID:   r.MateriaID,
		DocenteID:   r.DocenteID.Ptr(),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type examenRow struct {
	ID          int64     `db:"id"`
	FechaExamen time.Time `db:"fecha_examen"`
	Temas       string    `db:"temas"`
	Copias      int       `db:"copias"`
	DictadoID   int64     `db:"dictado_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r examenRow) examen() academia.Examen {
	return academia.Examen{
		ID:          r.ID,
		FechaExamen: academia.DateOf(r.FechaExamen).Time,
		Temas:       r.Temas,
		Copias:      r.Copias,
		DictadoID:   r.DictadoID,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type evaluacionRow struct {
	ID          int64       `db:"id"`
	Nota        float64     `db:"nota"`
	Observacion null.String `db:"observacion"`
	ExamenID    int64       `db:"examen_id"`
	AlumnoID    int64       `db:"alumno_id"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r evaluacionRow) evaluacion() academia.Evaluacion {
	return academia.Evaluacion{
		ID:          r.ID,
		Nota:        r.Nota,
		Observacion: r.Observacion.String,
		ExamenID:    r.ExamenID,
		AlumnoID:    r.AlumnoID,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

// nullDate stores the UTC day of t.
func nullDate(t *time.Time) null.Time {
	if t == nil {
		return null.Time{}
	}
	return null.TimeFrom(academia.DateOf(*t).Time)
}

func datePtr(t null.Time) *time.Time {
	if !t.Valid {
		return nil
	}
	d := academia.DateOf(t.Time).Time
	return &d
}

// nullString stores empty strings as NULL.
func nullString(s string) null.String {
	return null.NewString(s, s != "")
}
