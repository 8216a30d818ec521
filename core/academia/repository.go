package academia

import (
	"context"

	"github.com/trezcool/secundaria/core"
)

type (
	CursoFilter struct {
		Search string // nroLetra
		Turno  Turno
	}

	MateriaFilter struct {
		Search string // nombre, descripcion
	}

	PersonaFilter struct {
		Search       string // nombre, apellido, email, especialidad
		Tipo         Tipo
		CursoID      *int64
		Especialidad string
	}

	DictadoFilter struct {
		CursoID   *int64
		MateriaID *int64
		DocenteID *int64
		Anio      int
	}

	ExamenFilter struct {
		DictadoID *int64
		MateriaID *int64 // through dictado
		CursoID   *int64 // through dictado
	}

	EvaluacionFilter struct {
		ExamenID  *int64
		AlumnoID  *int64
		DictadoID *int64 // through examen
	}

	// ListOptions bounds a listing. Limit <= 0 returns every row.
	ListOptions struct {
		Limit    int
		Offset   int
		Ordering []core.DBOrdering
	}
)

// Repository is the storage contract of the engine.
// Getters return an error wrapping ErrNoRows when the row does not exist.
// Writers return errors wrapping ErrUniqueViolation / ErrForeignKeyViolation on constraint failures.
type Repository interface {
	CreateCurso(ctx context.Context, c Curso) (Curso, error)
	GetCurso(ctx context.Context, id int64) (Curso, error)
	ListCursos(ctx context.Context, filter CursoFilter, opts ListOptions) ([]Curso, error)
	CountCursos(ctx context.Context, filter CursoFilter) (int, error)
	UpdateCurso(ctx context.Context, c Curso) (Curso, error)
	DeleteCurso(ctx context.Context, id int64) error

	CreateMateria(ctx context.Context, m Materia) (Materia, error)
	GetMateria(ctx context.Context, id int64) (Materia, error)
	ListMaterias(ctx context.Context, filter MateriaFilter, opts ListOptions) ([]Materia, error)
	CountMaterias(ctx context.Context, filter MateriaFilter) (int, error)
	UpdateMateria(ctx context.Context, m Materia) (Materia, error)
	DeleteMateria(ctx context.Context, id int64) error
	// ListMateriasByCurso returns the distinct materias taught in a curso.
	ListMateriasByCurso(ctx context.Context, cursoID int64) ([]Materia, error)

	CreatePersona(ctx context.Context, p Persona) (Persona, error)
	GetPersona(ctx context.Context, dni int64) (Persona, error)
	ListPersonas(ctx context.Context, filter PersonaFilter, opts ListOptions) ([]Persona, error)
	CountPersonas(ctx context.Context, filter PersonaFilter) (int, error)
	UpdatePersona(ctx context.Context, p Persona) (Persona, error)
	DeletePersona(ctx context.Context, dni int64) error

	CreateDictado(ctx context.Context, d Dictado) (Dictado, error)
	GetDictado(ctx context.Context, id int64) (Dictado, error)
	ListDictados(ctx context.Context, filter DictadoFilter, opts ListOptions) ([]Dictado, error)
	CountDictados(ctx context.Context, filter DictadoFilter) (int, error)
	UpdateDictado(ctx context.Context, d Dictado) (Dictado, error)
	DeleteDictado(ctx context.Context, id int64) error
	// DetachDocente sets docente_id to NULL on every dictado of the docente.
	DetachDocente(ctx context.Context, dni int64) (int64, error)

	CreateExamen(ctx context.Context, e Examen) (Examen, error)
	GetExamen(ctx context.Context, id int64) (Examen, error)
	ListExamenes(ctx context.Context, filter ExamenFilter, opts ListOptions) ([]Examen, error)
	CountExamenes(ctx context.Context, filter ExamenFilter) (int, error)
	UpdateExamen(ctx context.Context, e Examen) (Examen, error)
	DeleteExamen(ctx context.Context, id int64) error

	CreateEvaluacion(ctx context.Context, e Evaluacion) (Evaluacion, error)
	GetEvaluacion(ctx context.Context, id int64) (Evaluacion, error)
	ListEvaluaciones(ctx context.Context, filter EvaluacionFilter, opts ListOptions) ([]Evaluacion, error)
	CountEvaluaciones(ctx context.Context, filter EvaluacionFilter) (int, error)
	UpdateEvaluacion(ctx context.Context, e Evaluacion) (Evaluacion, error)
	DeleteEvaluacion(ctx context.Context, id int64) error
	// DeleteEvaluaciones removes every evaluacion matching filter and returns how many were removed.
	DeleteEvaluaciones(ctx context.Context, filter EvaluacionFilter) (int64, error)
}

// Store is a Repository that can run a logical operation in one transaction.
type Store interface {
	Repository
	// InTx commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(repo Repository) error) error
}
