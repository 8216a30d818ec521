package academia

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Turno is the shift a Curso attends.
type Turno string

const (
	TurnoManana Turno = "MAÑANA"
	TurnoTarde  Turno = "TARDE"
	TurnoNoche  Turno = "NOCHE"
)

var Turnos = []Turno{TurnoManana, TurnoTarde, TurnoNoche}

func (t Turno) Valid() bool {
	for _, v := range Turnos {
		if t == v {
			return true
		}
	}
	return false
}

// Tipo discriminates Persona roles.
type Tipo string

const (
	TipoAlumno  Tipo = "alumno"
	TipoDocente Tipo = "docente"
)

func (t Tipo) Valid() bool { return t == TipoAlumno || t == TipoDocente }

type Curso struct {
	ID        int64     `json:"id"`
	NroLetra  string    `json:"nroLetra"`
	Turno     Turno     `json:"turno"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC

	// relations
	Alumnos  []Persona `json:"alumnos,omitempty"`
	Dictados []Dictado `json:"dictados,omitempty"`
}

type Materia struct {
	ID          int64     `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Dictados []Dictado `json:"dictados,omitempty"`
}

// Rol is the role-specific part of a Persona: either Alumno or Docente.
type Rol interface {
	Tipo() Tipo
	isRol()
}

// Alumno is a student, optionally enrolled in one Curso.
type Alumno struct {
	CursoID *int64
}

func (Alumno) Tipo() Tipo { return TipoAlumno }
func (Alumno) isRol()     {}

// Docente is a teacher.
type Docente struct {
	Especialidad string
}

func (Docente) Tipo() Tipo { return TipoDocente }
func (Docente) isRol()     {}

type Persona struct {
	DNI       int64
	Nombre    string
	Apellido  string
	Telefono  string
	Direccion string
	Email     string
	Rol       Rol
	CreatedAt time.Time
	UpdatedAt time.Time

	// relations
	Curso *Curso
}

func (p Persona) Tipo() Tipo {
	if p.Rol == nil {
		return ""
	}
	return p.Rol.Tipo()
}

func (p Persona) IsAlumno() bool  { return p.Tipo() == TipoAlumno }
func (p Persona) IsDocente() bool { return p.Tipo() == TipoDocente }

// CursoID returns the enrolled curso of an alumno; nil for docentes and unenrolled alumnos.
func (p Persona) CursoID() *int64 {
	if a, ok := p.Rol.(Alumno); ok {
		return a.CursoID
	}
	return nil
}

// Especialidad returns the specialty of a docente; empty for alumnos.
func (p Persona) Especialidad() string {
	if d, ok := p.Rol.(Docente); ok {
		return d.Especialidad
	}
	return ""
}

type personaJSON struct {
	DNI          int64     `json:"dni"`
	Nombre       string    `json:"nombre"`
	Apellido     string    `json:"apellido"`
	Telefono     string    `json:"telefono"`
	Direccion    string    `json:"direccion"`
	Email        string    `json:"email"`
	Tipo         Tipo      `json:"tipo"`
	CursoID      *int64    `json:"cursoId,omitempty"`
	Especialidad string    `json:"especialidad,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Curso        *Curso    `json:"curso,omitempty"`
}

// MarshalJSON flattens the role into `tipo` plus its only legal field.
func (p Persona) MarshalJSON() ([]byte, error) {
	return json.Marshal(personaJSON{
		DNI:          p.DNI,
		Nombre:       p.Nombre,
		Apellido:     p.Apellido,
		Telefono:     p.Telefono,
		Direccion:    p.Direccion,
		Email:        p.Email,
		Tipo:         p.Tipo(),
		CursoID:      p.CursoID(),
		Especialidad: p.Especialidad(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Curso:        p.Curso,
	})
}

func (p *Persona) UnmarshalJSON(data []byte) error {
	var pj personaJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return err
	}
	rol, err := NewRol(pj.Tipo, pj.CursoID, pj.Especialidad)
	if err != nil {
		return err
	}
	*p = Persona{
		DNI:       pj.DNI,
		Nombre:    pj.Nombre,
		Apellido:  pj.Apellido,
		Telefono:  pj.Telefono,
		Direccion: pj.Direccion,
		Email:     pj.Email,
		Rol:       rol,
		CreatedAt: pj.CreatedAt,
		UpdatedAt: pj.UpdatedAt,
		Curso:     pj.Curso,
	}
	return nil
}

// NewRol builds the role variant of a stored persona row.
// It refuses rows where a field of the other role is set.
func NewRol(tipo Tipo, cursoID *int64, especialidad string) (Rol, error) {
	switch tipo {
	case TipoAlumno:
		if especialidad != "" {
			return nil, errors.New("alumno cannot have an especialidad")
		}
		return Alumno{CursoID: cursoID}, nil
	case TipoDocente:
		if cursoID != nil {
			return nil, errors.New("docente cannot have a curso")
		}
		return Docente{Especialidad: especialidad}, nil
	default:
		return nil, errors.Errorf("unknown persona tipo %q", tipo)
	}
}

type Dictado struct {
	ID          int64      `json:"id"`
	Anio        int        `json:"anio"`
	DiasCursado string     `json:"diasCursado"`
	FechaDesde  *time.Time `json:"fechaDesde,omitempty"`
	FechaHasta  *time.Time `json:"fechaHasta,omitempty"`
	CursoID     int64      `json:"cursoId"`
	MateriaID   int64      `json:"materiaId"`
	DocenteID   *int64     `json:"docenteId"` // nil once its docente was deleted
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// relations
	Curso    *Curso   `json:"curso,omitempty"`
	Materia  *Materia `json:"materia,omitempty"`
	Docente  *Persona `json:"docente,omitempty"`
	Examenes []Examen `json:"examenes,omitempty"`
}

type Examen struct {
	ID          int64     `json:"id"`
	FechaExamen time.Time `json:"fechaExamen"`
	Temas       string    `json:"temas"`
	Copias      int       `json:"copias"`
	DictadoID   int64     `json:"dictadoId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// relations
	Dictado      *Dictado     `json:"dictado,omitempty"`
	Evaluaciones []Evaluacion `json:"evaluaciones,omitempty"`
}

type Evaluacion struct {
	ID          int64     `json:"id"`
	Nota        float64   `json:"nota"`
	Observacion string    `json:"observacion,omitempty"`
	ExamenID    int64     `json:"examenId"`
	AlumnoID    int64     `json:"alumnoId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// relations
	Examen *Examen  `json:"examen,omitempty"`
	Alumno *Persona `json:"alumno,omitempty"`
}

// EntityKind names the six record kinds of the engine.
type EntityKind string

const (
	EntityCurso      EntityKind = "curso"
	EntityMateria    EntityKind = "materia"
	EntityPersona    EntityKind = "persona"
	EntityDictado    EntityKind = "dictado"
	EntityExamen     EntityKind = "examen"
	EntityEvaluacion EntityKind = "evaluacion"
)

var EntityKinds = []EntityKind{EntityCurso, EntityMateria, EntityPersona, EntityDictado, EntityExamen, EntityEvaluacion}

func ParseEntityKind(s string) (EntityKind, bool) {
	for _, k := range EntityKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

func int64Ptr(i int64) *int64 { return &i }
