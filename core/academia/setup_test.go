package academia_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/secundaria/core/academia"
	"github.com/trezcool/secundaria/storage/database/sqlxrepo"
	"github.com/trezcool/secundaria/tests"
)

const (
	docenteDNI = 12345678
	alumnoDNI  = 44123456
)

// school is one curso with a docente teaching a materia, an examen of that dictado
// and one enrolled alumno, all created through the engine.
type school struct {
	svc     *academia.Service
	store   *sqlxrepo.Store
	log     *testutil.Logger
	curso   academia.Curso
	materia academia.Materia
	docente academia.Persona
	dictado academia.Dictado
	examen  academia.Examen
	alumno  academia.Persona
}

func setupSchool(t *testing.T, opts ...academia.Options) school {
	t.Helper()
	ctx := context.Background()
	svc, store, logger := testutil.NewService(t, opts...)
	s := school{svc: svc, store: store, log: logger}

	var err error
	s.curso, err = svc.CreateCurso(ctx, academia.NewCurso{NroLetra: "1A", Turno: academia.TurnoManana})
	require.NoError(t, err)
	s.materia, err = svc.CreateMateria(ctx, academia.NewMateria{Nombre: "Matemática"})
	require.NoError(t, err)
	s.docente, err = svc.CreatePersona(ctx, newDocente(docenteDNI, "ana@escuela.edu.ar"))
	require.NoError(t, err)
	s.dictado, err = svc.CreateDictado(ctx, academia.NewDictado{
		Anio:        2025,
		DiasCursado: "lunes y miércoles",
		CursoID:     s.curso.ID,
		MateriaID:   s.materia.ID,
		DocenteID:   docenteDNI,
	})
	require.NoError(t, err)
	fecha := academia.NewDate(2025, time.October, 15)
	s.examen, err = svc.CreateExamen(ctx, academia.NewExamen{FechaExamen: &fecha, Temas: "Sumas", Copias: 20, DictadoID: s.dictado.ID})
	require.NoError(t, err)
	s.alumno, err = svc.CreatePersona(ctx, newAlumno(alumnoDNI, "juan@escuela.edu.ar", &s.curso.ID))
	require.NoError(t, err)
	return s
}

// enroll creates another alumno of the curso straight through the store.
func (s school) enroll(t *testing.T, dni int64) academia.Persona {
	t.Helper()
	return testutil.CreateAlumno(t, s.store, dni, "Alumno", "Extra", s.curso.ID)
}

func newDocente(dni int64, email string) academia.NewPersona {
	return academia.NewPersona{
		DNI:          dni,
		Nombre:       "Ana",
		Apellido:     "Gómez",
		Telefono:     "+54 11 4444-1234",
		Direccion:    "Calle Falsa 123",
		Email:        email,
		Tipo:         academia.TipoDocente,
		Especialidad: "Matemática",
	}
}

func newAlumno(dni int64, email string, cursoID *int64) academia.NewPersona {
	return academia.NewPersona{
		DNI:       dni,
		Nombre:    "Juan",
		Apellido:  "Pérez",
		Telefono:  "(011) 4567-8901",
		Direccion: "Av. Rivadavia 5000",
		Email:     email,
		Tipo:      academia.TipoAlumno,
		CursoID:   cursoID,
	}
}
