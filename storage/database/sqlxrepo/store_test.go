package sqlxrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/secundaria/core/academia"
	"github.com/trezcool/secundaria/tests"
)

func TestStore_constraints(t *testing.T) {
	ctx := context.Background()
	store := testutil.OpenStore(t)
	curso := testutil.CreateCurso(t, store, "1A", academia.TurnoManana)
	materia := testutil.CreateMateria(t, store, "Química")
	docente := testutil.CreateDocente(t, store, 12345678, "Ana", "Gómez", "")
	alumno := testutil.CreateAlumno(t, store, 44123456, "Juan", "Pérez", curso.ID)
	dictado := testutil.CreateDictado(t, store, curso.ID, materia.ID, docente.DNI)
	examen := testutil.CreateExamen(t, store, dictado.ID, testutil.Date(2025, 10, 15))
	testutil.CreateEvaluacion(t, store, examen.ID, alumno.DNI, 8)
	now := time.Now().UTC()

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{
			name: "duplicate evaluacion",
			run: func() error {
				_, err := store.CreateEvaluacion(ctx, academia.Evaluacion{Nota: 3, ExamenID: examen.ID, AlumnoID: alumno.DNI, CreatedAt: now, UpdatedAt: now})
				return err
			},
			wantErr: academia.ErrUniqueViolation,
		},
		{
			name: "duplicate curso",
			run: func() error {
				_, err := store.CreateCurso(ctx, academia.Curso{NroLetra: "1A", Turno: academia.TurnoTarde, CreatedAt: now, UpdatedAt: now})
				return err
			},
			wantErr: academia.ErrUniqueViolation,
		},
		{
			name: "duplicate dni",
			run: func() error {
				_, err := store.CreatePersona(ctx, academia.Persona{
					DNI: alumno.DNI, Nombre: "Otro", Apellido: "Alumno", Telefono: "1234567", Direccion: "Calle 1",
					Email: "otro@test.ar", Rol: academia.Alumno{}, CreatedAt: now, UpdatedAt: now,
				})
				return err
			},
			wantErr: academia.ErrUniqueViolation,
		},
		{
			name: "examen of a missing dictado",
			run: func() error {
				_, err := store.CreateExamen(ctx, academia.Examen{FechaExamen: now, Temas: "Tabla periódica", DictadoID: 999, CreatedAt: now, UpdatedAt: now})
				return err
			},
			wantErr: academia.ErrForeignKeyViolation,
		},
		{
			name:    "deleting a referenced materia",
			run:     func() error { return store.DeleteMateria(ctx, materia.ID) },
			wantErr: academia.ErrForeignKeyViolation,
		},
		{
			name:    "missing curso",
			run:     func() error { _, err := store.GetCurso(ctx, 999); return err },
			wantErr: academia.ErrNoRows,
		},
		{
			name:    "missing persona",
			run:     func() error { _, err := store.GetPersona(ctx, 99999999); return err },
			wantErr: academia.ErrNoRows,
		},
		{
			name: "updating a missing examen",
			run: func() error {
				_, err := store.UpdateExamen(ctx, academia.Examen{ID: 999, FechaExamen: now, Temas: "Tabla periódica", DictadoID: dictado.ID, UpdatedAt: now})
				return err
			},
			wantErr: academia.ErrNoRows,
		},
		{
			name:    "deleting a missing evaluacion",
			run:     func() error { return store.DeleteEvaluacion(ctx, 999) },
			wantErr: academia.ErrNoRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestStore_InTx(t *testing.T) {
	ctx := context.Background()
	store := testutil.OpenStore(t)
	now := time.Now().UTC()
	boom := errors.New("boom")

	err := store.InTx(ctx, func(repo academia.Repository) error {
		if _, err := repo.CreateCurso(ctx, academia.Curso{NroLetra: "1A", Turno: academia.TurnoManana, CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		return boom
	})
	assert.Equal(t, boom, errors.Cause(err))
	n, err := store.CountCursos(ctx, academia.CursoFilter{})
	require.NoError(t, err)
	assert.Zero(t, n, "rolled back")

	assert.Panics(t, func() {
		_ = store.InTx(ctx, func(repo academia.Repository) error {
			_, _ = repo.CreateCurso(ctx, academia.Curso{NroLetra: "1B", Turno: academia.TurnoManana, CreatedAt: now, UpdatedAt: now})
			panic("oops")
		})
	})
	n, err = store.CountCursos(ctx, academia.CursoFilter{})
	require.NoError(t, err)
	assert.Zero(t, n, "rolled back after panic")

	var created academia.Curso
	err = store.InTx(ctx, func(repo academia.Repository) error {
		created, err = repo.CreateCurso(ctx, academia.Curso{NroLetra: "1C", Turno: academia.TurnoTarde, CreatedAt: now, UpdatedAt: now})
		return err
	})
	require.NoError(t, err)
	got, err := store.GetCurso(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "1C", got.NroLetra)
	assert.WithinDuration(t, now, got.CreatedAt, time.Second)
}

func TestStore_rows(t *testing.T) {
	ctx := context.Background()
	store := testutil.OpenStore(t)
	curso := testutil.CreateCurso(t, store, "1A", academia.TurnoManana)
	materia := testutil.CreateMateria(t, store, "Química")
	fisica := testutil.CreateMateria(t, store, "Física")
	docente := testutil.CreateDocente(t, store, 12345678, "Ana", "Gómez", "Ciencias")
	alumno := testutil.CreateAlumno(t, store, 44123456, "Juan", "Pérez", curso.ID)
	libre := testutil.CreateAlumno(t, store, 45123456, "Sol", "Díaz", 0)

	t.Run("personas", func(t *testing.T) {
		got, err := store.GetPersona(ctx, docente.DNI)
		require.NoError(t, err)
		assert.Equal(t, academia.Docente{Especialidad: "Ciencias"}, got.Rol)

		got, err = store.GetPersona(ctx, alumno.DNI)
		require.NoError(t, err)
		assert.Equal(t, academia.Alumno{CursoID: &curso.ID}, got.Rol)

		got, err = store.GetPersona(ctx, libre.DNI)
		require.NoError(t, err)
		assert.Equal(t, academia.Alumno{}, got.Rol)

		got.Email = "sol@test.ar"
		got.Rol = academia.Alumno{CursoID: &curso.ID}
		_, err = store.UpdatePersona(ctx, got)
		require.NoError(t, err)
		n, err := store.CountPersonas(ctx, academia.PersonaFilter{CursoID: &curso.ID})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("dictado window is stored as days", func(t *testing.T) {
		desde := time.Date(2025, 3, 1, 18, 45, 0, 0, time.UTC)
		d := testutil.CreateDictado(t, store, curso.ID, materia.ID, docente.DNI, desde)
		got, err := store.GetDictado(ctx, d.ID)
		require.NoError(t, err)
		require.NotNil(t, got.FechaDesde)
		assert.Equal(t, testutil.Date(2025, 3, 1), *got.FechaDesde)
		assert.Nil(t, got.FechaHasta)
	})

	t.Run("materias by curso are distinct", func(t *testing.T) {
		testutil.CreateDictado(t, store, curso.ID, materia.ID, docente.DNI)
		testutil.CreateDictado(t, store, curso.ID, fisica.ID, docente.DNI)

		materias, err := store.ListMateriasByCurso(ctx, curso.ID)
		require.NoError(t, err)
		require.Len(t, materias, 2)
		assert.Equal(t, "Física", materias[0].Nombre)
		assert.Equal(t, "Química", materias[1].Nombre)
	})

	t.Run("detach docente", func(t *testing.T) {
		n, err := store.DetachDocente(ctx, docente.DNI)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		count, err := store.CountDictados(ctx, academia.DictadoFilter{DocenteID: &docente.DNI})
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("delete evaluaciones by filter", func(t *testing.T) {
		dictados, err := store.ListDictados(ctx, academia.DictadoFilter{CursoID: &curso.ID}, academia.ListOptions{Limit: 1})
		require.NoError(t, err)
		require.Len(t, dictados, 1)
		examen := testutil.CreateExamen(t, store, dictados[0].ID, testutil.Date(2025, 5, 5))
		testutil.CreateEvaluacion(t, store, examen.ID, alumno.DNI, 10)
		testutil.CreateEvaluacion(t, store, examen.ID, libre.DNI, 0)

		n, err := store.DeleteEvaluaciones(ctx, academia.EvaluacionFilter{DictadoID: &dictados[0].ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}

func TestStore_lifecycle(t *testing.T) {
	ctx := context.Background()
	store := testutil.OpenStore(t)
	curso := testutil.CreateCurso(t, store, "1A", academia.TurnoManana)
	testutil.CreateAlumno(t, store, 44123456, "Juan", "Pérez", curso.ID)
	testutil.CreateDocente(t, store, 12345678, "Ana", "Gómez", "")

	require.NoError(t, store.Ping(ctx))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[academia.EntityKind]int{
		academia.EntityCurso:      1,
		academia.EntityMateria:    0,
		academia.EntityPersona:    2,
		academia.EntityDictado:    0,
		academia.EntityExamen:     0,
		academia.EntityEvaluacion: 0,
	}, stats)

	require.NoError(t, store.Close())
	assert.Error(t, store.Ping(ctx))
	_, err = store.Stats(ctx)
	assert.Error(t, err)
}
