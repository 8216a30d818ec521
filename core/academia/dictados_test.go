package academia_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/secundaria/core/academia"
	"github.com/trezcool/secundaria/tests"
)

func TestService_CreateDictado(t *testing.T) {
	ctx := context.Background()
	s := setupSchool(t)
	desde := academia.NewDate(2025, time.March, 1)
	hasta := academia.NewDate(2025, time.July, 15)

	valid := func() academia.NewDictado {
		return academia.NewDictado{
			Anio:        2025,
			DiasCursado: "martes",
			CursoID:     s.curso.ID,
			MateriaID:   s.materia.ID,
			DocenteID:   docenteDNI,
		}
	}

	t.Run("docente is an alumno", func(t *testing.T) {
		nd := valid()
		nd.DocenteID = alumnoDNI
		_, err := s.svc.CreateDictado(ctx, nd)
		var e *academia.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, academia.KindRoleMismatch, e.Kind)
		assert.Equal(t, "docenteId", e.Field)
	})

	t.Run("every missing reference is reported", func(t *testing.T) {
		nd := valid()
		nd.CursoID = 998
		nd.MateriaID = 999
		_, err := s.svc.CreateDictado(ctx, nd)
		var errs academia.Errors
		require.ErrorAs(t, err, &errs)
		require.Len(t, errs, 2)
		assert.Equal(t, "cursoId", errs[0].Field)
		assert.Equal(t, int64(998), errs[0].ID)
		assert.Equal(t, "materiaId", errs[1].Field)
		assert.Equal(t, academia.KindNotFound, academia.KindOf(err))
	})

	t.Run("missing docente", func(t *testing.T) {
		nd := valid()
		nd.DocenteID = 30000000
		_, err := s.svc.CreateDictado(ctx, nd)
		assert.Equal(t, academia.KindNotFound, academia.KindOf(err))
		assert.Equal(t, academia.CodeNotFound, academia.CodeOf(err))
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name      string
			edit      func(*academia.NewDictado)
			wantField string
		}{
			{name: "anio", edit: func(nd *academia.NewDictado) { nd.Anio = 1999 }, wantField: "anio"},
			{name: "dias", edit: func(nd *academia.NewDictado) { nd.DiasCursado = "  " }, wantField: "diasCursado"},
			{name: "window", edit: func(nd *academia.NewDictado) { nd.FechaDesde, nd.FechaHasta = &hasta, &desde }, wantField: "fechaHasta"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				nd := valid()
				tt.edit(&nd)
				_, err := s.svc.CreateDictado(ctx, nd)
				var e *academia.Error
				require.ErrorAs(t, err, &e)
				assert.Equal(t, academia.KindInvalidField, e.Kind)
				assert.Equal(t, tt.wantField, e.Field)
			})
		}
	})

	t.Run("with window", func(t *testing.T) {
		nd := valid()
		nd.FechaDesde, nd.FechaHasta = &desde, &hasta
		d, err := s.svc.CreateDictado(ctx, nd)
		require.NoError(t, err)

		got, err := s.svc.GetDictado(ctx, d.ID, academia.QueryOptions{})
		require.NoError(t, err)
		require.NotNil(t, got.FechaDesde)
		require.NotNil(t, got.FechaHasta)
		assert.Equal(t, "2025-03-01", academia.DateOf(*got.FechaDesde).String())
		assert.Equal(t, "2025-07-15", academia.DateOf(*got.FechaHasta).String())
		assert.Equal(t, int64(docenteDNI), *got.DocenteID)
	})
}

func TestService_UpdateDictado(t *testing.T) {
	ctx := context.Background()
	s := setupSchool(t)
	otro := testutil.CreateCurso(t, s.store, "2B", academia.TurnoTarde)
	otroDocente := testutil.CreateDocente(t, s.store, 23456789, "Luis", "Martínez", "Historia")
	hasta := academia.NewDate(2025, time.February, 1)

	t.Run("fechaHasta before stored fechaDesde", func(t *testing.T) {
		desde := academia.NewDate(2025, time.March, 1)
		_, err := s.svc.UpdateDictado(ctx, s.dictado.ID, academia.UpdateDictado{FechaDesde: &desde})
		require.NoError(t, err)

		_, err = s.svc.UpdateDictado(ctx, s.dictado.ID, academia.UpdateDictado{FechaHasta: &hasta})
		var e *academia.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "fechaHasta", e.Field)
	})

	t.Run("references", func(t *testing.T) {
		_, err := s.svc.UpdateDictado(ctx, s.dictado.ID, academia.UpdateDictado{DocenteID: testutil.Int64(alumnoDNI)})
		assert.Equal(t, academia.KindRoleMismatch, academia.KindOf(err))

		_, err = s.svc.UpdateDictado(ctx, s.dictado.ID, academia.UpdateDictado{MateriaID: testutil.Int64(999)})
		assert.Equal(t, academia.KindNotFound, academia.KindOf(err))

		_, err = s.svc.UpdateDictado(ctx, 999, academia.UpdateDictado{Anio: new(int)})
		assert.Equal(t, academia.KindInvalidField, academia.KindOf(err))

		anio := 2026
		_, err = s.svc.UpdateDictado(ctx, 999, academia.UpdateDictado{Anio: &anio})
		assert.Equal(t, academia.KindNotFound, academia.KindOf(err))
	})

	t.Run("blank diasCursado", func(t *testing.T) {
		_, err := s.svc.UpdateDictado(ctx, s.dictado.ID, academia.UpdateDictado{DiasCursado: testutil.String("   ")})
		var e *academia.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, academia.KindInvalidField, e.Kind)
		assert.Equal(t, "diasCursado", e.Field)
	})

	t.Run("curso change without evaluaciones", func(t *testing.T) {
		d, err := s.svc.UpdateDictado(ctx, s.dictado.ID, academia.UpdateDictado{CursoID: &otro.ID, DocenteID: &otroDocente.DNI})
		require.NoError(t, err)
		assert.Equal(t, otro.ID, d.CursoID)
		assert.Equal(t, &otroDocente.DNI, d.DocenteID)

		_, err = s.svc.UpdateDictado(ctx, s.dictado.ID, academia.UpdateDictado{CursoID: &s.curso.ID})
		require.NoError(t, err)
	})

	t.Run("curso change with evaluaciones", func(t *testing.T) {
		testutil.CreateEvaluacion(t, s.store, s.examen.ID, alumnoDNI, 6)
		_, err := s.svc.UpdateDictado(ctx, s.dictado.ID, academia.UpdateDictado{CursoID: &otro.ID})
		var e *academia.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, academia.KindInvalidField, e.Kind)
		assert.Equal(t, "cursoId", e.Field)

		// other fields still change
		dias := "jueves"
		d, err := s.svc.UpdateDictado(ctx, s.dictado.ID, academia.UpdateDictado{DiasCursado: &dias, CursoID: &s.curso.ID})
		require.NoError(t, err)
		assert.Equal(t, "jueves", d.DiasCursado)
	})

	t.Run("orphaned dictado gets a new docente", func(t *testing.T) {
		orphan := testutil.CreateDictado(t, s.store, s.curso.ID, s.materia.ID, otroDocente.DNI)
		require.NoError(t, s.svc.Delete(ctx, academia.EntityPersona, otroDocente.DNI))

		d, err := s.svc.GetDictado(ctx, orphan.ID, academia.QueryOptions{})
		require.NoError(t, err)
		require.Nil(t, d.DocenteID)

		d, err = s.svc.UpdateDictado(ctx, orphan.ID, academia.UpdateDictado{DocenteID: testutil.Int64(docenteDNI)})
		require.NoError(t, err)
		assert.Equal(t, int64(docenteDNI), *d.DocenteID)
	})
}

func TestService_Examenes(t *testing.T) {
	ctx := context.Background()
	s := setupSchool(t)
	fecha := academia.NewDate(2025, time.November, 3)

	t.Run("create", func(t *testing.T) {
		tests := []struct {
			name      string
			examen    academia.NewExamen
			wantKind  academia.Kind
			wantField string
		}{
			{
				name:     "missing dictado",
				examen:   academia.NewExamen{FechaExamen: &fecha, Temas: "Fracciones", DictadoID: 999},
				wantKind: academia.KindNotFound, wantField: "dictadoId",
			},
			{
				name:     "missing fecha",
				examen:   academia.NewExamen{Temas: "Fracciones", DictadoID: s.dictado.ID},
				wantKind: academia.KindInvalidField, wantField: "fechaExamen",
			},
			{
				name:     "short temas",
				examen:   academia.NewExamen{FechaExamen: &fecha, Temas: " abc ", DictadoID: s.dictado.ID},
				wantKind: academia.KindInvalidField, wantField: "temas",
			},
			{
				name:     "negative copias",
				examen:   academia.NewExamen{FechaExamen: &fecha, Temas: "Fracciones", Copias: -1, DictadoID: s.dictado.ID},
				wantKind: academia.KindInvalidField, wantField: "copias",
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := s.svc.CreateExamen(ctx, tt.examen)
				var e *academia.Error
				require.ErrorAs(t, err, &e)
				assert.Equal(t, tt.wantKind, e.Kind)
				assert.Equal(t, tt.wantField, e.Field)
			})
		}
	})

	t.Run("move within the curso", func(t *testing.T) {
		testutil.CreateEvaluacion(t, s.store, s.examen.ID, alumnoDNI, 4.5)
		mismoCurso := testutil.CreateDictado(t, s.store, s.curso.ID, testutil.CreateMateria(t, s.store, "Geometría").ID, docenteDNI)

		e, err := s.svc.UpdateExamen(ctx, s.examen.ID, academia.UpdateExamen{DictadoID: &mismoCurso.ID, FechaExamen: &fecha})
		require.NoError(t, err)
		assert.Equal(t, mismoCurso.ID, e.DictadoID)
		assert.Equal(t, "2025-11-03", academia.DateOf(e.FechaExamen).String())
		assert.Equal(t, "Sumas", e.Temas)
	})

	t.Run("move to another curso", func(t *testing.T) {
		otro := testutil.CreateCurso(t, s.store, "4D", academia.TurnoNoche)
		otroDictado := testutil.CreateDictado(t, s.store, otro.ID, s.materia.ID, docenteDNI)

		_, err := s.svc.UpdateExamen(ctx, s.examen.ID, academia.UpdateExamen{DictadoID: &otroDictado.ID})
		var e *academia.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, academia.KindInvalidField, e.Kind)
		assert.Equal(t, "dictadoId", e.Field)

		// an examen without evaluaciones moves freely
		libre := testutil.CreateExamen(t, s.store, s.dictado.ID, testutil.Date(2025, 6, 1))
		moved, err := s.svc.UpdateExamen(ctx, libre.ID, academia.UpdateExamen{DictadoID: &otroDictado.ID, Copias: new(int)})
		require.NoError(t, err)
		assert.Equal(t, otroDictado.ID, moved.DictadoID)
		assert.Zero(t, moved.Copias)
	})

	t.Run("blank temas", func(t *testing.T) {
		for _, temas := range []string{"", "\t ", "abc"} {
			_, err := s.svc.UpdateExamen(ctx, s.examen.ID, academia.UpdateExamen{Temas: testutil.String(temas)})
			var e *academia.Error
			require.ErrorAs(t, err, &e, "temas %q", temas)
			assert.Equal(t, academia.KindInvalidField, e.Kind)
			assert.Equal(t, "temas", e.Field)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.svc.UpdateExamen(ctx, 999, academia.UpdateExamen{Temas: testutil.String("Ecuaciones")})
		assert.Equal(t, academia.KindNotFound, academia.KindOf(err))
		assert.Equal(t, academia.CodeExamNotFound, academia.CodeOf(err))

		_, err = s.svc.UpdateExamen(ctx, s.examen.ID, academia.UpdateExamen{DictadoID: testutil.Int64(999)})
		assert.Equal(t, academia.KindNotFound, academia.KindOf(err))
	})
}
