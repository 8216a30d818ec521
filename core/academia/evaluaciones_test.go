package academia_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/secundaria/core"
	"github.com/trezcool/secundaria/core/academia"
	"github.com/trezcool/secundaria/storage/database/sqlxrepo"
	"github.com/trezcool/secundaria/tests"
)

func TestService_CreateEvaluacion(t *testing.T) {
	ctx := context.Background()
	s := setupSchool(t)

	ev, err := s.svc.CreateEvaluacion(ctx, academia.NewEvaluacion{ExamenID: s.examen.ID, AlumnoID: alumnoDNI, Nota: testutil.Float(8)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.curso.ID)
	assert.Equal(t, int64(1), s.dictado.ID)
	assert.Equal(t, int64(1), s.examen.ID)
	assert.Equal(t, int64(1), ev.ID)
	assert.Equal(t, 8.0, ev.Nota)
	assert.Equal(t, s.examen.ID, ev.ExamenID)
	assert.Equal(t, int64(alumnoDNI), ev.AlumnoID)

	t.Run("same pair twice", func(t *testing.T) {
		_, err := s.svc.CreateEvaluacion(ctx, academia.NewEvaluacion{ExamenID: s.examen.ID, AlumnoID: alumnoDNI, Nota: testutil.Float(8)})
		assert.Equal(t, academia.KindDuplicateEvaluation, academia.KindOf(err))
		assert.Equal(t, academia.CodeDuplicateEvaluation, academia.CodeOf(err))
	})

	t.Run("alumno of another curso", func(t *testing.T) {
		otro, err := s.svc.CreateCurso(ctx, academia.NewCurso{NroLetra: "2B", Turno: academia.TurnoTarde})
		require.NoError(t, err)
		require.Equal(t, int64(2), otro.ID)
		_, err = s.svc.CreatePersona(ctx, newAlumno(45000111, "otro@escuela.edu.ar", &otro.ID))
		require.NoError(t, err)

		_, err = s.svc.CreateEvaluacion(ctx, academia.NewEvaluacion{ExamenID: s.examen.ID, AlumnoID: 45000111, Nota: testutil.Float(7)})
		assert.Equal(t, academia.KindStudentNotInCourse, academia.KindOf(err))
	})

	n, err := s.store.CountEvaluaciones(ctx, academia.EvaluacionFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_CreateEvaluacion_failures(t *testing.T) {
	ctx := context.Background()
	s := setupSchool(t)
	unenrolled := testutil.CreateAlumno(t, s.store, 46000222, "Sin", "Curso", 0)

	tests := []struct {
		name     string
		ne       academia.NewEvaluacion
		wantKind academia.Kind
		wantCode string
	}{
		{
			name:     "nota just below 0",
			ne:       academia.NewEvaluacion{ExamenID: s.examen.ID, AlumnoID: alumnoDNI, Nota: testutil.Float(-0.01)},
			wantKind: academia.KindInvalidField, wantCode: academia.CodeInvalidGrade,
		},
		{
			name:     "nota just above 10",
			ne:       academia.NewEvaluacion{ExamenID: s.examen.ID, AlumnoID: alumnoDNI, Nota: testutil.Float(10.01)},
			wantKind: academia.KindInvalidField, wantCode: academia.CodeInvalidGrade,
		},
		{
			name:     "nota far above",
			ne:       academia.NewEvaluacion{ExamenID: s.examen.ID, AlumnoID: alumnoDNI, Nota: testutil.Float(100)},
			wantKind: academia.KindInvalidField, wantCode: academia.CodeInvalidGrade,
		},
		{
			name:     "nota far below",
			ne:       academia.NewEvaluacion{ExamenID: s.examen.ID, AlumnoID: alumnoDNI, Nota: testutil.Float(-50)},
			wantKind: academia.KindInvalidField, wantCode: academia.CodeInvalidGrade,
		},
		{
			name:     "missing nota",
			ne:       academia.NewEvaluacion{ExamenID: s.examen.ID, AlumnoID: alumnoDNI},
			wantKind: academia.KindInvalidField, wantCode: academia.CodeInvalidGrade,
		},
		{
			name:     "too long observacion",
			ne:       academia.NewEvaluacion{ExamenID: s.examen.ID, AlumnoID: alumnoDNI, Nota: testutil.Float(5), Observacion: string(make([]byte, 501))},
			wantKind: academia.KindInvalidField, wantCode: academia.CodeInvalidField,
		},
		{
			name:     "unknown examen",
			ne:       academia.NewEvaluacion{ExamenID: 999, AlumnoID: alumnoDNI, Nota: testutil.Float(5)},
			wantKind: academia.KindNotFound, wantCode: academia.CodeExamNotFound,
		},
		{
			name:     "unknown alumno",
			ne:       academia.NewEvaluacion{ExamenID: s.examen.ID, AlumnoID: 40000000, Nota: testutil.Float(5)},
			wantKind: academia.KindNotFound, wantCode: academia.CodeStudentNotFound,
		},
		{
			name:     "unknown examen and alumno",
			ne:       academia.NewEvaluacion{ExamenID: 999, AlumnoID: 40000000, Nota: testutil.Float(5)},
			wantKind: academia.KindNotFound, wantCode: academia.CodeExamNotFound,
		},
		{
			name:     "docente graded",
			ne:       academia.NewEvaluacion{ExamenID: s.examen.ID, AlumnoID: docenteDNI, Nota: testutil.Float(5)},
			wantKind: academia.KindRoleMismatch, wantCode: academia.CodeRoleMismatch,
		},
		{
			name:     "unenrolled alumno",
			ne:       academia.NewEvaluacion{ExamenID: s.examen.ID, AlumnoID: unenrolled.DNI, Nota: testutil.Float(5)},
			wantKind: academia.KindStudentNotInCourse, wantCode: academia.CodeStudentNotInCourse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.svc.CreateEvaluacion(ctx, tt.ne)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, academia.KindOf(err))
			assert.Equal(t, tt.wantCode, academia.CodeOf(err))
		})
	}

	n, err := s.store.CountEvaluaciones(ctx, academia.EvaluacionFilter{})
	require.NoError(t, err)
	assert.Zero(t, n, "nothing may be persisted")
}

func TestService_CreateEvaluacion_bounds(t *testing.T) {
	ctx := context.Background()
	s := setupSchool(t)
	other := s.enroll(t, 47000333)

	for i, dni := range []int64{alumnoDNI, other.DNI} {
		nota := float64(i * 10) // 0 then 10
		ev, err := s.svc.CreateEvaluacion(ctx, academia.NewEvaluacion{ExamenID: s.examen.ID, AlumnoID: dni, Nota: &nota})
		require.NoError(t, err)
		assert.Equal(t, nota, ev.Nota)
	}
}

func TestService_CreateEvaluaciones(t *testing.T) {
	ctx := context.Background()
	s := setupSchool(t)
	a2 := s.enroll(t, 47000001)
	a3 := s.enroll(t, 47000002)
	graded := s.enroll(t, 47000003)
	testutil.CreateEvaluacion(t, s.store, s.examen.ID, graded.DNI, 6)

	otro := testutil.CreateCurso(t, s.store, "3C", academia.TurnoNoche)
	foreign := testutil.CreateAlumno(t, s.store, 47000004, "Otro", "Curso", otro.ID)

	entries := []academia.NewEvaluacion{
		{ExamenID: s.examen.ID, AlumnoID: alumnoDNI, Nota: testutil.Float(7)},
		{ExamenID: s.examen.ID, AlumnoID: a2.DNI, Nota: testutil.Float(11)},
		{ExamenID: 999, AlumnoID: a2.DNI, Nota: testutil.Float(7)},
		{ExamenID: s.examen.ID, AlumnoID: 40000000, Nota: testutil.Float(7)},
		{ExamenID: s.examen.ID, AlumnoID: foreign.DNI, Nota: testutil.Float(7)},
		{ExamenID: s.examen.ID, AlumnoID: alumnoDNI, Nota: testutil.Float(4)},
		{ExamenID: s.examen.ID, AlumnoID: a3.DNI, Nota: testutil.Float(9.5), Observacion: "  excelente  "},
		{ExamenID: s.examen.ID, AlumnoID: graded.DNI, Nota: testutil.Float(8)},
	}

	res, err := s.svc.CreateEvaluaciones(ctx, entries)
	require.NoError(t, err)

	require.Len(t, res.Created, 2)
	assert.Equal(t, int64(alumnoDNI), res.Created[0].AlumnoID)
	assert.Equal(t, 7.0, res.Created[0].Nota)
	assert.Equal(t, a3.DNI, res.Created[1].AlumnoID)
	assert.Equal(t, "excelente", res.Created[1].Observacion)

	type failure struct {
		index  int
		reason string
	}
	var got []failure
	for _, be := range res.Errors {
		got = append(got, failure{be.Index, be.Reason})
		assert.NotEmpty(t, be.Message)
	}
	assert.Equal(t, []failure{
		{1, academia.CodeInvalidGrade},
		{2, academia.CodeExamNotFound},
		{3, academia.CodeStudentNotFound},
		{4, academia.CodeStudentNotInCourse},
		{5, academia.CodeDuplicateEvaluation},
		{7, academia.CodeDuplicateEvaluation},
	}, got)

	n, err := s.store.CountEvaluaciones(ctx, academia.EvaluacionFilter{ExamenID: &s.examen.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	t.Run("empty batch", func(t *testing.T) {
		res, err := s.svc.CreateEvaluaciones(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, res.Created)
		assert.Empty(t, res.Errors)
		assert.NotNil(t, res.Created)
		assert.NotNil(t, res.Errors)
	})
}

// racyStore hides existing evaluaciones from the uniqueness check, leaving
// the storage constraint as the only guard.
type racyStore struct{ *sqlxrepo.Store }

func (s racyStore) InTx(ctx context.Context, fn func(repo academia.Repository) error) error {
	return s.Store.InTx(ctx, func(repo academia.Repository) error { return fn(racyRepo{repo}) })
}

type racyRepo struct{ academia.Repository }

func (racyRepo) ListEvaluaciones(context.Context, academia.EvaluacionFilter, academia.ListOptions) ([]academia.Evaluacion, error) {
	return nil, nil
}

func TestService_CreateEvaluacion_constraint(t *testing.T) {
	ctx := context.Background()
	s := setupSchool(t)
	nuevo := s.enroll(t, 47000020)
	testutil.CreateEvaluacion(t, s.store, s.examen.ID, alumnoDNI, 6)
	svc := academia.NewService(racyStore{s.store}, academia.NewValidator(core.NewTranslator()), s.log, academia.Options{})

	t.Run("single", func(t *testing.T) {
		_, err := svc.CreateEvaluacion(ctx, academia.NewEvaluacion{ExamenID: s.examen.ID, AlumnoID: alumnoDNI, Nota: testutil.Float(8)})
		assert.Equal(t, academia.KindDuplicateEvaluation, academia.KindOf(err))
		assert.ErrorIs(t, err, academia.ErrUniqueViolation)
	})

	t.Run("batch", func(t *testing.T) {
		_, err := svc.CreateEvaluaciones(ctx, []academia.NewEvaluacion{
			{ExamenID: s.examen.ID, AlumnoID: nuevo.DNI, Nota: testutil.Float(9)},
			{ExamenID: s.examen.ID, AlumnoID: alumnoDNI, Nota: testutil.Float(8)},
		})
		assert.Equal(t, academia.KindStorageFailure, academia.KindOf(err))
		assert.ErrorIs(t, err, academia.ErrUniqueViolation)

		// the passing entry was rolled back with the rest
		n, err := s.store.CountEvaluaciones(ctx, academia.EvaluacionFilter{ExamenID: &s.examen.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestService_UpdateEvaluaciones(t *testing.T) {
	ctx := context.Background()
	s := setupSchool(t)
	a2 := s.enroll(t, 47000010)
	e1 := testutil.CreateEvaluacion(t, s.store, s.examen.ID, alumnoDNI, 5)
	e2 := testutil.CreateEvaluacion(t, s.store, s.examen.ID, a2.DNI, 6)

	entries := []academia.BatchUpdateEntry{
		{ID: e1.ID, Nota: testutil.Float(9)},
		{ID: 999, Nota: testutil.Float(5)},
		{ID: e2.ID, Nota: testutil.Float(12)},
		{ID: e2.ID, Observacion: testutil.String("Muy bien")},
	}
	res, err := s.svc.UpdateEvaluaciones(ctx, entries)
	require.NoError(t, err)

	require.Len(t, res.Updated, 2)
	assert.Equal(t, e1.ID, res.Updated[0].ID)
	assert.Equal(t, 9.0, res.Updated[0].Nota)
	assert.Equal(t, e2.ID, res.Updated[1].ID)
	assert.Equal(t, 6.0, res.Updated[1].Nota)
	assert.Equal(t, "Muy bien", res.Updated[1].Observacion)

	require.Len(t, res.Errors, 2)
	assert.Equal(t, 1, res.Errors[0].Index)
	assert.Equal(t, academia.CodeEvaluationNotFound, res.Errors[0].Reason)
	assert.Equal(t, 2, res.Errors[1].Index)
	assert.Equal(t, academia.CodeInvalidGrade, res.Errors[1].Reason)

	stored, err := s.svc.GetEvaluacion(ctx, e1.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, stored.Nota)
	require.NotNil(t, stored.Examen)
	require.NotNil(t, stored.Alumno)
	assert.Equal(t, int64(alumnoDNI), stored.Alumno.DNI)
	require.NotNil(t, stored.Examen.Dictado)
	assert.Equal(t, s.curso.ID, stored.Examen.Dictado.CursoID)
}

func TestService_UpdateEvaluacion(t *testing.T) {
	ctx := context.Background()
	s := setupSchool(t)
	a2 := s.enroll(t, 47000020)
	otro := testutil.CreateCurso(t, s.store, "4D", academia.TurnoTarde)
	foreign := testutil.CreateAlumno(t, s.store, 47000021, "Otro", "Curso", otro.ID)
	e1 := testutil.CreateEvaluacion(t, s.store, s.examen.ID, alumnoDNI, 5)
	testutil.CreateEvaluacion(t, s.store, s.examen.ID, a2.DNI, 6)

	tests := []struct {
		name     string
		id       int64
		ue       academia.UpdateEvaluacion
		wantKind academia.Kind
		wantNota float64
	}{
		{name: "unknown id", id: 999, ue: academia.UpdateEvaluacion{Nota: testutil.Float(5)}, wantKind: academia.KindNotFound},
		{name: "nota out of range", id: e1.ID, ue: academia.UpdateEvaluacion{Nota: testutil.Float(10.5)}, wantKind: academia.KindInvalidField},
		{name: "to alumno of another curso", id: e1.ID, ue: academia.UpdateEvaluacion{AlumnoID: &foreign.DNI}, wantKind: academia.KindStudentNotInCourse},
		{name: "to already graded alumno", id: e1.ID, ue: academia.UpdateEvaluacion{AlumnoID: &a2.DNI}, wantKind: academia.KindDuplicateEvaluation},
		{name: "to unknown examen", id: e1.ID, ue: academia.UpdateEvaluacion{ExamenID: testutil.Int64(999)}, wantKind: academia.KindNotFound},
		{name: "same pair is not a duplicate", id: e1.ID, ue: academia.UpdateEvaluacion{Nota: testutil.Float(3.5), AlumnoID: testutil.Int64(alumnoDNI)}, wantNota: 3.5},
		{name: "nota", id: e1.ID, ue: academia.UpdateEvaluacion{Nota: testutil.Float(10)}, wantNota: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := s.svc.UpdateEvaluacion(ctx, tt.id, tt.ue)
			if tt.wantKind != academia.KindUnknown {
				assert.Equal(t, tt.wantKind, academia.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNota, ev.Nota)
		})
	}

	t.Run("unknown id code", func(t *testing.T) {
		_, err := s.svc.UpdateEvaluacion(ctx, 999, academia.UpdateEvaluacion{})
		assert.Equal(t, academia.CodeEvaluationNotFound, academia.CodeOf(err))
	})
}

func TestService_ListEvaluaciones(t *testing.T) {
	ctx := context.Background()
	s := setupSchool(t)
	a2 := s.enroll(t, 47000030)
	examen2 := testutil.CreateExamen(t, s.store, s.dictado.ID, testutil.Date(2025, 11, 20))
	e1 := testutil.CreateEvaluacion(t, s.store, s.examen.ID, alumnoDNI, 5)
	e2 := testutil.CreateEvaluacion(t, s.store, s.examen.ID, a2.DNI, 6)
	e3 := testutil.CreateEvaluacion(t, s.store, examen2.ID, alumnoDNI, 7)

	otherDictado := testutil.CreateDictado(t, s.store, s.curso.ID, testutil.CreateMateria(t, s.store, "Lengua").ID, docenteDNI)

	ids := func(l academia.Listing[academia.Evaluacion]) []int64 {
		out := make([]int64, 0, len(l.Data))
		for _, e := range l.Data {
			out = append(out, e.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter academia.EvaluacionFilter
		want   []int64
	}{
		{name: "all", want: []int64{e1.ID, e2.ID, e3.ID}},
		{name: "by examen", filter: academia.EvaluacionFilter{ExamenID: &examen2.ID}, want: []int64{e3.ID}},
		{name: "by alumno", filter: academia.EvaluacionFilter{AlumnoID: testutil.Int64(alumnoDNI)}, want: []int64{e1.ID, e3.ID}},
		{name: "by dictado", filter: academia.EvaluacionFilter{DictadoID: &s.dictado.ID}, want: []int64{e1.ID, e2.ID, e3.ID}},
		{name: "by dictado without examenes", filter: academia.EvaluacionFilter{DictadoID: &otherDictado.ID}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := s.svc.ListEvaluaciones(ctx, tt.filter, academia.QueryOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(l))
			assert.Nil(t, l.Pagination)
			for _, e := range l.Data {
				assert.NotNil(t, e.Examen)
				assert.NotNil(t, e.Alumno)
			}
		})
	}
}
