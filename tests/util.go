package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/secundaria/core"
	"github.com/trezcool/secundaria/core/academia"
	"github.com/trezcool/secundaria/storage/database"
	"github.com/trezcool/secundaria/storage/database/sqlxrepo"
)

// OpenDB opens a migrated in-memory SQLite database, closed when the test ends.
func OpenDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conf := &core.Config{Database: core.DatabaseConfig{Engine: database.EngineSQLite, Path: ":memory:"}}
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	goose.SetLogger(goose.NopLogger())
	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("OpenDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func OpenStore(t *testing.T) *sqlxrepo.Store {
	return sqlxrepo.NewStore(OpenDB(t), 0)
}

// Clock is a settable time source for academia.Options.Now.
type Clock struct{ T time.Time }

func (c *Clock) Now() time.Time { return c.T }

// NewService builds the engine on a fresh store and returns its logger for assertions.
func NewService(t *testing.T, opts ...academia.Options) (*academia.Service, *sqlxrepo.Store, *Logger) {
	t.Helper()
	store := OpenStore(t)
	var o academia.Options
	if len(opts) > 0 {
		o = opts[0]
	}
	logger := new(Logger)
	validate := academia.NewValidator(core.NewTranslator())
	return academia.NewService(store, validate, logger, o), store, logger
}

// Logger records the messages it receives.
type Logger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *Logger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, level+": "+msg)
}

func (l *Logger) Debug(msg string, _ ...interface{}) { l.record("DEBUG", msg) }
func (l *Logger) Info(msg string, _ ...interface{})  { l.record("INFO", msg) }
func (l *Logger) Warn(msg string, _ ...interface{})  { l.record("WARN", msg) }
func (l *Logger) Error(msg string, _ ...interface{}) { l.record("ERROR", msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { l.record("FATAL", msg) }

func (l *Logger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs...)
}

// fixtures (written straight through the repository)

func CreateCurso(t *testing.T, repo academia.Repository, nroLetra string, turno academia.Turno) academia.Curso {
	t.Helper()
	now := time.Now().UTC()
	c, err := repo.CreateCurso(context.Background(), academia.Curso{NroLetra: nroLetra, Turno: turno, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("CreateCurso() failed: %v", err)
	}
	return c
}

func CreateMateria(t *testing.T, repo academia.Repository, nombre string) academia.Materia {
	t.Helper()
	now := time.Now().UTC()
	m, err := repo.CreateMateria(context.Background(), academia.Materia{Nombre: nombre, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("CreateMateria() failed: %v", err)
	}
	return m
}

func createPersona(t *testing.T, repo academia.Repository, dni int64, nombre, apellido string, rol academia.Rol) academia.Persona {
	t.Helper()
	now := time.Now().UTC()
	p, err := repo.CreatePersona(context.Background(), academia.Persona{
		DNI:       dni,
		Nombre:    nombre,
		Apellido:  apellido,
		Telefono:  "+54 11 5555-0000",
		Direccion: "Av. Siempre Viva 742",
		Email:     fmt.Sprintf("p%d@test.ar", dni),
		Rol:       rol,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("createPersona() failed: %v", err)
	}
	return p
}

func CreateDocente(t *testing.T, repo academia.Repository, dni int64, nombre, apellido, especialidad string) academia.Persona {
	t.Helper()
	return createPersona(t, repo, dni, nombre, apellido, academia.Docente{Especialidad: especialidad})
}

// CreateAlumno enrolls the alumno in cursoID; 0 leaves it unenrolled.
func CreateAlumno(t *testing.T, repo academia.Repository, dni int64, nombre, apellido string, cursoID int64) academia.Persona {
	t.Helper()
	var rol academia.Alumno
	if cursoID != 0 {
		rol.CursoID = &cursoID
	}
	return createPersona(t, repo, dni, nombre, apellido, rol)
}

func CreateDictado(
	t *testing.T,
	repo academia.Repository,
	cursoID, materiaID, docenteID int64,
	window ...time.Time, // fechaDesde, fechaHasta; a zero time leaves the bound open
) academia.Dictado {
	t.Helper()
	now := time.Now().UTC()
	d := academia.Dictado{
		Anio:        2025,
		DiasCursado: "lunes y miércoles",
		CursoID:     cursoID,
		MateriaID:   materiaID,
		DocenteID:   &docenteID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(window) > 0 && !window[0].IsZero() {
		d.FechaDesde = &window[0]
	}
	if len(window) > 1 && !window[1].IsZero() {
		d.FechaHasta = &window[1]
	}
	d, err := repo.CreateDictado(context.Background(), d)
	if err != nil {
		t.Fatalf("CreateDictado() failed: %v", err)
	}
	return d
}

func CreateExamen(t *testing.T, repo academia.Repository, dictadoID int64, fecha time.Time) academia.Examen {
	t.Helper()
	now := time.Now().UTC()
	e, err := repo.CreateExamen(context.Background(), academia.Examen{
		FechaExamen: fecha,
		Temas:       "Sumas y restas",
		Copias:      20,
		DictadoID:   dictadoID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateExamen() failed: %v", err)
	}
	return e
}

func CreateEvaluacion(t *testing.T, repo academia.Repository, examenID, alumnoID int64, nota float64) academia.Evaluacion {
	t.Helper()
	now := time.Now().UTC()
	e, err := repo.CreateEvaluacion(context.Background(), academia.Evaluacion{
		Nota:      nota,
		ExamenID:  examenID,
		AlumnoID:  alumnoID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateEvaluacion() failed: %v", err)
	}
	return e
}

// Date is a UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return academia.NewDate(year, month, day).Time
}

func Float(f float64) *float64 { return &f }
func Int64(i int64) *int64     { return &i }
func String(s string) *string  { return &s }
