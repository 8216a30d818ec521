package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core/academia"
)

// demo dataset

var seedCursos = []academia.NewCurso{
	{NroLetra: "1A", Turno: academia.TurnoManana},
	{NroLetra: "1B", Turno: academia.TurnoTarde},
	{NroLetra: "2A", Turno: academia.TurnoManana},
}

var seedMaterias = []academia.NewMateria{
	{Nombre: "Matemática", Descripcion: "Números y Fundamentos de álgebra, cálculo y geometría."},
	{Nombre: "Lengua y Literatura", Descripcion: "Análisis de textos, gramática y producción de ensayos."},
	{Nombre: "Historia", Descripcion: "Estudio de eventos, sociedades y culturas pasadas."},
	{Nombre: "Física", Descripcion: "Principios de la mecánica, termodinámica y electromagnetismo."},
}

var seedDocentes = []academia.NewPersona{
	{DNI: 12345678, Nombre: "Ana María", Apellido: "García López", Telefono: "341-2345678", Direccion: "Ayacucho 123, Rosario", Email: "ana.garcia@escuela.edu.ar", Especialidad: "Matemática"},
	{DNI: 23456789, Nombre: "Luis Alberto", Apellido: "Gómez Ruiz", Telefono: "341-3456789", Direccion: "España 456, Rosario", Email: "luis.gomez@escuela.edu.ar", Especialidad: "Lengua y Literatura"},
	{DNI: 34567890, Nombre: "Carmen Elena", Apellido: "Rodríguez Silva", Telefono: "341-4567890", Direccion: "San Martín 789, Rosario", Email: "carmen.rodriguez@escuela.edu.ar", Especialidad: "Historia"},
	{DNI: 45678901, Nombre: "Roberto Carlos", Apellido: "Fernández Torres", Telefono: "341-5678901", Direccion: "Belgrano 321, Rosario", Email: "roberto.fernandez@escuela.edu.ar", Especialidad: "Física"},
}

// seedAlumno enrolls an alumno in the curso at index curso of seedCursos.
type seedAlumno struct {
	academia.NewPersona
	curso int
}

var seedAlumnos = []seedAlumno{
	{academia.NewPersona{DNI: 44123456, Nombre: "Martín Alejandro", Apellido: "Pérez González", Telefono: "341-1234567", Direccion: "Pellegrini 1230, Rosario", Email: "martin.perez@estudiante.edu.ar"}, 0},
	{academia.NewPersona{DNI: 44234567, Nombre: "Sofía Valentina", Apellido: "Martínez Díaz", Telefono: "341-2345678", Direccion: "Zeballos 456, Rosario", Email: "sofia.martinez@estudiante.edu.ar"}, 0},
	{academia.NewPersona{DNI: 45123456, Nombre: "Nicolás Benjamín", Apellido: "Jiménez Vargas", Telefono: "341-7890123", Direccion: "Urquiza 890, Rosario", Email: "nicolas.jimenez@estudiante.edu.ar"}, 1},
	{academia.NewPersona{DNI: 46123456, Nombre: "Catalina Luz", Apellido: "Morales Gómez", Telefono: "341-1357924", Direccion: "Tucumán 789, Rosario", Email: "catalina.morales@estudiante.edu.ar"}, 2},
}

// dias de cursado per curso, indexed like seedMaterias; materia i is taught by docente i.
var seedDias = [][]string{
	{"Lunes, Miércoles, Viernes", "Martes, Jueves", "Viernes", "Lunes"},
	{"Martes, Jueves", "Lunes, Miércoles", "Viernes", "Miércoles"},
	{"Lunes, Viernes", "Martes, Jueves", "Miércoles", "Martes, Jueves, Viernes"},
}

type seedExamen struct {
	curso, materia int
	fecha          academia.Date
	temas          string
	copias         int
}

var seedExamenes = []seedExamen{
	{0, 0, academia.NewDate(2025, 10, 15), "Operaciones básicas: suma, resta, multiplicación", 20},
	{0, 1, academia.NewDate(2025, 10, 22), "Comprensión lectora y análisis de texto", 20},
	{0, 2, academia.NewDate(2025, 11, 5), "Civilizaciones antiguas: Egipto", 20},
	{0, 3, academia.NewDate(2025, 10, 30), "Fuerzas y movimiento básico", 20},
	{1, 0, academia.NewDate(2025, 11, 12), "Fracciones y decimales", 18},
	{1, 1, academia.NewDate(2025, 11, 18), "Redacción y ortografía", 18},
	{2, 0, academia.NewDate(2025, 11, 25), "Ecuaciones lineales simples", 15},
	{2, 3, academia.NewDate(2025, 12, 2), "Cinemática: movimiento rectilíneo uniforme", 15},
}

const seedAnio = 2025

// seed loads the demo dataset through the engine, so every record passes the same checks as the API.
// A database that already holds cursos is left untouched.
func (cli *commandLine) seed(ctx context.Context) error {
	existing, err := cli.svc.ListCursos(ctx, academia.CursoFilter{}, academia.QueryOptions{Limit: 1})
	if err != nil {
		return errors.Wrap(err, "checking existing cursos")
	}
	if existing.Pagination != nil && existing.Pagination.TotalItems > 0 {
		fmt.Fprintln(cli.out, "database already seeded, skipping")
		return nil
	}

	cursos := make([]academia.Curso, 0, len(seedCursos))
	for _, nc := range seedCursos {
		c, err := cli.svc.CreateCurso(ctx, nc)
		if err != nil {
			return errors.Wrapf(err, "seeding curso %s", nc.NroLetra)
		}
		cursos = append(cursos, c)
	}

	materias := make([]academia.Materia, 0, len(seedMaterias))
	for _, nm := range seedMaterias {
		m, err := cli.svc.CreateMateria(ctx, nm)
		if err != nil {
			return errors.Wrapf(err, "seeding materia %s", nm.Nombre)
		}
		materias = append(materias, m)
	}

	for _, np := range seedDocentes {
		if _, err := cli.svc.CreateDocente(ctx, np); err != nil {
			return errors.Wrapf(err, "seeding docente %d", np.DNI)
		}
	}
	for _, sa := range seedAlumnos {
		np := sa.NewPersona
		np.CursoID = &cursos[sa.curso].ID
		if _, err := cli.svc.CreateAlumno(ctx, np); err != nil {
			return errors.Wrapf(err, "seeding alumno %d", np.DNI)
		}
	}

	dictados := make(map[[2]int]academia.Dictado, len(cursos)*len(materias))
	for ci, dias := range seedDias {
		for mi, d := range dias {
			dictado, err := cli.svc.CreateDictado(ctx, academia.NewDictado{
				Anio:        seedAnio,
				DiasCursado: d,
				CursoID:     cursos[ci].ID,
				MateriaID:   materias[mi].ID,
				DocenteID:   seedDocentes[mi].DNI,
			})
			if err != nil {
				return errors.Wrapf(err, "seeding dictado of %s in %s", materias[mi].Nombre, cursos[ci].NroLetra)
			}
			dictados[[2]int{ci, mi}] = dictado
		}
	}

	for _, se := range seedExamenes {
		fecha := se.fecha
		_, err := cli.svc.CreateExamen(ctx, academia.NewExamen{
			FechaExamen: &fecha,
			Temas:       se.temas,
			Copias:      se.copias,
			DictadoID:   dictados[[2]int{se.curso, se.materia}].ID,
		})
		if err != nil {
			return errors.Wrapf(err, "seeding examen %q", se.temas)
		}
	}

	cli.logger.Info("database seeded", map[string]interface{}{
		"cursos":   len(cursos),
		"materias": len(materias),
		"personas": len(seedDocentes) + len(seedAlumnos),
		"dictados": len(dictados),
		"examenes": len(seedExamenes),
	})
	fmt.Fprintln(cli.out, "database seeded")
	return nil
}
