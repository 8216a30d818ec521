package academia

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// References lists the foreign references touched by one mutation. Nil fields are not checked.
type References struct {
	CursoID   *int64
	MateriaID *int64
	DocenteID *int64 // must be a docente
	DictadoID *int64
	ExamenID  *int64
	AlumnoID  *int64 // must be an alumno; with ExamenID, must sit in the examen's curso

	// Enrollee is the persona receiving CursoID; it must be an alumno.
	Enrollee *Persona
}

// resolved holds what ValidateReferences loaded, so callers do not read it twice.
type resolved struct {
	curso   *Curso
	materia *Materia
	docente *Persona
	dictado *Dictado
	examen  *Examen
	alumno  *Persona
}

// ValidateReferences confirms every reference in refs exists and holds the role it is used in.
// It only reads. Every failing check is reported; a single failure is returned as *Error,
// several as Errors, in the order curso, materia, docente, dictado, examen, alumno, course.
func ValidateReferences(ctx context.Context, repo Repository, refs References) error {
	_, err := validateReferences(ctx, repo, refs)
	return err
}

func validateReferences(ctx context.Context, repo Repository, refs References) (resolved, error) {
	var (
		res  resolved
		errs Errors
	)
	// fail keeps engine errors and aborts on storage ones.
	fail := func(err error) error {
		var e *Error
		if errors.As(err, &e) {
			errs = append(errs, e)
			return nil
		}
		return err
	}

	if refs.CursoID != nil {
		c, err := repo.GetCurso(ctx, *refs.CursoID)
		if err = fail(notFoundAs(err, "cursoId", EntityCurso, *refs.CursoID)); err != nil {
			return res, err
		}
		if c.ID != 0 {
			res.curso = &c
		}
		if refs.Enrollee != nil && !refs.Enrollee.IsAlumno() {
			errs = append(errs, roleMismatch("cursoId", refs.Enrollee.DNI, TipoAlumno))
		}
	}

	if refs.MateriaID != nil {
		m, err := repo.GetMateria(ctx, *refs.MateriaID)
		if err = fail(notFoundAs(err, "materiaId", EntityMateria, *refs.MateriaID)); err != nil {
			return res, err
		}
		if m.ID != 0 {
			res.materia = &m
		}
	}

	if refs.DocenteID != nil {
		p, err := repo.GetPersona(ctx, *refs.DocenteID)
		if err = fail(notFoundAs(err, "docenteId", EntityPersona, *refs.DocenteID)); err != nil {
			return res, err
		}
		if p.DNI != 0 {
			if p.IsDocente() {
				res.docente = &p
			} else {
				errs = append(errs, roleMismatch("docenteId", p.DNI, TipoDocente))
			}
		}
	}

	if refs.DictadoID != nil {
		d, err := repo.GetDictado(ctx, *refs.DictadoID)
		if err = fail(notFoundAs(err, "dictadoId", EntityDictado, *refs.DictadoID)); err != nil {
			return res, err
		}
		if d.ID != 0 {
			res.dictado = &d
		}
	}

	if refs.ExamenID != nil {
		e, err := repo.GetExamen(ctx, *refs.ExamenID)
		if err = fail(notFoundAs(err, "examenId", EntityExamen, *refs.ExamenID)); err != nil {
			return res, err
		}
		if e.ID != 0 {
			res.examen = &e
		}
	}

	if refs.AlumnoID != nil {
		p, err := repo.GetPersona(ctx, *refs.AlumnoID)
		if err = fail(notFoundAs(err, "alumnoId", EntityPersona, *refs.AlumnoID)); err != nil {
			return res, err
		}
		if p.DNI != 0 {
			if p.IsAlumno() {
				res.alumno = &p
			} else {
				errs = append(errs, roleMismatch("alumnoId", p.DNI, TipoAlumno))
			}
		}
	}

	if res.examen != nil && res.alumno != nil {
		d := res.dictado
		if d == nil || d.ID != res.examen.DictadoID {
			examDictado, err := repo.GetDictado(ctx, res.examen.DictadoID)
			if err != nil {
				return res, errors.Wrap(err, fmt.Sprintf("getting dictado of examen %d", res.examen.ID))
			}
			d = &examDictado
		}
		cursoID := res.alumno.CursoID()
		if cursoID == nil || *cursoID != d.CursoID {
			errs = append(errs, studentNotInCourse(res.alumno.DNI, res.examen.ID))
		}
	}

	return res, errs.orNil()
}

// notFoundAs converts a missing row into a reference error for field and passes other errors through.
func notFoundAs(err error, field string, entity EntityKind, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNoRows) {
		return referenceNotFound(field, entity, id)
	}
	return errors.Wrap(err, fmt.Sprintf("getting %s %d", entity, id))
}
