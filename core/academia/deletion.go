package academia

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core"
)

// Verdict is the outcome of a deletion check.
type Verdict struct {
	Allowed         bool     `json:"allowed"`
	BlockingReasons []string `json:"blockingReasons"`
}

// CanDelete previews Delete without writing. A missing id fails with NotFound.
func (svc *Service) CanDelete(ctx context.Context, kind EntityKind, id int64) (Verdict, error) {
	var v Verdict
	err := svc.inTx(ctx, "checking deletion", func(repo Repository) error {
		var err error
		v, err = canDelete(ctx, repo, kind, id)
		return err
	})
	return v, err
}

// Delete removes the record once canDelete allows it, applying the per-kind policy:
//
//	curso:      blocked by enrolled alumnos; its dictados, their examenes and evaluaciones are cascaded
//	materia:    blocked by dictados
//	persona:    a docente's dictados are orphaned; an alumno is blocked by evaluaciones
//	dictado:    blocked by examenes
//	examen:     blocked by evaluaciones
//	evaluacion: never blocked
//
// For persona, id is the dni.
func (svc *Service) Delete(ctx context.Context, kind EntityKind, id int64) error {
	return svc.inTx(ctx, fmt.Sprintf("deleting %s", kind), func(repo Repository) error {
		v, err := canDelete(ctx, repo, kind, id)
		if err != nil {
			return err
		}
		if !v.Allowed {
			return deletionBlocked(kind, id, v.BlockingReasons)
		}

		switch kind {
		case EntityCurso:
			if err = svc.cascadeCurso(ctx, repo, id); err != nil {
				return err
			}
			return repo.DeleteCurso(ctx, id)
		case EntityMateria:
			return repo.DeleteMateria(ctx, id)
		case EntityPersona:
			n, err := repo.DetachDocente(ctx, id)
			if err != nil {
				return errors.Wrap(err, "detaching docente")
			}
			if n > 0 {
				svc.log.Info("dictados orphaned", map[string]interface{}{"docente": id, "dictados": n})
			}
			return repo.DeletePersona(ctx, id)
		case EntityDictado:
			return repo.DeleteDictado(ctx, id)
		case EntityExamen:
			return repo.DeleteExamen(ctx, id)
		default:
			return repo.DeleteEvaluacion(ctx, id)
		}
	})
}

// cascadeCurso removes the dictados of a curso with everything hanging from them.
func (svc *Service) cascadeCurso(ctx context.Context, repo Repository, cursoID int64) error {
	dictados, err := repo.ListDictados(ctx, DictadoFilter{CursoID: &cursoID}, ListOptions{})
	if err != nil {
		return errors.Wrap(err, "listing dictados of curso")
	}
	for _, d := range dictados {
		dictadoID := d.ID
		nEvals, err := repo.DeleteEvaluaciones(ctx, EvaluacionFilter{DictadoID: &dictadoID})
		if err != nil {
			return errors.Wrap(err, "deleting evaluaciones of dictado")
		}
		examenes, err := repo.ListExamenes(ctx, ExamenFilter{DictadoID: &dictadoID}, ListOptions{})
		if err != nil {
			return errors.Wrap(err, "listing examenes of dictado")
		}
		for _, e := range examenes {
			if err = repo.DeleteExamen(ctx, e.ID); err != nil {
				return errors.Wrap(err, "deleting examen")
			}
		}
		if err = repo.DeleteDictado(ctx, dictadoID); err != nil {
			return errors.Wrap(err, "deleting dictado")
		}
		svc.log.Info("dictado cascaded", map[string]interface{}{
			"curso":        cursoID,
			"dictado":      dictadoID,
			"examenes":     len(examenes),
			"evaluaciones": nEvals,
		})
	}
	return nil
}

func canDelete(ctx context.Context, repo Repository, kind EntityKind, id int64) (Verdict, error) {
	var reasons []string
	block := func(n int, format string) {
		if n > 0 {
			reasons = append(reasons, fmt.Sprintf(format, n))
		}
	}

	switch kind {
	case EntityCurso:
		if _, err := repo.GetCurso(ctx, id); err != nil {
			return Verdict{}, getErr(err, kind, id)
		}
		n, err := repo.CountPersonas(ctx, PersonaFilter{Tipo: TipoAlumno, CursoID: &id})
		if err != nil {
			return Verdict{}, err
		}
		block(n, "curso has %d enrolled alumno(s)")

	case EntityMateria:
		if _, err := repo.GetMateria(ctx, id); err != nil {
			return Verdict{}, getErr(err, kind, id)
		}
		n, err := repo.CountDictados(ctx, DictadoFilter{MateriaID: &id})
		if err != nil {
			return Verdict{}, err
		}
		block(n, "materia is taught in %d dictado(s)")

	case EntityPersona:
		p, err := repo.GetPersona(ctx, id)
		if err != nil {
			return Verdict{}, getErr(err, kind, id)
		}
		if p.IsAlumno() {
			n, err := repo.CountEvaluaciones(ctx, EvaluacionFilter{AlumnoID: &id})
			if err != nil {
				return Verdict{}, err
			}
			block(n, "alumno has %d evaluacion(es)")
		}

	case EntityDictado:
		if _, err := repo.GetDictado(ctx, id); err != nil {
			return Verdict{}, getErr(err, kind, id)
		}
		n, err := repo.CountExamenes(ctx, ExamenFilter{DictadoID: &id})
		if err != nil {
			return Verdict{}, err
		}
		block(n, "dictado has %d examen(es)")

	case EntityExamen:
		if _, err := repo.GetExamen(ctx, id); err != nil {
			return Verdict{}, getErr(err, kind, id)
		}
		n, err := repo.CountEvaluaciones(ctx, EvaluacionFilter{ExamenID: &id})
		if err != nil {
			return Verdict{}, err
		}
		block(n, "examen has %d evaluacion(es)")

	case EntityEvaluacion:
		if _, err := repo.GetEvaluacion(ctx, id); err != nil {
			return Verdict{}, getErr(err, kind, id)
		}

	default:
		return Verdict{}, invalidField("", "kind", core.NewFieldValidationError("kind", fmt.Sprintf("unknown entity kind %q", kind)))
	}

	if reasons == nil {
		reasons = []string{}
	}
	return Verdict{Allowed: len(reasons) == 0, BlockingReasons: reasons}, nil
}
