package academia

import (
	"context"

	"github.com/trezcool/secundaria/core"
)

func (svc *Service) CreateExamen(ctx context.Context, ne NewExamen) (Examen, error) {
	if err := ne.Validate(svc.validate); err != nil {
		return Examen{}, err
	}
	now := svc.timestamp()
	var created Examen
	err := svc.inTx(ctx, "creating examen", func(repo Repository) error {
		if err := ValidateReferences(ctx, repo, References{DictadoID: &ne.DictadoID}); err != nil {
			return err
		}
		var err error
		created, err = repo.CreateExamen(ctx, Examen{
			FechaExamen: ne.FechaExamen.Time,
			Temas:       ne.Temas,
			Copias:      ne.Copias,
			DictadoID:   ne.DictadoID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		return err
	})
	if err != nil {
		return Examen{}, err
	}
	return created, nil
}

// GetExamen populates its dictado; IncludeEvaluaciones adds the grades with their alumnos.
func (svc *Service) GetExamen(ctx context.Context, id int64, opts QueryOptions) (Examen, error) {
	var e Examen
	err := svc.read("getting examen", func(repo Repository) error {
		var err error
		if e, err = repo.GetExamen(ctx, id); err != nil {
			return getErr(err, EntityExamen, id)
		}
		return newLoader(ctx, repo).populateExamen(&e, opts)
	})
	return e, err
}

// ListExamenes is ordered by fechaExamen; filter.MateriaID and filter.CursoID go through the dictado.
func (svc *Service) ListExamenes(ctx context.Context, filter ExamenFilter, opts QueryOptions) (Listing[Examen], error) {
	var out Listing[Examen]
	err := svc.read("listing examenes", func(repo Repository) error {
		var err error
		if out, err = list(ctx, svc, filter, opts, repo.ListExamenes, repo.CountExamenes); err != nil {
			return err
		}
		l := newLoader(ctx, repo)
		return each(out.Data, func(e *Examen) error { return l.populateExamen(e, opts) })
	})
	return out, err
}

// UpdateExamen cannot move an examen holding evaluaciones to a dictado of another curso.
func (svc *Service) UpdateExamen(ctx context.Context, id int64, ue UpdateExamen) (Examen, error) {
	if err := ue.Validate(svc.validate); err != nil {
		return Examen{}, err
	}
	var updated Examen
	err := svc.inTx(ctx, "updating examen", func(repo Repository) error {
		orig, err := repo.GetExamen(ctx, id)
		if err != nil {
			return getErr(err, EntityExamen, id)
		}
		e := ue.apply(orig)
		if e.DictadoID != orig.DictadoID {
			res, err := validateReferences(ctx, repo, References{DictadoID: &e.DictadoID})
			if err != nil {
				return err
			}
			prev, err := repo.GetDictado(ctx, orig.DictadoID)
			if err != nil {
				return getErr(err, EntityDictado, orig.DictadoID)
			}
			if prev.CursoID != res.dictado.CursoID {
				n, err := repo.CountEvaluaciones(ctx, EvaluacionFilter{ExamenID: &id})
				if err != nil {
					return err
				}
				if n > 0 {
					return invalidField(EntityExamen, "dictadoId",
						core.NewFieldValidationError("dictadoId", "examen has evaluaciones of alumnos of another curso"))
				}
			}
		}
		e.UpdatedAt = svc.timestamp()
		updated, err = repo.UpdateExamen(ctx, e)
		return err
	})
	if err != nil {
		return Examen{}, err
	}
	return updated, nil
}
