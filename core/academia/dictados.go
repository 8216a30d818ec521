package academia

import (
	"context"

	"github.com/trezcool/secundaria/core"
)

// CreateDictado requires an existing curso, materia and docente.
func (svc *Service) CreateDictado(ctx context.Context, nd NewDictado) (Dictado, error) {
	if err := nd.Validate(svc.validate); err != nil {
		return Dictado{}, err
	}
	now := svc.timestamp()
	var created Dictado
	err := svc.inTx(ctx, "creating dictado", func(repo Repository) error {
		if err := ValidateReferences(ctx, repo, nd.references()); err != nil {
			return err
		}
		var err error
		created, err = repo.CreateDictado(ctx, Dictado{
			Anio:        nd.Anio,
			DiasCursado: nd.DiasCursado,
			FechaDesde:  nd.FechaDesde.ptr(),
			FechaHasta:  nd.FechaHasta.ptr(),
			CursoID:     nd.CursoID,
			MateriaID:   nd.MateriaID,
			DocenteID:   int64Ptr(nd.DocenteID),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		return err
	})
	if err != nil {
		return Dictado{}, err
	}
	return created, nil
}

// GetDictado populates curso, materia and docente; IncludeExamenes adds its examenes.
func (svc *Service) GetDictado(ctx context.Context, id int64, opts QueryOptions) (Dictado, error) {
	var d Dictado
	err := svc.read("getting dictado", func(repo Repository) error {
		var err error
		if d, err = repo.GetDictado(ctx, id); err != nil {
			return getErr(err, EntityDictado, id)
		}
		return newLoader(ctx, repo).populateDictado(&d, opts)
	})
	return d, err
}

// ListDictados filters by any combination of curso, materia, docente and anio.
func (svc *Service) ListDictados(ctx context.Context, filter DictadoFilter, opts QueryOptions) (Listing[Dictado], error) {
	var out Listing[Dictado]
	err := svc.read("listing dictados", func(repo Repository) error {
		var err error
		if out, err = list(ctx, svc, filter, opts, repo.ListDictados, repo.CountDictados); err != nil {
			return err
		}
		l := newLoader(ctx, repo)
		return each(out.Data, func(d *Dictado) error { return l.populateDictado(d, opts) })
	})
	return out, err
}

// UpdateDictado re-validates every reference it changes. A dictado whose examenes
// already hold evaluaciones cannot move to another curso.
func (svc *Service) UpdateDictado(ctx context.Context, id int64, ud UpdateDictado) (Dictado, error) {
	if err := ud.Validate(svc.validate); err != nil {
		return Dictado{}, err
	}
	var updated Dictado
	err := svc.inTx(ctx, "updating dictado", func(repo Repository) error {
		orig, err := repo.GetDictado(ctx, id)
		if err != nil {
			return getErr(err, EntityDictado, id)
		}
		d, err := ud.apply(orig)
		if err != nil {
			return err
		}
		if err = ValidateReferences(ctx, repo, ud.references()); err != nil {
			return err
		}
		if d.CursoID != orig.CursoID {
			n, err := repo.CountEvaluaciones(ctx, EvaluacionFilter{DictadoID: &id})
			if err != nil {
				return err
			}
			if n > 0 {
				return invalidField(EntityDictado, "cursoId",
					core.NewFieldValidationError("cursoId", "dictado has evaluaciones of alumnos of its current curso"))
			}
		}
		d.UpdatedAt = svc.timestamp()
		updated, err = repo.UpdateDictado(ctx, d)
		return err
	})
	if err != nil {
		return Dictado{}, err
	}
	return updated, nil
}
