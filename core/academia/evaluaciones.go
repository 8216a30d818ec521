package academia

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// BatchError reports why the entry at Index was not applied.
type BatchError struct {
	Index   int    `json:"index"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func newBatchError(i int, err error) BatchError {
	return BatchError{Index: i, Reason: CodeOf(err), Message: err.Error()}
}

type BatchCreateResult struct {
	Created []Evaluacion `json:"created"`
	Errors  []BatchError `json:"errors"`
}

type BatchUpdateResult struct {
	Updated []Evaluacion `json:"updated"`
	Errors  []BatchError `json:"errors"`
}

type pair struct{ examenID, alumnoID int64 }

// CreateEvaluacion records a grade. In order it checks the nota range, the examen,
// the alumno, that the alumno sits in the curso of the examen's dictado, and that
// the (examen, alumno) pair has no grade yet.
func (svc *Service) CreateEvaluacion(ctx context.Context, ne NewEvaluacion) (Evaluacion, error) {
	if err := ne.Validate(svc.validate); err != nil {
		return Evaluacion{}, err
	}
	var created Evaluacion
	err := svc.inTx(ctx, "creating evaluacion", func(repo Repository) error {
		if err := checkEvaluacion(ctx, repo, ne.ExamenID, ne.AlumnoID, 0); err != nil {
			return err
		}
		var err error
		created, err = insertEvaluacion(ctx, repo, ne, svc.timestamp())
		return err
	})
	if err != nil {
		return Evaluacion{}, err
	}
	return created, nil
}

// CreateEvaluaciones validates every entry on its own; the passing ones are written
// in one transaction and the failing ones are reported by index. A write failure,
// a constraint hit included, rolls back the whole batch and fails with StorageFailure.
func (svc *Service) CreateEvaluaciones(ctx context.Context, entries []NewEvaluacion) (BatchCreateResult, error) {
	res := BatchCreateResult{Created: []Evaluacion{}, Errors: []BatchError{}}
	err := svc.inTx(ctx, "creating evaluaciones", func(repo Repository) error {
		passing := make([]int, 0, len(entries))
		seen := make(map[pair]int, len(entries))

		for i := range entries {
			ne := &entries[i]
			if err := ne.Validate(svc.validate); err != nil {
				res.Errors = append(res.Errors, newBatchError(i, err))
				continue
			}
			err := checkEvaluacion(ctx, repo, ne.ExamenID, ne.AlumnoID, 0)
			if err == nil {
				if first, dup := seen[pair{ne.ExamenID, ne.AlumnoID}]; dup {
					dupErr := duplicateEvaluation(ne.ExamenID, ne.AlumnoID, nil)
					dupErr.Msg += fmt.Sprintf(" (entry %d of this batch)", first)
					err = dupErr
				}
			}
			if err != nil {
				if KindOf(err) == KindUnknown {
					return err
				}
				res.Errors = append(res.Errors, newBatchError(i, err))
				continue
			}
			seen[pair{ne.ExamenID, ne.AlumnoID}] = i
			passing = append(passing, i)
		}

		now := svc.timestamp()
		for _, i := range passing {
			e, err := insertEvaluacion(ctx, repo, entries[i], now)
			if err != nil {
				return storageFailure(err, fmt.Sprintf("writing evaluacion of entry %d", i))
			}
			res.Created = append(res.Created, e)
		}
		return nil
	})
	if err != nil {
		return BatchCreateResult{}, err
	}
	return res, nil
}

// GetEvaluacion populates its examen (with dictado) and alumno.
func (svc *Service) GetEvaluacion(ctx context.Context, id int64) (Evaluacion, error) {
	var e Evaluacion
	err := svc.read("getting evaluacion", func(repo Repository) error {
		var err error
		if e, err = repo.GetEvaluacion(ctx, id); err != nil {
			return getErr(err, EntityEvaluacion, id)
		}
		return newLoader(ctx, repo).populateEvaluacion(&e)
	})
	return e, err
}

// ListEvaluaciones filters by examen, alumno and dictado (through the examen).
func (svc *Service) ListEvaluaciones(ctx context.Context, filter EvaluacionFilter, opts QueryOptions) (Listing[Evaluacion], error) {
	var out Listing[Evaluacion]
	err := svc.read("listing evaluaciones", func(repo Repository) error {
		var err error
		if out, err = list(ctx, svc, filter, opts, repo.ListEvaluaciones, repo.CountEvaluaciones); err != nil {
			return err
		}
		l := newLoader(ctx, repo)
		return each(out.Data, l.populateEvaluacion)
	})
	return out, err
}

// UpdateEvaluacion changes nota and observacion; a new examenId or alumnoId
// goes through the same checks as a creation.
func (svc *Service) UpdateEvaluacion(ctx context.Context, id int64, ue UpdateEvaluacion) (Evaluacion, error) {
	if err := ue.Validate(svc.validate); err != nil {
		return Evaluacion{}, err
	}
	var updated Evaluacion
	err := svc.inTx(ctx, "updating evaluacion", func(repo Repository) error {
		orig, err := repo.GetEvaluacion(ctx, id)
		if err != nil {
			return getErr(err, EntityEvaluacion, id)
		}
		e := ue.apply(orig)
		if e.ExamenID != orig.ExamenID || e.AlumnoID != orig.AlumnoID {
			if err = checkEvaluacion(ctx, repo, e.ExamenID, e.AlumnoID, id); err != nil {
				return err
			}
		}
		updated, err = writeEvaluacion(ctx, repo, e, svc.timestamp())
		return err
	})
	if err != nil {
		return Evaluacion{}, err
	}
	return updated, nil
}

// UpdateEvaluaciones applies nota/observacion changes. Unknown ids are reported as
// evaluation_not_found and out of range notas as invalid_grade; the rest are written
// in one transaction.
func (svc *Service) UpdateEvaluaciones(ctx context.Context, entries []BatchUpdateEntry) (BatchUpdateResult, error) {
	res := BatchUpdateResult{Updated: []Evaluacion{}, Errors: []BatchError{}}
	err := svc.inTx(ctx, "updating evaluaciones", func(repo Repository) error {
		pending := make(map[int64]Evaluacion, len(entries))
		order := make([]int64, 0, len(entries))

		for i := range entries {
			be := &entries[i]
			if err := be.Validate(svc.validate); err != nil {
				res.Errors = append(res.Errors, newBatchError(i, err))
				continue
			}
			e, seen := pending[be.ID]
			if !seen {
				var err error
				if e, err = repo.GetEvaluacion(ctx, be.ID); err != nil {
					err = getErr(err, EntityEvaluacion, be.ID)
					if KindOf(err) != KindNotFound {
						return err
					}
					res.Errors = append(res.Errors, newBatchError(i, err))
					continue
				}
				order = append(order, be.ID)
			}
			pending[be.ID] = be.update().apply(e)
		}

		now := svc.timestamp()
		for _, id := range order {
			e, err := writeEvaluacion(ctx, repo, pending[id], now)
			if err != nil {
				return err
			}
			res.Updated = append(res.Updated, e)
		}
		return nil
	})
	if err != nil {
		return BatchUpdateResult{}, err
	}
	return res, nil
}

// checkEvaluacion runs the reference, course and uniqueness checks of a grade.
// exclude is the id of the evaluacion being updated, 0 on creation.
func checkEvaluacion(ctx context.Context, repo Repository, examenID, alumnoID, exclude int64) error {
	if err := ValidateReferences(ctx, repo, References{ExamenID: &examenID, AlumnoID: &alumnoID}); err != nil {
		return err
	}
	existing, err := repo.ListEvaluaciones(ctx, EvaluacionFilter{ExamenID: &examenID, AlumnoID: &alumnoID}, ListOptions{})
	if err != nil {
		return errors.Wrap(err, "checking evaluacion uniqueness")
	}
	for _, e := range existing {
		if e.ID != exclude {
			return duplicateEvaluation(examenID, alumnoID, nil)
		}
	}
	return nil
}

func insertEvaluacion(ctx context.Context, repo Repository, ne NewEvaluacion, now time.Time) (Evaluacion, error) {
	e, err := repo.CreateEvaluacion(ctx, Evaluacion{
		Nota:        *ne.Nota,
		Observacion: ne.Observacion,
		ExamenID:    ne.ExamenID,
		AlumnoID:    ne.AlumnoID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if errors.Is(err, ErrUniqueViolation) {
		return Evaluacion{}, duplicateEvaluation(ne.ExamenID, ne.AlumnoID, err)
	}
	return e, err
}

func writeEvaluacion(ctx context.Context, repo Repository, e Evaluacion, now time.Time) (Evaluacion, error) {
	e.UpdatedAt = now
	updated, err := repo.UpdateEvaluacion(ctx, e)
	if errors.Is(err, ErrUniqueViolation) {
		return Evaluacion{}, duplicateEvaluation(e.ExamenID, e.AlumnoID, err)
	}
	return updated, err
}
