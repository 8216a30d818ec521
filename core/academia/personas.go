package academia

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core"
)

const (
	dniTaken   = "a persona with this dni already exists"
	emailTaken = "a persona with this email already exists"
)

// CreatePersona creates an alumno or a docente; an alumno's cursoId must name an existing curso.
func (svc *Service) CreatePersona(ctx context.Context, np NewPersona) (Persona, error) {
	if err := np.Validate(svc.validate); err != nil {
		return Persona{}, err
	}
	now := svc.timestamp()
	p := Persona{
		DNI:       np.DNI,
		Nombre:    np.Nombre,
		Apellido:  np.Apellido,
		Telefono:  np.Telefono,
		Direccion: np.Direccion,
		Email:     np.Email,
		Rol:       np.Rol(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	var created Persona
	err := svc.inTx(ctx, "creating persona", func(repo Repository) error {
		if err := ValidateReferences(ctx, repo, References{CursoID: np.CursoID, Enrollee: &p}); err != nil {
			return err
		}
		_, err := repo.GetPersona(ctx, np.DNI)
		switch {
		case err == nil:
			return invalidField(EntityPersona, "dni", core.NewFieldValidationError("dni", dniTaken))
		case !errors.Is(err, ErrNoRows):
			return err
		}
		created, err = repo.CreatePersona(ctx, p)
		return uniqueAs(err, EntityPersona, "email", emailTaken)
	})
	if err != nil {
		return Persona{}, err
	}
	return created, nil
}

// CreateAlumno forces the alumno variant.
func (svc *Service) CreateAlumno(ctx context.Context, np NewPersona) (Persona, error) {
	np.Tipo = TipoAlumno
	return svc.CreatePersona(ctx, np)
}

// CreateDocente forces the docente variant.
func (svc *Service) CreateDocente(ctx context.Context, np NewPersona) (Persona, error) {
	np.Tipo = TipoDocente
	return svc.CreatePersona(ctx, np)
}

// GetPersona honours IncludeCurso.
func (svc *Service) GetPersona(ctx context.Context, dni int64, opts QueryOptions) (Persona, error) {
	var p Persona
	err := svc.read("getting persona", func(repo Repository) error {
		var err error
		if p, err = repo.GetPersona(ctx, dni); err != nil {
			return getErr(err, EntityPersona, dni)
		}
		return newLoader(ctx, repo).populatePersona(&p, opts)
	})
	return p, err
}

// ListPersonas is ordered by apellido, nombre. Search matches nombre, apellido, email and especialidad.
func (svc *Service) ListPersonas(ctx context.Context, filter PersonaFilter, opts QueryOptions) (Listing[Persona], error) {
	if filter.Search == "" {
		filter.Search = opts.Search
	}
	var out Listing[Persona]
	err := svc.read("listing personas", func(repo Repository) error {
		var err error
		if out, err = list(ctx, svc, filter, opts, repo.ListPersonas, repo.CountPersonas); err != nil {
			return err
		}
		l := newLoader(ctx, repo)
		return each(out.Data, func(p *Persona) error { return l.populatePersona(p, opts) })
	})
	return out, err
}

func (svc *Service) ListAlumnos(ctx context.Context, filter PersonaFilter, opts QueryOptions) (Listing[Persona], error) {
	filter.Tipo = TipoAlumno
	return svc.ListPersonas(ctx, filter, opts)
}

func (svc *Service) ListDocentes(ctx context.Context, filter PersonaFilter, opts QueryOptions) (Listing[Persona], error) {
	filter.Tipo = TipoDocente
	return svc.ListPersonas(ctx, filter, opts)
}

// AlumnosByCurso lists the alumnos enrolled in an existing curso.
func (svc *Service) AlumnosByCurso(ctx context.Context, cursoID int64, opts QueryOptions) (Listing[Persona], error) {
	if _, err := svc.GetCurso(ctx, cursoID, QueryOptions{}); err != nil {
		return Listing[Persona]{}, err
	}
	return svc.ListAlumnos(ctx, PersonaFilter{CursoID: &cursoID}, opts)
}

// MateriasByAlumno returns the materias of the dictados of the alumno's curso.
// An unenrolled alumno has none.
func (svc *Service) MateriasByAlumno(ctx context.Context, dni int64) ([]Materia, error) {
	var materias []Materia
	err := svc.read("listing materias of alumno", func(repo Repository) error {
		p, err := repo.GetPersona(ctx, dni)
		if err != nil {
			return getErr(err, EntityPersona, dni)
		}
		if !p.IsAlumno() {
			return roleMismatch("dni", dni, TipoAlumno)
		}
		if p.CursoID() == nil {
			return nil
		}
		materias, err = repo.ListMateriasByCurso(ctx, *p.CursoID())
		return err
	})
	if materias == nil {
		materias = []Materia{}
	}
	return materias, err
}

// UpdatePersona applies a partial update. tipo cannot change; an alumno may be
// moved to another curso or unenrolled with an explicit null cursoId.
func (svc *Service) UpdatePersona(ctx context.Context, dni int64, up UpdatePersona) (Persona, error) {
	if err := up.Validate(svc.validate); err != nil {
		return Persona{}, err
	}
	var updated Persona
	err := svc.inTx(ctx, "updating persona", func(repo Repository) error {
		orig, err := repo.GetPersona(ctx, dni)
		if err != nil {
			return getErr(err, EntityPersona, dni)
		}
		p, err := up.apply(orig)
		if err != nil {
			return err
		}
		if up.CursoID.ID != nil {
			if err = ValidateReferences(ctx, repo, References{CursoID: up.CursoID.ID, Enrollee: &p}); err != nil {
				return err
			}
		}
		p.UpdatedAt = svc.timestamp()
		updated, err = repo.UpdatePersona(ctx, p)
		return uniqueAs(err, EntityPersona, "email", emailTaken)
	})
	if err != nil {
		return Persona{}, err
	}
	if up.CursoID.Set && updated.IsAlumno() && updated.CursoID() == nil {
		svc.log.Info("alumno unenrolled", map[string]interface{}{"dni": dni})
	}
	return updated, nil
}
