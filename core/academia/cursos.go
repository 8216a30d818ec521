package academia

import "context"

const nroLetraTaken = "a curso with this nroLetra already exists"

func (svc *Service) CreateCurso(ctx context.Context, nc NewCurso) (Curso, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Curso{}, err
	}
	now := svc.timestamp()
	var created Curso
	err := svc.inTx(ctx, "creating curso", func(repo Repository) error {
		var err error
		created, err = repo.CreateCurso(ctx, Curso{
			NroLetra:  nc.NroLetra,
			Turno:     nc.Turno,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return uniqueAs(err, EntityCurso, "nroLetra", nroLetraTaken)
	})
	if err != nil {
		return Curso{}, err
	}
	return created, nil
}

// GetCurso honours IncludeAlumnos and IncludeDictados.
func (svc *Service) GetCurso(ctx context.Context, id int64, opts QueryOptions) (Curso, error) {
	var c Curso
	err := svc.read("getting curso", func(repo Repository) error {
		var err error
		if c, err = repo.GetCurso(ctx, id); err != nil {
			return getErr(err, EntityCurso, id)
		}
		return newLoader(ctx, repo).populateCurso(&c, opts)
	})
	return c, err
}

// ListCursos is ordered by nroLetra unless opts says otherwise.
func (svc *Service) ListCursos(ctx context.Context, filter CursoFilter, opts QueryOptions) (Listing[Curso], error) {
	if filter.Search == "" {
		filter.Search = opts.Search
	}
	var out Listing[Curso]
	err := svc.read("listing cursos", func(repo Repository) error {
		var err error
		if out, err = list(ctx, svc, filter, opts, repo.ListCursos, repo.CountCursos); err != nil {
			return err
		}
		l := newLoader(ctx, repo)
		return each(out.Data, func(c *Curso) error { return l.populateCurso(c, opts) })
	})
	return out, err
}

func (svc *Service) UpdateCurso(ctx context.Context, id int64, uc UpdateCurso) (Curso, error) {
	if err := uc.Validate(svc.validate); err != nil {
		return Curso{}, err
	}
	var updated Curso
	err := svc.inTx(ctx, "updating curso", func(repo Repository) error {
		c, err := repo.GetCurso(ctx, id)
		if err != nil {
			return getErr(err, EntityCurso, id)
		}
		if uc.NroLetra != nil {
			c.NroLetra = *uc.NroLetra
		}
		if uc.Turno != nil {
			c.Turno = *uc.Turno
		}
		c.UpdatedAt = svc.timestamp()
		updated, err = repo.UpdateCurso(ctx, c)
		return uniqueAs(err, EntityCurso, "nroLetra", nroLetraTaken)
	})
	if err != nil {
		return Curso{}, err
	}
	return updated, nil
}
