package academia

import "context"

const nombreTaken = "a materia with this nombre already exists"

func (svc *Service) CreateMateria(ctx context.Context, nm NewMateria) (Materia, error) {
	if err := nm.Validate(svc.validate); err != nil {
		return Materia{}, err
	}
	now := svc.timestamp()
	var created Materia
	err := svc.inTx(ctx, "creating materia", func(repo Repository) error {
		var err error
		created, err = repo.CreateMateria(ctx, Materia{
			Nombre:      nm.Nombre,
			Descripcion: nm.Descripcion,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		return uniqueAs(err, EntityMateria, "nombre", nombreTaken)
	})
	if err != nil {
		return Materia{}, err
	}
	return created, nil
}

// GetMateria honours IncludeDictados.
func (svc *Service) GetMateria(ctx context.Context, id int64, opts QueryOptions) (Materia, error) {
	var m Materia
	err := svc.read("getting materia", func(repo Repository) error {
		var err error
		if m, err = repo.GetMateria(ctx, id); err != nil {
			return getErr(err, EntityMateria, id)
		}
		return newLoader(ctx, repo).populateMateria(&m, opts)
	})
	return m, err
}

// ListMaterias is ordered by nombre; Search matches nombre and descripcion.
func (svc *Service) ListMaterias(ctx context.Context, opts QueryOptions) (Listing[Materia], error) {
	filter := MateriaFilter{Search: opts.Search}
	var out Listing[Materia]
	err := svc.read("listing materias", func(repo Repository) error {
		var err error
		if out, err = list(ctx, svc, filter, opts, repo.ListMaterias, repo.CountMaterias); err != nil {
			return err
		}
		l := newLoader(ctx, repo)
		return each(out.Data, func(m *Materia) error { return l.populateMateria(m, opts) })
	})
	return out, err
}

func (svc *Service) UpdateMateria(ctx context.Context, id int64, um UpdateMateria) (Materia, error) {
	if err := um.Validate(svc.validate); err != nil {
		return Materia{}, err
	}
	var updated Materia
	err := svc.inTx(ctx, "updating materia", func(repo Repository) error {
		m, err := repo.GetMateria(ctx, id)
		if err != nil {
			return getErr(err, EntityMateria, id)
		}
		setString(&m.Nombre, um.Nombre)
		setString(&m.Descripcion, um.Descripcion)
		m.UpdatedAt = svc.timestamp()
		updated, err = repo.UpdateMateria(ctx, m)
		return uniqueAs(err, EntityMateria, "nombre", nombreTaken)
	})
	if err != nil {
		return Materia{}, err
	}
	return updated, nil
}
