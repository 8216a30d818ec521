package academia

import (
	"context"

	"github.com/trezcool/secundaria/core"
)

const defaultLimit = 10

// QueryOptions is the options bag of every read. Absent flags populate nothing and
// an absent page and limit return the full result set.
type QueryOptions struct {
	Search              string            `query:"search"`
	Page                int               `query:"page"`
	Limit               int               `query:"limit"`
	IncludeAlumnos      bool              `query:"includeAlumnos"`
	IncludeDictados     bool              `query:"includeDictados"`
	IncludeCurso        bool              `query:"includeCurso"`
	IncludeExamenes     bool              `query:"includeExamenes"`
	IncludeEvaluaciones bool              `query:"includeEvaluaciones"`
	Ordering            []core.DBOrdering `query:"-"`
}

func (o QueryOptions) paginated() bool { return o.Page > 0 || o.Limit > 0 }

// Listing is a page of results. Pagination is nil for unpaginated reads.
type Listing[T any] struct {
	Data       []T              `json:"data"`
	Pagination *core.Pagination `json:"pagination,omitempty"`
}

// listOptions turns page/limit into offset/limit, capped by the service max limit.
func (svc *Service) listOptions(o QueryOptions) (ListOptions, int) {
	lo := ListOptions{Ordering: o.Ordering}
	if !o.paginated() {
		return lo, 0
	}
	page := o.Page
	if page < 1 {
		page = 1
	}
	lo.Limit = o.Limit
	if lo.Limit < 1 {
		lo.Limit = defaultLimit
	}
	if svc.maxLimit > 0 && lo.Limit > svc.maxLimit {
		lo.Limit = svc.maxLimit
	}
	lo.Offset = (page - 1) * lo.Limit
	return lo, page
}

// list runs a listing query plus its count when paginated.
func list[T, F any](
	ctx context.Context,
	svc *Service,
	filter F,
	opts QueryOptions,
	query func(context.Context, F, ListOptions) ([]T, error),
	count func(context.Context, F) (int, error),
) (Listing[T], error) {
	lo, page := svc.listOptions(opts)
	items, err := query(ctx, filter, lo)
	if err != nil {
		return Listing[T]{}, err
	}
	if items == nil {
		items = []T{}
	}
	out := Listing[T]{Data: items}
	if page > 0 {
		total, err := count(ctx, filter)
		if err != nil {
			return Listing[T]{}, err
		}
		out.Pagination = core.NewPagination(total, page, lo.Limit)
	}
	return out, nil
}

// loader fetches relations once per read.
type loader struct {
	ctx      context.Context
	repo     Repository
	cursos   map[int64]*Curso
	materias map[int64]*Materia
	personas map[int64]*Persona
	dictados map[int64]*Dictado
	examenes map[int64]*Examen
}

func newLoader(ctx context.Context, repo Repository) *loader {
	return &loader{
		ctx:      ctx,
		repo:     repo,
		cursos:   make(map[int64]*Curso),
		materias: make(map[int64]*Materia),
		personas: make(map[int64]*Persona),
		dictados: make(map[int64]*Dictado),
		examenes: make(map[int64]*Examen),
	}
}

func (l *loader) curso(id int64) (*Curso, error) {
	if c, ok := l.cursos[id]; ok {
		return c, nil
	}
	c, err := l.repo.GetCurso(l.ctx, id)
	if err != nil {
		return nil, getErr(err, EntityCurso, id)
	}
	l.cursos[id] = &c
	return &c, nil
}

func (l *loader) materia(id int64) (*Materia, error) {
	if m, ok := l.materias[id]; ok {
		return m, nil
	}
	m, err := l.repo.GetMateria(l.ctx, id)
	if err != nil {
		return nil, getErr(err, EntityMateria, id)
	}
	l.materias[id] = &m
	return &m, nil
}

func (l *loader) persona(dni int64) (*Persona, error) {
	if p, ok := l.personas[dni]; ok {
		return p, nil
	}
	p, err := l.repo.GetPersona(l.ctx, dni)
	if err != nil {
		return nil, getErr(err, EntityPersona, dni)
	}
	l.personas[dni] = &p
	return &p, nil
}

func (l *loader) dictado(id int64) (*Dictado, error) {
	if d, ok := l.dictados[id]; ok {
		return d, nil
	}
	d, err := l.repo.GetDictado(l.ctx, id)
	if err != nil {
		return nil, getErr(err, EntityDictado, id)
	}
	if err = l.dictadoRelations(&d); err != nil {
		return nil, err
	}
	l.dictados[id] = &d
	return &d, nil
}

func (l *loader) examen(id int64) (*Examen, error) {
	if e, ok := l.examenes[id]; ok {
		return e, nil
	}
	e, err := l.repo.GetExamen(l.ctx, id)
	if err != nil {
		return nil, getErr(err, EntityExamen, id)
	}
	if e.Dictado, err = l.dictado(e.DictadoID); err != nil {
		return nil, err
	}
	l.examenes[id] = &e
	return &e, nil
}

// dictadoRelations sets curso, materia and (when assigned) docente.
func (l *loader) dictadoRelations(d *Dictado) error {
	var err error
	if d.Curso, err = l.curso(d.CursoID); err != nil {
		return err
	}
	if d.Materia, err = l.materia(d.MateriaID); err != nil {
		return err
	}
	if d.DocenteID != nil {
		if d.Docente, err = l.persona(*d.DocenteID); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) populateCurso(c *Curso, opts QueryOptions) error {
	if opts.IncludeAlumnos {
		alumnos, err := l.repo.ListPersonas(l.ctx, PersonaFilter{Tipo: TipoAlumno, CursoID: &c.ID}, ListOptions{})
		if err != nil {
			return err
		}
		c.Alumnos = alumnos
	}
	if opts.IncludeDictados {
		dictados, err := l.repo.ListDictados(l.ctx, DictadoFilter{CursoID: &c.ID}, ListOptions{})
		if err != nil {
			return err
		}
		for i := range dictados {
			d := &dictados[i]
			if d.Materia, err = l.materia(d.MateriaID); err != nil {
				return err
			}
			if d.DocenteID != nil {
				if d.Docente, err = l.persona(*d.DocenteID); err != nil {
					return err
				}
			}
		}
		c.Dictados = dictados
	}
	return nil
}

func (l *loader) populateMateria(m *Materia, opts QueryOptions) error {
	if !opts.IncludeDictados {
		return nil
	}
	dictados, err := l.repo.ListDictados(l.ctx, DictadoFilter{MateriaID: &m.ID}, ListOptions{})
	if err != nil {
		return err
	}
	for i := range dictados {
		d := &dictados[i]
		if d.Curso, err = l.curso(d.CursoID); err != nil {
			return err
		}
		if d.DocenteID != nil {
			if d.Docente, err = l.persona(*d.DocenteID); err != nil {
				return err
			}
		}
	}
	m.Dictados = dictados
	return nil
}

func (l *loader) populatePersona(p *Persona, opts QueryOptions) error {
	if !opts.IncludeCurso {
		return nil
	}
	if id := p.CursoID(); id != nil {
		c, err := l.curso(*id)
		if err != nil {
			return err
		}
		p.Curso = c
	}
	return nil
}

func (l *loader) populateDictado(d *Dictado, opts QueryOptions) error {
	if err := l.dictadoRelations(d); err != nil {
		return err
	}
	if opts.IncludeExamenes {
		examenes, err := l.repo.ListExamenes(l.ctx, ExamenFilter{DictadoID: &d.ID}, ListOptions{})
		if err != nil {
			return err
		}
		d.Examenes = examenes
	}
	return nil
}

func (l *loader) populateExamen(e *Examen, opts QueryOptions) error {
	var err error
	if e.Dictado, err = l.dictado(e.DictadoID); err != nil {
		return err
	}
	if opts.IncludeEvaluaciones {
		evals, err := l.repo.ListEvaluaciones(l.ctx, EvaluacionFilter{ExamenID: &e.ID}, ListOptions{})
		if err != nil {
			return err
		}
		for i := range evals {
			if evals[i].Alumno, err = l.persona(evals[i].AlumnoID); err != nil {
				return err
			}
		}
		e.Evaluaciones = evals
	}
	return nil
}

func (l *loader) populateEvaluacion(e *Evaluacion) error {
	var err error
	if e.Examen, err = l.examen(e.ExamenID); err != nil {
		return err
	}
	e.Alumno, err = l.persona(e.AlumnoID)
	return err
}

// each applies fn to every element of items in place.
func each[T any](items []T, fn func(*T) error) error {
	for i := range items {
		if err := fn(&items[i]); err != nil {
			return err
		}
	}
	return nil
}
