package echoapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core"
	"github.com/trezcool/secundaria/core/academia"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads `?ordering=a,-b`: a leading "-" sorts descending.
func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// bindQuery fills dest from the query string and returns the shared read options.
func bindQuery(ctx echo.Context, dest interface{}, opts *academia.QueryOptions) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, dest); err != nil {
		return badRequest(err)
	}
	if opts.Page < 0 || opts.Limit < 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "page", Error: "page and limit must be positive"})
	}
	var ord Ordering
	ord.Bind(ctx)
	opts.Ordering = ord.Orderings
	return nil
}

// bindBody decodes the JSON body into dest.
func bindBody(ctx echo.Context, dest interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(ctx, dest); err != nil {
		return badRequest(err)
	}
	return nil
}

// idParam parses the `:id` path parameter (a dni for personas).
func idParam(ctx echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, core.NewFieldValidationError(name, "must be a positive integer")
	}
	return id, nil
}

// badRequest unwraps echo binding errors into a 400.
func badRequest(err error) error {
	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		return herr
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
}

func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

// query structs

type cursoQuery struct {
	academia.QueryOptions
	Turno academia.Turno `query:"turno"`
}

func (q cursoQuery) filter() academia.CursoFilter {
	return academia.CursoFilter{Turno: academia.Turno(core.CleanString(string(q.Turno)))}
}

type personaQuery struct {
	academia.QueryOptions
	Tipo         academia.Tipo `query:"tipo"`
	CursoID      int64         `query:"cursoId"`
	Especialidad string        `query:"especialidad"`
}

func (q personaQuery) filter() academia.PersonaFilter {
	return academia.PersonaFilter{
		Tipo:         academia.Tipo(core.CleanString(string(q.Tipo), true /* lower */)),
		CursoID:      optionalID(q.CursoID),
		Especialidad: q.Especialidad,
	}
}

type dictadoQuery struct {
	academia.QueryOptions
	CursoID   int64 `query:"cursoId"`
	MateriaID int64 `query:"materiaId"`
	DocenteID int64 `query:"docenteId"`
	Anio      int   `query:"anio"`
}

func (q dictadoQuery) filter() academia.DictadoFilter {
	return academia.DictadoFilter{
		CursoID:   optionalID(q.CursoID),
		MateriaID: optionalID(q.MateriaID),
		DocenteID: optionalID(q.DocenteID),
		Anio:      q.Anio,
	}
}

// activosQuery is a dictadoQuery evaluated at Fecha (today when absent).
type activosQuery struct {
	CursoID   int64         `query:"cursoId"`
	DocenteID int64         `query:"docenteId"`
	Fecha     academia.Date `query:"fecha"`
}

type examenQuery struct {
	academia.QueryOptions
	DictadoID int64 `query:"dictadoId"`
	MateriaID int64 `query:"materiaId"`
	CursoID   int64 `query:"cursoId"`
}

func (q examenQuery) filter() academia.ExamenFilter {
	return academia.ExamenFilter{
		DictadoID: optionalID(q.DictadoID),
		MateriaID: optionalID(q.MateriaID),
		CursoID:   optionalID(q.CursoID),
	}
}

type evaluacionQuery struct {
	academia.QueryOptions
	ExamenID  int64 `query:"examenId"`
	AlumnoID  int64 `query:"alumnoId"`
	DictadoID int64 `query:"dictadoId"`
}

func (q evaluacionQuery) filter() academia.EvaluacionFilter {
	return academia.EvaluacionFilter{
		ExamenID:  optionalID(q.ExamenID),
		AlumnoID:  optionalID(q.AlumnoID),
		DictadoID: optionalID(q.DictadoID),
	}
}
