package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core/academia"
)

func (api *academiaApi) registerPersonas(g *echo.Group) {
	pg := g.Group("/personas")
	pg.POST("", api.createPersona)
	pg.GET("", api.queryPersonas)
	pg.GET("/:dni", api.retrievePersona)
	pg.PUT("/:dni", api.updatePersona)
	pg.GET("/:dni/materias", api.queryAlumnoMaterias)
	pg.GET("/:dni/dictados-activos", api.queryDocenteActivos)
	api.registerDeletion(pg, academia.EntityPersona, "dni")

	ag := g.Group("/alumnos")
	ag.POST("", api.createAlumno)
	ag.GET("", api.queryAlumnos)

	dg := g.Group("/docentes")
	dg.POST("", api.createDocente)
	dg.GET("", api.queryDocentes)
}

func (api *academiaApi) createPersona(ctx echo.Context) error {
	var data academia.NewPersona
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	persona, err := api.svc.CreatePersona(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating persona")
	}
	return ctx.JSON(http.StatusCreated, persona)
}

func (api *academiaApi) createAlumno(ctx echo.Context) error {
	var data academia.NewPersona
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	alumno, err := api.svc.CreateAlumno(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating alumno")
	}
	return ctx.JSON(http.StatusCreated, alumno)
}

func (api *academiaApi) createDocente(ctx echo.Context) error {
	var data academia.NewPersona
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	docente, err := api.svc.CreateDocente(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating docente")
	}
	return ctx.JSON(http.StatusCreated, docente)
}

func (api *academiaApi) queryPersonas(ctx echo.Context) error {
	return api.listPersonas(ctx, api.svc.ListPersonas)
}

func (api *academiaApi) queryAlumnos(ctx echo.Context) error {
	return api.listPersonas(ctx, api.svc.ListAlumnos)
}

func (api *academiaApi) queryDocentes(ctx echo.Context) error {
	return api.listPersonas(ctx, api.svc.ListDocentes)
}

type listPersonasFunc func(ctx context.Context, filter academia.PersonaFilter, opts academia.QueryOptions) (academia.Listing[academia.Persona], error)

func (api *academiaApi) listPersonas(ctx echo.Context, list listPersonasFunc) error {
	var q personaQuery
	if err := bindQuery(ctx, &q, &q.QueryOptions); err != nil {
		return err
	}
	personas, err := list(ctx.Request().Context(), q.filter(), q.QueryOptions)
	if err != nil {
		return errors.Wrap(err, "listing personas")
	}
	return ctx.JSON(http.StatusOK, personas)
}

func (api *academiaApi) retrievePersona(ctx echo.Context) error {
	dni, err := idParam(ctx, "dni")
	if err != nil {
		return err
	}
	var opts academia.QueryOptions
	if err := bindQuery(ctx, &opts, &opts); err != nil {
		return err
	}
	persona, err := api.svc.GetPersona(ctx.Request().Context(), dni, opts)
	if err != nil {
		return errors.Wrap(err, "getting persona")
	}
	return ctx.JSON(http.StatusOK, persona)
}

func (api *academiaApi) updatePersona(ctx echo.Context) error {
	dni, err := idParam(ctx, "dni")
	if err != nil {
		return err
	}
	var data academia.UpdatePersona
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	persona, err := api.svc.UpdatePersona(ctx.Request().Context(), dni, data)
	if err != nil {
		return errors.Wrap(err, "updating persona")
	}
	return ctx.JSON(http.StatusOK, persona)
}

func (api *academiaApi) queryAlumnoMaterias(ctx echo.Context) error {
	dni, err := idParam(ctx, "dni")
	if err != nil {
		return err
	}
	materias, err := api.svc.MateriasByAlumno(ctx.Request().Context(), dni)
	if err != nil {
		return errors.Wrap(err, "listing materias of alumno")
	}
	return ctx.JSON(http.StatusOK, academia.Listing[academia.Materia]{Data: materias})
}

func (api *academiaApi) queryDocenteActivos(ctx echo.Context) error {
	dni, err := idParam(ctx, "dni")
	if err != nil {
		return err
	}
	var q activosQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &q); err != nil {
		return badRequest(err)
	}
	dictados, err := api.svc.ActiveDictadosByDocente(ctx.Request().Context(), dni, q.Fecha.Time)
	if err != nil {
		return errors.Wrap(err, "listing active dictados of docente")
	}
	return ctx.JSON(http.StatusOK, academia.Listing[academia.Dictado]{Data: dictados})
}
