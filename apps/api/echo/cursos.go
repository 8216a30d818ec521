package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core/academia"
)

func (api *academiaApi) registerCursos(g *echo.Group) {
	cg := g.Group("/cursos")
	cg.POST("", api.createCurso)
	cg.GET("", api.queryCursos)
	cg.GET("/:id", api.retrieveCurso)
	cg.PUT("/:id", api.updateCurso)
	cg.GET("/:id/alumnos", api.queryCursoAlumnos)
	api.registerDeletion(cg, academia.EntityCurso, "id")
}

func (api *academiaApi) createCurso(ctx echo.Context) error {
	var data academia.NewCurso
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	curso, err := api.svc.CreateCurso(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating curso")
	}
	return ctx.JSON(http.StatusCreated, curso)
}

func (api *academiaApi) queryCursos(ctx echo.Context) error {
	var q cursoQuery
	if err := bindQuery(ctx, &q, &q.QueryOptions); err != nil {
		return err
	}
	cursos, err := api.svc.ListCursos(ctx.Request().Context(), q.filter(), q.QueryOptions)
	if err != nil {
		return errors.Wrap(err, "listing cursos")
	}
	return ctx.JSON(http.StatusOK, cursos)
}

func (api *academiaApi) retrieveCurso(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var opts academia.QueryOptions
	if err := bindQuery(ctx, &opts, &opts); err != nil {
		return err
	}
	curso, err := api.svc.GetCurso(ctx.Request().Context(), id, opts)
	if err != nil {
		return errors.Wrap(err, "getting curso")
	}
	return ctx.JSON(http.StatusOK, curso)
}

func (api *academiaApi) updateCurso(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var data academia.UpdateCurso
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	curso, err := api.svc.UpdateCurso(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating curso")
	}
	return ctx.JSON(http.StatusOK, curso)
}

func (api *academiaApi) queryCursoAlumnos(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var opts academia.QueryOptions
	if err := bindQuery(ctx, &opts, &opts); err != nil {
		return err
	}
	alumnos, err := api.svc.AlumnosByCurso(ctx.Request().Context(), id, opts)
	if err != nil {
		return errors.Wrap(err, "listing alumnos by curso")
	}
	return ctx.JSON(http.StatusOK, alumnos)
}
