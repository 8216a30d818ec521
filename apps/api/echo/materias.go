package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core/academia"
)

func (api *academiaApi) registerMaterias(g *echo.Group) {
	mg := g.Group("/materias")
	mg.POST("", api.createMateria)
	mg.GET("", api.queryMaterias)
	mg.GET("/:id", api.retrieveMateria)
	mg.PUT("/:id", api.updateMateria)
	api.registerDeletion(mg, academia.EntityMateria, "id")
}

func (api *academiaApi) createMateria(ctx echo.Context) error {
	var data academia.NewMateria
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	materia, err := api.svc.CreateMateria(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating materia")
	}
	return ctx.JSON(http.StatusCreated, materia)
}

func (api *academiaApi) queryMaterias(ctx echo.Context) error {
	var opts academia.QueryOptions
	if err := bindQuery(ctx, &opts, &opts); err != nil {
		return err
	}
	materias, err := api.svc.ListMaterias(ctx.Request().Context(), opts)
	if err != nil {
		return errors.Wrap(err, "listing materias")
	}
	return ctx.JSON(http.StatusOK, materias)
}

func (api *academiaApi) retrieveMateria(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var opts academia.QueryOptions
	if err := bindQuery(ctx, &opts, &opts); err != nil {
		return err
	}
	materia, err := api.svc.GetMateria(ctx.Request().Context(), id, opts)
	if err != nil {
		return errors.Wrap(err, "getting materia")
	}
	return ctx.JSON(http.StatusOK, materia)
}

func (api *academiaApi) updateMateria(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var data academia.UpdateMateria
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	materia, err := api.svc.UpdateMateria(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating materia")
	}
	return ctx.JSON(http.StatusOK, materia)
}
