package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core/academia"
)

func (api *academiaApi) registerExamenes(g *echo.Group) {
	eg := g.Group("/examenes")
	eg.POST("", api.createExamen)
	eg.GET("", api.queryExamenes)
	eg.GET("/:id", api.retrieveExamen)
	eg.PUT("/:id", api.updateExamen)
	api.registerDeletion(eg, academia.EntityExamen, "id")
}

func (api *academiaApi) createExamen(ctx echo.Context) error {
	var data academia.NewExamen
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	examen, err := api.svc.CreateExamen(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating examen")
	}
	return ctx.JSON(http.StatusCreated, examen)
}

func (api *academiaApi) queryExamenes(ctx echo.Context) error {
	var q examenQuery
	if err := bindQuery(ctx, &q, &q.QueryOptions); err != nil {
		return err
	}
	examenes, err := api.svc.ListExamenes(ctx.Request().Context(), q.filter(), q.QueryOptions)
	if err != nil {
		return errors.Wrap(err, "listing examenes")
	}
	return ctx.JSON(http.StatusOK, examenes)
}

func (api *academiaApi) retrieveExamen(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var opts academia.QueryOptions
	if err := bindQuery(ctx, &opts, &opts); err != nil {
		return err
	}
	examen, err := api.svc.GetExamen(ctx.Request().Context(), id, opts)
	if err != nil {
		return errors.Wrap(err, "getting examen")
	}
	return ctx.JSON(http.StatusOK, examen)
}

func (api *academiaApi) updateExamen(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var data academia.UpdateExamen
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	examen, err := api.svc.UpdateExamen(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating examen")
	}
	return ctx.JSON(http.StatusOK, examen)
}
