package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core"
	"github.com/trezcool/secundaria/core/academia"
)

func (api *academiaApi) registerEvaluaciones(g *echo.Group) {
	eg := g.Group("/evaluaciones")
	eg.POST("", api.createEvaluacion)
	eg.GET("", api.queryEvaluaciones)
	eg.POST("/batch", api.createEvaluaciones)
	eg.PUT("/batch", api.updateEvaluaciones)
	eg.GET("/:id", api.retrieveEvaluacion)
	eg.PUT("/:id", api.updateEvaluacion)
	api.registerDeletion(eg, academia.EntityEvaluacion, "id")
}

func (api *academiaApi) createEvaluacion(ctx echo.Context) error {
	var data academia.NewEvaluacion
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	evaluacion, err := api.svc.CreateEvaluacion(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating evaluacion")
	}
	return ctx.JSON(http.StatusCreated, evaluacion)
}

// createEvaluaciones answers 200 with the created evaluaciones and the rejected entries.
func (api *academiaApi) createEvaluaciones(ctx echo.Context) error {
	var entries []academia.NewEvaluacion
	if err := bindBody(ctx, &entries); err != nil {
		return err
	}
	if len(entries) == 0 {
		return core.NewFieldValidationError("entries", "at least one entry is required")
	}
	res, err := api.svc.CreateEvaluaciones(ctx.Request().Context(), entries)
	if err != nil {
		return errors.Wrap(err, "creating evaluaciones")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *academiaApi) updateEvaluaciones(ctx echo.Context) error {
	var entries []academia.BatchUpdateEntry
	if err := bindBody(ctx, &entries); err != nil {
		return err
	}
	if len(entries) == 0 {
		return core.NewFieldValidationError("entries", "at least one entry is required")
	}
	res, err := api.svc.UpdateEvaluaciones(ctx.Request().Context(), entries)
	if err != nil {
		return errors.Wrap(err, "updating evaluaciones")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *academiaApi) queryEvaluaciones(ctx echo.Context) error {
	var q evaluacionQuery
	if err := bindQuery(ctx, &q, &q.QueryOptions); err != nil {
		return err
	}
	evaluaciones, err := api.svc.ListEvaluaciones(ctx.Request().Context(), q.filter(), q.QueryOptions)
	if err != nil {
		return errors.Wrap(err, "listing evaluaciones")
	}
	return ctx.JSON(http.StatusOK, evaluaciones)
}

func (api *academiaApi) retrieveEvaluacion(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	evaluacion, err := api.svc.GetEvaluacion(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting evaluacion")
	}
	return ctx.JSON(http.StatusOK, evaluacion)
}

func (api *academiaApi) updateEvaluacion(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var data academia.UpdateEvaluacion
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	evaluacion, err := api.svc.UpdateEvaluacion(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating evaluacion")
	}
	return ctx.JSON(http.StatusOK, evaluacion)
}
