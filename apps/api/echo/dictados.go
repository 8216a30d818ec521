package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core/academia"
)

func (api *academiaApi) registerDictados(g *echo.Group) {
	dg := g.Group("/dictados")
	dg.POST("", api.createDictado)
	dg.GET("", api.queryDictados)
	dg.GET("/activos", api.queryActivos)
	dg.GET("/:id", api.retrieveDictado)
	dg.PUT("/:id", api.updateDictado)
	api.registerDeletion(dg, academia.EntityDictado, "id")
}

func (api *academiaApi) createDictado(ctx echo.Context) error {
	var data academia.NewDictado
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	dictado, err := api.svc.CreateDictado(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating dictado")
	}
	return ctx.JSON(http.StatusCreated, dictado)
}

func (api *academiaApi) queryDictados(ctx echo.Context) error {
	var q dictadoQuery
	if err := bindQuery(ctx, &q, &q.QueryOptions); err != nil {
		return err
	}
	dictados, err := api.svc.ListDictados(ctx.Request().Context(), q.filter(), q.QueryOptions)
	if err != nil {
		return errors.Wrap(err, "listing dictados")
	}
	return ctx.JSON(http.StatusOK, dictados)
}

// queryActivos lists the dictados active on `?fecha=YYYY-MM-DD` (today when absent).
func (api *academiaApi) queryActivos(ctx echo.Context) error {
	var q activosQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &q); err != nil {
		return badRequest(err)
	}
	filter := academia.DictadoFilter{
		CursoID:   optionalID(q.CursoID),
		DocenteID: optionalID(q.DocenteID),
	}
	dictados, err := api.svc.ActiveDictados(ctx.Request().Context(), q.Fecha.Time, filter)
	if err != nil {
		return errors.Wrap(err, "listing active dictados")
	}
	return ctx.JSON(http.StatusOK, academia.Listing[academia.Dictado]{Data: dictados})
}

func (api *academiaApi) retrieveDictado(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var opts academia.QueryOptions
	if err := bindQuery(ctx, &opts, &opts); err != nil {
		return err
	}
	dictado, err := api.svc.GetDictado(ctx.Request().Context(), id, opts)
	if err != nil {
		return errors.Wrap(err, "getting dictado")
	}
	return ctx.JSON(http.StatusOK, dictado)
}

func (api *academiaApi) updateDictado(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var data academia.UpdateDictado
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	dictado, err := api.svc.UpdateDictado(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating dictado")
	}
	return ctx.JSON(http.StatusOK, dictado)
}
