package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core"
	"github.com/trezcool/secundaria/core/academia"
)

type academiaApi struct {
	svc    *academia.Service
	logger core.Logger
}

// destroy deletes the entity identified by the `param` path parameter.
func (api *academiaApi) destroy(kind academia.EntityKind, param string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := idParam(ctx, param)
		if err != nil {
			return err
		}
		if err := api.svc.Delete(ctx.Request().Context(), kind, id); err != nil {
			return errors.Wrapf(err, "deleting %s", kind)
		}
		api.logger.Info(fmt.Sprintf("%s %d deleted", kind, id), map[string]interface{}{
			"requestId": ctx.Response().Header().Get(echo.HeaderXRequestID),
		})
		return ctx.NoContent(http.StatusNoContent)
	}
}

// canDelete previews the deletion of the entity identified by the `param` path parameter.
func (api *academiaApi) canDelete(kind academia.EntityKind, param string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := idParam(ctx, param)
		if err != nil {
			return err
		}
		verdict, err := api.svc.CanDelete(ctx.Request().Context(), kind, id)
		if err != nil {
			return errors.Wrapf(err, "checking %s deletion", kind)
		}
		return ctx.JSON(http.StatusOK, verdict)
	}
}

// registerDeletion adds `DELETE /:param` and `GET /:param/can-delete` to g.
func (api *academiaApi) registerDeletion(g *echo.Group, kind academia.EntityKind, param string) {
	g.DELETE("/:"+param, api.destroy(kind, param))
	g.GET("/:"+param+"/can-delete", api.canDelete(kind, param))
}
