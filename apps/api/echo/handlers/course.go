package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core/course"
)

type courseApi struct {
	service *course.Service
}

func RegisterCourseAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *course.Service) {
	api := courseApi{service: svc}

	cg := g.Group("/courses", auth)

	// session-start precondition for the check-in path
	cg.POST("/default", api.ensureDefault)
}

func (api *courseApi) ensureDefault(ctx echo.Context) error {
	crs, err := api.service.EnsureDefault(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}
