package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core/attendance"
)

type attendanceApi struct {
	service *attendance.Service
}

func RegisterAttendanceAPI(g *echo.Group, optionalAuth echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{service: svc}

	ag := g.Group("/attendance")

	// check-in sources may be anonymous kiosks; attribution is best-effort
	ag.POST("/check-in", api.checkIn, optionalAuth)
	ag.GET("/recent", api.listRecent)
}

// Handlers

func (api *attendanceApi) checkIn(ctx echo.Context) error {
	data := new(attendance.NewCheckIn)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rec, err := api.service.Record(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) listRecent(ctx echo.Context) error {
	var limit int
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	summaries, err := api.service.ListRecent(ctx.Request().Context(), limit)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summaries)
}
