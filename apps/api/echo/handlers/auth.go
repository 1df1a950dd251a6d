package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/apps/api/echo/helpers"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/profile"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	authApi struct {
		conf    *core.Config
		service *profile.Service
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return core.Validate.Struct(lr)
}

func RegisterAuthAPI(g *echo.Group, conf *core.Config, svc *profile.Service) {
	api := authApi{conf: conf, service: svc}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
}

func (api *authApi) login(ctx echo.Context) error {
	data := new(LoginRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := helpers.Authenticate(ctx.Request().Context(), api.conf, data.Email, data.Password, api.service)
	if err != nil {
		return err
	}
	token, err := helpers.GenerateToken(api.conf, claims)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}
