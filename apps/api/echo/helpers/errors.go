package helpers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/profile"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errTokenSigningFailed   = errors.New("failed to sign token")
)

func AppHTTPErrorHandler(err error, c echo.Context) {
	var code int
	var message interface{}

	switch terr := err.(type) {
	case *echo.HTTPError:
		if terr == middleware.ErrJWTMissing {
			code = http.StatusUnauthorized
			message = terr.Message
			break
		}
		if terr.Internal != nil {
			if herr, ok := terr.Internal.(*echo.HTTPError); ok {
				terr = herr
			}
		}
		code = terr.Code
		message = terr.Message
	case validator.ValidationErrors:
		fldErrs := make(map[string]string)
		for _, vErr := range terr {
			fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
		}
		code = http.StatusBadRequest
		message = fldErrs
	case *core.ValidationError:
		if terr.Fields != nil {
			fldErrs := make(map[string]string)
			for _, fErr := range terr.Fields {
				fldErrs[fErr.Field] = fErr.Error
			}
			message = fldErrs
		} else {
			message = terr.Error()
		}
		code = http.StatusBadRequest
	default:
		code, message = errorCode(err)
	}

	if c.Echo().Debug {
		message = err.Error()
	} else if m, ok := message.(string); ok {
		message = echo.Map{"error": m}
	}

	// Send response
	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead { // Issue #608
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, message)
		}
		if err != nil {
			c.Echo().Logger.Error(err)
		}
	}
}

// errorCode maps the recording failure taxonomy to HTTP statuses. Timeouts
// are distinguished from rejections so clients can offer a retry.
func errorCode(err error) (int, interface{}) {
	switch {
	case errors.Is(err, course.ErrNoActor):
		return http.StatusUnauthorized, "an authenticated actor is required"
	case errors.Is(err, profile.ErrProvisioningTimeout):
		return http.StatusGatewayTimeout, "student record is still being provisioned, try again"
	case errors.Is(err, profile.ErrProvisioningFailed):
		return http.StatusBadGateway, "failed to create student record"
	case errors.Is(err, attendance.ErrIdentityFailure):
		return http.StatusBadGateway, "failed to resolve student record"
	case errors.Is(err, attendance.ErrWriteFailure), errors.Is(err, course.ErrWriteFailed):
		return http.StatusInternalServerError, "failed to save record"
	case errors.Is(err, profile.ErrNotFound), errors.Is(err, course.ErrNotFound):
		return http.StatusNotFound, "not found"
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
