package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core"
	"github.com/trezcool/secundaria/core/academia"
)

var errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")

// kindStatus maps engine error kinds to response codes. StorageFailure and unknown kinds are 500s.
var kindStatus = map[academia.Kind]int{
	academia.KindNotFound:            http.StatusNotFound,
	academia.KindRoleMismatch:        http.StatusUnprocessableEntity,
	academia.KindStudentNotInCourse:  http.StatusUnprocessableEntity,
	academia.KindDuplicateEvaluation: http.StatusConflict,
	academia.KindDeletionBlocked:     http.StatusConflict,
	academia.KindInvalidField:        http.StatusBadRequest,
}

// engineError is the body of a 4xx caused by an academia.Error.
type engineError struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Field   string            `json:"field,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Reasons []string          `json:"reasons,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		var engErr *academia.Error
		var engErrs academia.Errors

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = translateFields(origErr, translator)
		case *core.ValidationError:
			if origErr.Fields != nil {
				message = fieldMap(origErr.Fields)
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			switch {
			case errors.As(err, &engErrs):
				body := make([]engineError, 0, len(engErrs))
				for _, e := range engErrs {
					body = append(body, newEngineError(e, translator))
				}
				code = statusOf(engErrs[0])
				message = echo.Map{"errors": body}
			case errors.As(err, &engErr) && engErr.Kind != academia.KindStorageFailure && statusOf(engErr) < 500:
				code = statusOf(engErr)
				message = newEngineError(engErr, translator)
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				logger.Error(msg, errors.Wrap(err, msg), ctx.Request(), map[string]interface{}{
					"requestId": ctx.Response().Header().Get(echo.HeaderXRequestID),
				})

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug && code >= http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func statusOf(e *academia.Error) int {
	if code, ok := kindStatus[e.Kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func newEngineError(e *academia.Error, translator ut.Translator) engineError {
	body := engineError{
		Error:   e.Error(),
		Code:    e.Code,
		Field:   e.Field,
		Reasons: e.Reasons,
	}
	if e.Kind != academia.KindInvalidField {
		return body
	}
	var verrs validator.ValidationErrors
	var vErr *core.ValidationError
	switch {
	case errors.As(e, &verrs):
		body.Fields = translateFields(verrs, translator)
		body.Error = "invalid input"
	case errors.As(e, &vErr) && vErr.Fields != nil:
		body.Fields = fieldMap(vErr.Fields)
		body.Error = vErr.Fields[0].Error
	}
	return body
}

func translateFields(verrs validator.ValidationErrors, translator ut.Translator) map[string]string {
	fldErrs := make(map[string]string, len(verrs))
	for _, vErr := range verrs {
		fldErrs[vErr.Field()] = vErr.Translate(translator)
	}
	return fldErrs
}

func fieldMap(flds []core.FieldError) map[string]string {
	fldErrs := make(map[string]string, len(flds))
	for _, fErr := range flds {
		fldErrs[fErr.Field] = fErr.Error
	}
	return fldErrs
}
