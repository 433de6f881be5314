package serviceutils

import (
	"github.com/labstack/echo/v4"
)

// GenericResponse is the envelope for every JSON response. Error may be
// set alongside Success=true for partial-success outcomes (e.g. a task
// created whose project link failed).
type GenericResponse struct {
	Success bool
	Message string
	Data    interface{}
	Error   string
}

func ResponseSuccess(c echo.Context, code int, msg string, data interface{}) error {
	return c.JSON(code, GenericResponse{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

func ResponseError(c echo.Context, code int, msg string, err error) error {
	resp := GenericResponse{
		Success: false,
		Message: msg,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(code, resp)
}
