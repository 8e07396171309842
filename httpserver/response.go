package httpserver

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	successMessage = "OK"
	jsonIndent     = "    "
)

type APIResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Result  interface{} `json:"result,omitempty"`
}

func writeSuccess(c echo.Context, status int, result interface{}) error {
	return c.JSON(status, APIResponse{
		Code:    strconv.Itoa(status),
		Message: successMessage,
		Result:  result,
	})
}

// writePretty writes body as JSON indented with four spaces.
func writePretty(c echo.Context, status int, body interface{}) error {
	return c.JSONPretty(status, body, jsonIndent)
}
