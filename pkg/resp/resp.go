package resp

import (
	"net/http"

	"foodcart/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error writes the error envelope. Internal causes are kept for the request
// log and never sent to the client.
func Error(c *gin.Context, err error) {
	e := apperr.As(err)
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(e.Kind.HTTPStatus(), ErrorBody{Message: e.Message, Code: e.Code})
}

func BadRequest(c *gin.Context, msg string) {
	Error(c, apperr.ErrValidation.Withf("%s", msg))
}
