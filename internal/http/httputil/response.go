package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/routegraph/internal/common"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *gin.Context, status int, err string) {
	c.JSON(status, Response{
		Success: false,
		Error:   err,
	})
}

// HttpError writes e and aborts the handler chain.
func HttpError(c *gin.Context, e *common.HttpError) {
	c.AbortWithStatusJSON(e.StatusCode, Response{
		Success: false,
		Error:   e.Message,
		Code:    e.Code,
	})
}

func BadRequest(c *gin.Context, err string) {
	HttpError(c, common.HTTPErrorBadRequest(err))
}

func InternalError(c *gin.Context, err string) {
	HttpError(c, common.HTTPErrorInternalError(err))
}

func NotFound(c *gin.Context, err string) {
	HttpError(c, common.HTTPErrorNotFound(err))
}

func ServiceUnavailable(c *gin.Context, err string) {
	HttpError(c, common.HTTPErrorServiceUnavailable(err))
}
