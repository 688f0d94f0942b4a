package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Code string

const (
	SUCCESS Code = "SUCCESS"
	FAIL    Code = "FAIL"
)

func Response(ctx *gin.Context, code Code, data interface{}) {
	if code == FAIL {
		var message interface{}
		if s, ok := data.(string); ok {
			message = s
			data = nil
		}
		ctx.JSON(http.StatusOK, gin.H{
			"Code":    code,
			"Message": message,
			"Data":    data,
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"Code":    code,
		"Message": nil,
		"Data":    data,
	})
}

func ResponseError(ctx *gin.Context, err error) {
	Response(ctx, FAIL, err.Error())
}

func ResponseSuccess(ctx *gin.Context, data interface{}) {
	Response(ctx, SUCCESS, data)
}
