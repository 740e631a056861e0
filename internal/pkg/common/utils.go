package common

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// RequestID 取得請求 ID，若無則生成並寫回響應頭
func RequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.Writer.Header().Get("X-Request-ID")
	}
	if requestID == "" {
		requestID = GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// WriteError 寫入錯誤響應，debug 模式下附上原始錯誤
func WriteError(c *gin.Context, err *CustomError, debug bool) {
	resp := ErrorResponse{
		Code:    err.Code,
		Message: err.Message,
	}
	if debug && err.Err != nil {
		resp.Details = err.Err.Error()
	}
	c.AbortWithStatusJSON(err.Status, resp)
}
