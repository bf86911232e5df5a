package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("resource not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrEmailRegistered = errors.New("该邮箱已被注册")
	ErrInvalidLogin    = errors.New("invalid credentials")
	ErrExternalService = errors.New("external service error")
	ErrMissingAPIKey   = errors.New("AI api key not configured")
)

// HandleServiceError 将服务层错误映射为HTTP状态码
// 未识别的错误统一返回500，详细信息仅记录在服务端日志
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c)
	case errors.Is(err, ErrAccessDenied):
		Forbidden(c)
	case errors.Is(err, ErrEmailRegistered):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrInvalidLogin):
		Unauthorized(c)
	case errors.Is(err, ErrMissingAPIKey):
		Error(c, http.StatusInternalServerError, "AI service not configured")
	case errors.Is(err, ErrExternalService):
		Error(c, http.StatusBadGateway, "Upstream AI service failed")
	default:
		LogInternalError(c, err)
	}
}
