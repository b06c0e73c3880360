package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-workout-tracker/internal/domain"
	resp "go-workout-tracker/internal/transport/http/response"
)

// OK 统一成功响应
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, resp.OK(data))
}

// List 分页列表响应
func List(c *gin.Context, items any, total int64, page, size int) {
	c.JSON(http.StatusOK, resp.OK(gin.H{
		"list": items, "total": total, "page": page, "size": size,
	}))
}

// Fail 集中错误翻译：领域错误 → HTTP 状态 + 响应体。
// 未识别错误一律 500 且不外带内部信息（SQL、堆栈等）。
func Fail(c *gin.Context, err error) {
	var (
		conflict   *domain.ConflictError
		rule       *domain.BusinessRuleError
		validation *domain.ValidationError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, "not found"))
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "forbidden"))
	case errors.Is(err, domain.ErrVersionConflict):
		c.JSON(http.StatusConflict, resp.Error(resp.CodeConflict, err.Error()))
	case errors.Is(err, domain.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, resp.Error(resp.CodeConflict, conflict.Error()))
	case errors.As(err, &rule):
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, rule.Error()))
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, resp.ErrorWithData(resp.CodeBadRequest, "validation failed", gin.H{
			"errors": validation.Fields,
		}))
	default:
		_ = c.Error(err) // 进访问日志
		c.JSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, ""))
	}
}

// BadRequest 绑定失败等入参错误
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, msg))
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, msg))
}

// Page 解析 page/size，带上限保护
func Page(c *gin.Context) (page, size int) {
	page = atoiDefault(c.Query("page"), 1)
	size = atoiDefault(c.Query("size"), 20)
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
