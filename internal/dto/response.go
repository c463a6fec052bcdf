package dto

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	res "cofactor-club/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// 所有业务响应都返回 HTTP 200，业务结果看 code 字段

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(http.StatusOK, res.SuccessResponse(data))
}

func ErrorResponse(c *gin.Context, err *res.BusinessError) {
	c.JSON(http.StatusOK, res.FromBusinessError(err))
}

// ValidationErrorResponse 处理绑定/校验错误，返回友好的 JSON 字段名
func ValidationErrorResponse(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.InvalidParameter),
			res.WithErrorMessage(validationMessage(validationErrs[0])),
			res.WithError(err),
		))
		return
	}

	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.ParseError),
		res.WithErrorMessage("invalid request body"),
		res.WithError(err),
	))
}

// validationMessage 只报告第一个失败的字段
func validationMessage(fe validator.FieldError) string {
	field := toSnakeCase(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", field)
	case "email":
		return fmt.Sprintf("field '%s' must be a valid email", field)
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("field '%s' must be >= %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, fe.Param())
	case "platform":
		return fmt.Sprintf("field '%s' must be one of: instagram tiktok linkedin", field)
	case "slug":
		return fmt.Sprintf("field '%s' must be lowercase words joined by '-'", field)
	default:
		return fmt.Sprintf("field '%s' failed validation: %s", field, fe.Tag())
	}
}

// toSnakeCase 将 PascalCase 转换为 snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
