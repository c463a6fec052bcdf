package dto

import (
	"regexp"

	"cofactor-club/internal/model/user"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SlugPattern 页面 slug：小写字母数字，用 - 连接
var SlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// RegisterValidations 在 gin 的校验器上注册自定义规则，启动时调用一次
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return SlugPattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
		_, ok := user.ParsePlatform(fl.Field().String())
		return ok
	})
}
