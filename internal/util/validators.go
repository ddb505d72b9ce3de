package util

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidateNotBlank 验证字符串去除空白后不为空
func ValidateNotBlank(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return strings.TrimSpace(s) != ""
}

// ValidateUniqueIDs 验证整数切片中没有重复的 ID
func ValidateUniqueIDs(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}
	seen := make(map[int64]struct{}, field.Len())
	for i := 0; i < field.Len(); i++ {
		elem := field.Index(i)
		if elem.Kind() != reflect.Int && elem.Kind() != reflect.Int64 {
			return false
		}
		id := elem.Int()
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}

// RegisterValidators 注册自定义验证规则
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("notblank", ValidateNotBlank); err != nil {
		return err
	}
	return v.RegisterValidation("unique_ids", ValidateUniqueIDs)
}

// RegisterBindingValidators 在 gin 的绑定引擎上注册自定义验证规则
func RegisterBindingValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return RegisterValidators(v)
}

// ParseID 解析路径中的正整数ID
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
