package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	ErrForbidden = errors.New("forbidden")

	// ErrVersionConflict 乐观锁冲突：行已被其他用户修改
	ErrVersionConflict = errors.New("modified by another user, refresh and retry")

	ErrInvalidAction = errors.New("invalid workout action")
)

// ConflictError 唯一约束冲突（username / email 等）
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

// BusinessRuleError 业务规则校验失败（400）
type BusinessRuleError struct {
	Msg string
}

func (e *BusinessRuleError) Error() string { return e.Msg }

func NewBusinessRule(format string, args ...any) error {
	return &BusinessRuleError{Msg: fmt.Sprintf(format, args...)}
}

// FieldError 字段级校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 聚合字段错误；Fields 以字段名为 key 返回给调用方
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Fields[0].Field, e.Fields[0].Message)
}
