package unit

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 通用错误码 (000-099)
const (
	ErrCodeSuccess          ErrorCode = "00000"
	ErrCodeUnknown          ErrorCode = "00001"
	ErrCodeInvalidRequest   ErrorCode = "00002"
	ErrCodeNotFound         ErrorCode = "00004"
	ErrCodeAlreadyExists    ErrorCode = "00005"
	ErrCodeTimeout          ErrorCode = "00006"
	ErrCodeInternalError    ErrorCode = "00008"
	ErrCodeInvalidInput     ErrorCode = "00009"
	ErrCodeValidationFailed ErrorCode = "00010"
)

// Catalog 领域错误码 (100-199)
const (
	ErrCodeAcceleratorNotFound ErrorCode = "00100"
	ErrCodeModelNotFound       ErrorCode = "00101"
	ErrCodeEngineNotFound      ErrorCode = "00102"
	ErrCodeCatalogInvalid      ErrorCode = "00103"
	ErrCodeCatalogDuplicate    ErrorCode = "00104"
)

// Launch 领域错误码 (200-299)
const (
	ErrCodeInvalidParameters ErrorCode = "00200"
	ErrCodeRenderFailed      ErrorCode = "00201"
)

// Selection 领域错误码 (300-399)
const (
	ErrCodeIncompleteSelection ErrorCode = "00300"
)

// UnitError 统一的错误类型
type UnitError struct {
	Code    ErrorCode
	Domain  string
	Message string
	Details map[string]any
	Cause   error
}

// Error 实现 error 接口
func (e *UnitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误，用于 errors.Is 和 errors.As
func (e *UnitError) Unwrap() error {
	return e.Cause
}

// WithDetails returns a copy of the error carrying an extra detail entry.
// Sentinel errors are shared package variables, so they are never mutated.
func (e *UnitError) WithDetails(key string, value any) *UnitError {
	cp := e.clone()
	cp.Details[key] = value
	return cp
}

// WithCause returns a copy of the error wrapping err.
func (e *UnitError) WithCause(err error) *UnitError {
	cp := e.clone()
	cp.Cause = err
	return cp
}

func (e *UnitError) clone() *UnitError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	return &UnitError{
		Code:    e.Code,
		Domain:  e.Domain,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// Is 实现 errors.Is 接口
func (e *UnitError) Is(target error) bool {
	t, ok := target.(*UnitError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError 创建通用错误
func NewError(code ErrorCode, message string) *UnitError {
	return &UnitError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}
}

// NewDomainError 创建领域错误
func NewDomainError(domain string, code ErrorCode, message string) *UnitError {
	return &UnitError{
		Code:    code,
		Domain:  domain,
		Message: message,
		Details: make(map[string]any),
	}
}

// WrapError 包装现有错误
func WrapError(err error, code ErrorCode, message string) *UnitError {
	return &UnitError{
		Code:    code,
		Message: message,
		Cause:   err,
		Details: make(map[string]any),
	}
}

// AsUnitError 将错误转换为 UnitError
func AsUnitError(err error) (*UnitError, bool) {
	if err == nil {
		return nil, false
	}
	var ue *UnitError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// ErrorToHTTPStatus 将错误码映射为 HTTP 状态码
func ErrorToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeSuccess:
		return http.StatusOK
	case ErrCodeInvalidRequest, ErrCodeInvalidInput, ErrCodeValidationFailed,
		ErrCodeInvalidParameters, ErrCodeIncompleteSelection:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeAcceleratorNotFound, ErrCodeModelNotFound, ErrCodeEngineNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeCatalogDuplicate:
		return http.StatusConflict
	case ErrCodeTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// IsNotFound 检查是否为资源未找到错误
func IsNotFound(err error) bool {
	if ue, ok := AsUnitError(err); ok {
		return ue.Code == ErrCodeNotFound ||
			ue.Code == ErrCodeAcceleratorNotFound ||
			ue.Code == ErrCodeModelNotFound ||
			ue.Code == ErrCodeEngineNotFound
	}
	return false
}

// IsInvalidInput 检查是否为输入错误
func IsInvalidInput(err error) bool {
	if ue, ok := AsUnitError(err); ok {
		return ue.Code == ErrCodeInvalidInput ||
			ue.Code == ErrCodeValidationFailed ||
			ue.Code == ErrCodeInvalidParameters ||
			ue.Code == ErrCodeIncompleteSelection
	}
	return false
}

// Common errors
var (
	ErrUnknown      = NewError(ErrCodeUnknown, "unknown error")
	ErrInvalidInput = NewError(ErrCodeInvalidInput, "invalid input")
	ErrNotFound     = NewError(ErrCodeNotFound, "resource not found")
	ErrTimeout      = NewError(ErrCodeTimeout, "operation timeout")
	ErrInternal     = NewError(ErrCodeInternalError, "internal error")
)
