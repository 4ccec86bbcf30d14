package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jguan/modelrun/pkg/unit"
)

const (
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeUnitNotFound     = "UNIT_NOT_FOUND"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeExecutionFailed  = "EXECUTION_FAILED"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

type ErrorInfo struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Details  any    `json:"details,omitempty"`
	UnitCode string `json:"unit_code,omitempty"`
}

func NewErrorInfo(code string, message string) *ErrorInfo {
	return &ErrorInfo{
		Code:    code,
		Message: message,
	}
}

func NewErrorInfoWithDetails(code string, message string, details any) *ErrorInfo {
	return &ErrorInfo{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ToErrorInfo converts any error returned by a unit. Unit errors keep their
// numeric code and details; anything else is an internal error.
func ToErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}

	if ei, ok := err.(*ErrorInfo); ok {
		return ei
	}

	if ue, ok := unit.AsUnitError(err); ok {
		info := &ErrorInfo{
			Code:     classify(ue),
			Message:  err.Error(),
			UnitCode: string(ue.Code),
		}
		if len(ue.Details) > 0 {
			info.Details = ue.Details
		}
		return info
	}

	return &ErrorInfo{
		Code:    ErrCodeInternalError,
		Message: err.Error(),
	}
}

func classify(ue *unit.UnitError) string {
	switch {
	case unit.IsNotFound(ue):
		return ErrCodeNotFound
	case unit.IsInvalidInput(ue):
		return ErrCodeValidationFailed
	case ue.Code == unit.ErrCodeTimeout:
		return ErrCodeTimeout
	default:
		return ErrCodeExecutionFailed
	}
}

// StatusCode maps the error to an HTTP status.
func (e *ErrorInfo) StatusCode() int {
	if e == nil {
		return http.StatusInternalServerError
	}

	switch e.Code {
	case ErrCodeInvalidRequest, ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeUnitNotFound, ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	if e.UnitCode != "" {
		return unit.ErrorToHTTPStatus(unit.ErrorCode(e.UnitCode))
	}
	return http.StatusInternalServerError
}

func (e *ErrorInfo) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ErrorInfo) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

func (e *ErrorInfo) Is(target error) bool {
	t, ok := target.(*ErrorInfo)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
