package gateway

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jguan/modelrun/pkg/unit"
)

func TestToErrorInfo(t *testing.T) {
	assert.Nil(t, ToErrorInfo(nil))

	ei := NewErrorInfo(ErrCodeTimeout, "slow")
	assert.Same(t, ei, ToErrorInfo(ei))

	invalid := unit.NewDomainError("launch", unit.ErrCodeInvalidParameters, "invalid launch parameters").WithDetails("field", "port")
	info := ToErrorInfo(invalid)
	assert.Equal(t, ErrCodeValidationFailed, info.Code)
	assert.Equal(t, "00200", info.UnitCode)

	plain := ToErrorInfo(errors.New("x"))
	assert.Equal(t, ErrCodeInternalError, plain.Code)
}

func TestErrorInfo_StatusCode(t *testing.T) {
	tests := []struct {
		info *ErrorInfo
		want int
	}{
		{nil, http.StatusInternalServerError},
		{NewErrorInfo(ErrCodeInvalidRequest, ""), http.StatusBadRequest},
		{NewErrorInfo(ErrCodeValidationFailed, ""), http.StatusBadRequest},
		{NewErrorInfo(ErrCodeUnitNotFound, ""), http.StatusNotFound},
		{NewErrorInfo(ErrCodeNotFound, ""), http.StatusNotFound},
		{NewErrorInfo(ErrCodeTimeout, ""), http.StatusGatewayTimeout},
		{&ErrorInfo{Code: ErrCodeExecutionFailed, UnitCode: string(unit.ErrCodeCatalogDuplicate)}, http.StatusConflict},
		{NewErrorInfo(ErrCodeInternalError, ""), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.info.StatusCode())
	}
}

func TestErrorInfo_Error(t *testing.T) {
	assert.Equal(t, "[TIMEOUT] slow", NewErrorInfo(ErrCodeTimeout, "slow").Error())
	assert.Equal(t, "[NOT_FOUND] gone: id", NewErrorInfoWithDetails(ErrCodeNotFound, "gone", "id").Error())
	assert.JSONEq(t, `{"code":"TIMEOUT","message":"slow"}`, NewErrorInfo(ErrCodeTimeout, "slow").JSON())
	assert.ErrorIs(t, NewErrorInfo(ErrCodeTimeout, "a"), NewErrorInfo(ErrCodeTimeout, "b"))
}
