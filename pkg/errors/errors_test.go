package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := New("TEST", "something failed", http.StatusBadRequest)
	assert.Equal(t, "TEST: something failed", err.Error())

	wrapped := err.WithError(fmt.Errorf("root cause"))
	assert.Equal(t, "TEST: something failed: root cause", wrapped.Error())
	assert.Equal(t, "root cause", wrapped.Unwrap().Error())
}

func TestError_CloneSemantics(t *testing.T) {
	base := New("TEST", "original", http.StatusBadRequest)

	modified := base.WithMessage("changed").WithDetails("extra")

	// 预定义错误不可被调用方篡改
	assert.Equal(t, "original", base.Message)
	assert.Nil(t, base.Details)
	assert.Equal(t, "changed", modified.Message)
	assert.Equal(t, "extra", modified.Details)
}

func TestRLS(t *testing.T) {
	err := RLS(New("42501", "permission denied", http.StatusForbidden))
	assert.True(t, err.IsRLSIssue)
	assert.Equal(t, "42501", err.Code)

	// 克隆保持 RLS 标记
	assert.True(t, err.WithMessage("other").IsRLSIssue)
}

func TestPredefinedErrors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrNotFound.HTTPStatus)
	assert.Equal(t, http.StatusForbidden, ErrSetlistMismatch.HTTPStatus)
	assert.Equal(t, http.StatusConflict, ErrDuplicateSong.HTTPStatus)
	assert.Equal(t, http.StatusForbidden, ErrNotBandMember.HTTPStatus)
	assert.True(t, ErrPrecheckFailed.IsRLSIssue)
	assert.Equal(t, http.StatusInternalServerError, ErrPrecheckFailed.HTTPStatus)
}

func TestIsError(t *testing.T) {
	assert.True(t, IsError(ErrNotFound, ErrNotFound))
	assert.True(t, IsError(ErrNotFound.WithMessage("custom"), ErrNotFound))
	assert.False(t, IsError(ErrNotFound, ErrForbidden))
	assert.False(t, IsError(fmt.Errorf("plain"), ErrNotFound))
	assert.False(t, IsError(nil, ErrNotFound))
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, GetHTTPStatus(nil))
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(fmt.Errorf("plain")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, "", GetCode(nil))
	assert.Equal(t, ErrCodeNotFound, GetCode(ErrNotFound))
	assert.Equal(t, ErrCodeException, GetCode(fmt.Errorf("plain")))
}
