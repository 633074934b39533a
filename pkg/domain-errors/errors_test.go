package dErrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "store unreachable")

	assert.True(t, errors.Is(err, cause))
	assert.True(t, HasCode(err, CodeUnavailable))
	assert.False(t, HasCode(err, CodeInternal))
}

func TestHasCodeThroughFmtWrap(t *testing.T) {
	err := New(CodeLimitExceeded, "daily limit reached")
	wrapped := fmt.Errorf("handling request: %w", err)

	assert.True(t, HasCode(wrapped, CodeLimitExceeded))
	assert.Equal(t, CodeLimitExceeded, CodeOf(wrapped))
}

func TestCodeOfUnclassified(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestWithDetail(t *testing.T) {
	err := New(CodeInvalidInput, "platformFeePct out of range").
		WithDetail("field", "platformFeePct").
		WithDetail("reason", "must be between 0 and 50")

	details := DetailsOf(err)
	require.NotNil(t, details)
	assert.Equal(t, "platformFeePct", details["field"])
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:      http.StatusBadRequest,
		CodeInvalidInput:    http.StatusBadRequest,
		CodeUnauthorized:    http.StatusUnauthorized,
		CodeNotFound:        http.StatusNotFound,
		CodeGlobalReadOnly:  http.StatusForbidden,
		CodeFeatureDisabled: http.StatusForbidden,
		CodeSuspended:       http.StatusForbidden,
		CodeLimitExceeded:   http.StatusTooManyRequests,
		CodeUnavailable:     http.StatusServiceUnavailable,
		CodeInternal:        http.StatusInternalServerError,
		Code("unknown"):     http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
