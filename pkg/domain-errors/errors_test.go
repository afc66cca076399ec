package dErrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeBadUpstream, "upstream error")

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, CodeBadUpstream, CodeOf(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCodeOfUnclassified(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestHasCodeThroughWrapping(t *testing.T) {
	inner := New(CodeNotFound, "event code not found")
	outer := Wrap(inner, CodeNotFound, "listing failed")

	assert.True(t, HasCode(outer, CodeNotFound))
	assert.False(t, HasCode(outer, CodeForbidden))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeUnauthorized:       http.StatusUnauthorized,
		CodeForbidden:          http.StatusForbidden,
		CodeBadRequest:         http.StatusBadRequest,
		CodeValidation:         http.StatusBadRequest,
		CodeNotFound:           http.StatusNotFound,
		CodeConflict:           http.StatusConflict,
		CodeUpstreamTimeout:    http.StatusGatewayTimeout,
		CodeBadUpstream:        http.StatusBadGateway,
		CodeNotificationFailed: http.StatusInternalServerError,
		CodeInternal:           http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), string(code))
	}
}
