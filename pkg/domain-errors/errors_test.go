package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outer code", func(t *testing.T) {
		err := New(CodeNotFound, "graph not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
	})

	t.Run("matches wrapped inner code", func(t *testing.T) {
		inner := New(CodeNothingToPublish, "no drafts")
		err := Wrap(inner, CodeInternal, "publish failed")
		assert.True(t, HasCode(err, CodeNothingToPublish))
		assert.True(t, HasCode(err, CodeInternal))
	})

	t.Run("survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", New(CodeValidation, "graph_id is required"))
		assert.True(t, HasCode(err, CodeValidation))
		assert.Equal(t, CodeValidation, CodeOf(err))
	})

	t.Run("plain errors have no code", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
		assert.Empty(t, MessageOf(err))
	})
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:       http.StatusBadRequest,
		CodeNotFound:         http.StatusNotFound,
		CodeNothingToPublish: http.StatusConflict,
		CodeBackend:          http.StatusBadGateway,
		CodeForbidden:        http.StatusForbidden,
		Code("unknown"):      http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), string(code))
	}
}
