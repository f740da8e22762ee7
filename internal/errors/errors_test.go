package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsInnermostCode(t *testing.T) {
	inner := SelectionError("Seleccione la variable categórica.")
	wrapped := Wrap(fmt.Errorf("context: %w", inner), "running test")

	assert.Equal(t, CodeSelection, GetCode(wrapped))
	assert.True(t, HasCode(wrapped, CodeSelection))
	assert.True(t, stderrors.Is(wrapped, inner))
}

func TestWrap_PlainErrorIsInternal(t *testing.T) {
	err := Wrap(stderrors.New("boom"), "failed")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "El archivo supera el límite de 5 MB.", UserMessage(FileTooLarge(5)))
	assert.Equal(t, "Ocurrió un error inesperado.", UserMessage(stderrors.New("raw")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{FileParseError("x", nil), http.StatusBadRequest},
		{SelectionError("x"), http.StatusBadRequest},
		{InputFormatError("x"), http.StatusBadRequest},
		{StatisticalComputationError("x"), http.StatusUnprocessableEntity},
		{NotFound("session"), http.StatusNotFound},
		{FileTooLarge(1), http.StatusRequestEntityTooLarge},
		{stderrors.New("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), GetCode(tt.err))
	}
}
