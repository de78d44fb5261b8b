package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := Errf(ValidationFailure, "town", "error in giving no %s", "town")
	assert.Contains(t, err.Error(), "error in giving no town")
	assert.True(t, IsKind(err, ValidationFailure))
	assert.False(t, IsKind(err, ParseFailure))
}

func TestErrorWrapping(t *testing.T) {
	inner := fmt.Errorf("disk full")
	err := Wrap(IOFailure, inner, "writing species file")

	require.Error(t, err)
	assert.True(t, IsKind(err, IOFailure))
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "writing species file")
	assert.Contains(t, err.Error(), "disk full")
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "reference not found", ReferenceNotFound.String())
	assert.Equal(t, "validation failure", ValidationFailure.String())
}

func TestIsKindOnForeignErrors(t *testing.T) {
	assert.False(t, IsKind(errors.New("plain"), IOFailure))
	assert.False(t, IsKind(nil, IOFailure))
}
