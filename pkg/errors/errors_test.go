package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	err := FromError(errors.New("boom"))
	require.NotNil(t, err)
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, ErrInternal.Message, err.Message)
}

func TestCloneMatchesTemplate(t *testing.T) {
	err := Clone(ErrNotFound, "student not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestValidationCarriesDetails(t *testing.T) {
	err := Validation(map[string]string{"email": "invalid email", "firstName": "too short"})
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Len(t, err.Details, 2)
	assert.Nil(t, ErrValidation.Details)
}

func TestDuplicate(t *testing.T) {
	err := Duplicate("studentId", "student ID already exists")
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Equal(t, "student ID already exists", err.Details["studentId"])
	assert.True(t, errors.Is(err, ErrConflict))
}
