package validation_test

import (
	"errors"
	"testing"

	domainerrors "github.com/shelfgraph/shelfgraph-server/internal/errors"
	"github.com/shelfgraph/shelfgraph-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookInput struct {
	Title  string `json:"title" validate:"required,min=5"`
	Author string `json:"author" validate:"required"`
}

type userInput struct {
	Username      string `json:"username" validate:"required,min=3"`
	FavoriteGenre string `json:"favoriteGenre" validate:"required"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(bookInput{Title: "Clean Code", Author: "Robert Martin"}))
	assert.NoError(t, v.Validate(userInput{Username: "mluukkai", FavoriteGenre: "refactoring"}))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		input     any
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing required title",
			input:     bookInput{Author: "Robert Martin"},
			wantField: "title",
			wantMsg:   "is required",
		},
		{
			name:      "title too short",
			input:     bookInput{Title: "Demo", Author: "Robert Martin"},
			wantField: "title",
			wantMsg:   "must be at least 5 characters",
		},
		{
			name:      "username too short",
			input:     userInput{Username: "ab", FavoriteGenre: "crime"},
			wantField: "username",
			wantMsg:   "must be at least 3 characters",
		},
		{
			name:      "missing favorite genre",
			input:     userInput{Username: "mluukkai"},
			wantField: "favoriteGenre",
			wantMsg:   "is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidator_CollectsEveryFailedField(t *testing.T) {
	v := validation.New()

	err := v.Validate(bookInput{})

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))

	details := domainErr.Details.(map[string]string)
	assert.Len(t, details, 2)
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "author")
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(userInput{Username: "ok-name"})

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))

	// Details are keyed by the JSON tag, not the Go field name.
	details := domainErr.Details.(map[string]string)
	assert.Contains(t, details, "favoriteGenre")
	assert.NotContains(t, details, "FavoriteGenre")
}
