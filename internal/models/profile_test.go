package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSkills(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain list", "Go,SQL,Docker", []string{"Go", "SQL", "Docker"}},
		{"whitespace trimmed", " Go , SQL ", []string{"Go", "SQL"}},
		{"blank segments dropped", "Go,,SQL,", []string{"Go", "SQL"}},
		{"single skill", "Go", []string{"Go"}},
		{"only separators", ", ,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSkills(tt.input))
		})
	}
}

func TestProfileUpdateApply(t *testing.T) {
	profile := Profile{
		Company:  "Acme",
		Location: "Berlin",
		Status:   "Developer",
		Skills:   []string{"Go"},
		Social:   Social{Twitter: "https://twitter.com/old"},
	}

	ProfileUpdate{
		Status:  "Senior Developer",
		Skills:  "Go, SQL",
		Bio:     "ten years of plumbing",
		Twitter: "https://twitter.com/new",
	}.Apply(&profile)

	// Updated fields.
	assert.Equal(t, "Senior Developer", profile.Status)
	assert.Equal(t, []string{"Go", "SQL"}, profile.Skills)
	assert.Equal(t, "ten years of plumbing", profile.Bio)
	assert.Equal(t, "https://twitter.com/new", profile.Social.Twitter)

	// Fields absent from the update are untouched.
	assert.Equal(t, "Acme", profile.Company)
	assert.Equal(t, "Berlin", profile.Location)
}

func TestAppErrorShapes(t *testing.T) {
	t.Run("business error carries a field entry", func(t *testing.T) {
		err := NewBusinessError("User already exist")
		assert.Equal(t, CodeValidation, err.Code)
		assert.Len(t, err.Fields, 1)
		assert.Equal(t, "User already exist", err.Error())
	})

	t.Run("internal error keeps the cause", func(t *testing.T) {
		cause := assert.AnError
		err := NewInternalError(cause)
		assert.Equal(t, "Server error.", err.Message)
		assert.ErrorIs(t, err, cause)
	})
}
