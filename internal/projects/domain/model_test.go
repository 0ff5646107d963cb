package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	code, err := NewCode(CodePrefix)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^GP-\d{5}-\d{4}$`), code)
}

func TestProjectValidate(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, 0, -1)
	neg := -5.0

	ok := Project{Name: "Apollo", StartDate: start}
	assert.NoError(t, ok.Validate())

	for name, p := range map[string]Project{
		"no name":       {StartDate: start},
		"no start":      {Name: "x"},
		"end too early": {Name: "x", StartDate: start, EndDate: &before},
		"completion":    {Name: "x", StartDate: start, CompletionPercentage: 120},
		"budget":        {Name: "x", StartDate: start, Budget: &neg},
	} {
		assert.ErrorIs(t, p.Validate(), ErrInvalidInput, name)
	}
}

func TestProjectActive(t *testing.T) {
	assert.True(t, Project{Status: "Planning"}.Active())
	assert.False(t, Project{Status: "completed"}.Active())
	assert.False(t, Project{Status: "Cancelled"}.Active())
}
