package services

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/spf13/viper"

	"github.com/hashtagwatch/monitor/pkg/internal/models"
)

func TestValidateHashtagName(t *testing.T) {
	useTestDB(t)

	issues := ValidateHashtagName("")
	require.NotNil(t, issues)
	assert.Contains(t, issues.Fields["name"], "Empty values are not allowed.")

	issues = ValidateHashtagName("golang")
	require.NotNil(t, issues)
	assert.Contains(t, issues.Fields["name"], "golang is not a hashtag. Did you mean #golang?")

	issues = ValidateHashtagName("#")
	require.NotNil(t, issues)
	assert.Contains(t, issues.Fields["name"], "A hashtag must contain at least 1 character besides #.")

	issues = ValidateHashtagName("#" + strings.Repeat("a", MaxHashtagLength))
	require.NotNil(t, issues)
	assert.Contains(t, issues.Fields["name"], "A hashtag cannot be longer than 500 characters.")

	assert.Nil(t, ValidateHashtagName("#golang"))
}

func TestValidateHashtagNameAggregatesIssues(t *testing.T) {
	useTestDB(t)

	// Missing prefix and oversized at once; both failures must be reported.
	issues := ValidateHashtagName(strings.Repeat("a", MaxHashtagLength+1))
	require.NotNil(t, issues)
	assert.Len(t, issues.Fields["name"], 2)
	assert.NotEmpty(t, issues.Error())
}

func TestValidateHashtagNameDuplicates(t *testing.T) {
	useTestDB(t)

	mustHashtag(t, "#GoLang")

	issues := ValidateHashtagName("#golang")
	require.NotNil(t, issues)
	assert.Contains(t, issues.Fields["name"], "This hashtag has already been added. A hashtag is not case sensitive.")
}

func TestValidateHashtagNameCapacity(t *testing.T) {
	useTestDB(t)

	viper.Set("monitor.max_hashtags", 2)
	t.Cleanup(func() {
		viper.Set("monitor.max_hashtags", 0)
	})

	mustHashtag(t, "#one")
	mustHashtag(t, "#two")

	issues := ValidateHashtagName("#three")
	require.NotNil(t, issues)
	assert.Contains(t, issues.Fields["name"], "The maximum number of hashtags is 2.")
}

func TestNewHashtagColors(t *testing.T) {
	useTestDB(t)

	hashtag := mustHashtag(t, "#palette")
	assert.True(t, lo.Contains(models.ColorPalette, hashtag.Color))

	custom, err := NewHashtag("#custom", "#123456")
	require.NoError(t, err)
	assert.Equal(t, "#123456", custom.Color)
}
