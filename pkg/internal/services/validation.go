package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hashtagwatch/monitor/pkg/internal/database"
	"github.com/hashtagwatch/monitor/pkg/internal/models"
	"github.com/spf13/viper"
)

const MaxHashtagLength = 500

// ValidationError carries every failing check keyed by field so a form can
// render all of them at once.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	var parts []string
	for field, messages := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(messages, "; ")))
	}
	return strings.Join(parts, ", ")
}

func MaxHashtags() int {
	if max := viper.GetInt("monitor.max_hashtags"); max > 0 {
		return max
	}
	return 10
}

// ValidateHashtagName runs every check and aggregates the failures instead
// of stopping at the first one.
func ValidateHashtagName(name string) *ValidationError {
	issues := &ValidationError{}

	if len(name) == 0 {
		issues.Add("name", "Empty values are not allowed.")
	} else if !strings.HasPrefix(name, "#") {
		issues.Add("name", fmt.Sprintf("%s is not a hashtag. Did you mean #%s?", name, name))
	}
	if length := utf8.RuneCountInString(name); length > 0 && length < 2 {
		issues.Add("name", "A hashtag must contain at least 1 character besides #.")
	} else if length > MaxHashtagLength {
		issues.Add("name", fmt.Sprintf("A hashtag cannot be longer than %d characters.", MaxHashtagLength))
	}

	var count int64
	if err := database.C.Model(&models.Hashtag{}).Count(&count).Error; err == nil && count >= int64(MaxHashtags()) {
		issues.Add("name", fmt.Sprintf("The maximum number of hashtags is %d.", MaxHashtags()))
	}

	var duplicates int64
	if err := database.C.Model(&models.Hashtag{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&duplicates).Error; err == nil && duplicates > 0 {
		issues.Add("name", "This hashtag has already been added. A hashtag is not case sensitive.")
	}

	if issues.HasErrors() {
		return issues
	}
	return nil
}
