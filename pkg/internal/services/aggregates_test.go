package services

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashtagwatch/monitor/pkg/internal/models"
)

func TestTweetsCountPerHashtag(t *testing.T) {
	useTestDB(t)

	busy := mustHashtag(t, "#busy")
	quiet := mustHashtag(t, "#quiet")
	mustAuthor(t, 1, 10)

	mustPost(t, postSeed{id: 1, author: 1, hashtags: []models.Hashtag{busy}})
	mustPost(t, postSeed{id: 2, author: 1, hashtags: []models.Hashtag{busy}})

	counts, err := TweetsCountPerHashtag()
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.EqualValues(t, 2, counts["#busy"].Count)
	assert.Equal(t, busy.Color, counts["#busy"].Color)
	assert.EqualValues(t, 0, counts["#quiet"].Count)
	assert.Equal(t, quiet.Color, counts["#quiet"].Color)
}

func TestHashtagTweetsPerDay(t *testing.T) {
	useTestDB(t)

	hashtag := mustHashtag(t, "#golang")
	mustHashtag(t, "#quiet")
	mustAuthor(t, 1, 10)

	now := time.Now()
	mustPost(t, postSeed{id: 1, author: 1, createdAt: now, hashtags: []models.Hashtag{hashtag}})
	mustPost(t, postSeed{id: 2, author: 1, createdAt: now, hashtags: []models.Hashtag{hashtag}})
	mustPost(t, postSeed{id: 3, author: 1, createdAt: now.AddDate(0, 0, -1), hashtags: []models.Hashtag{hashtag}})

	// Outside the window; it must not surface anywhere.
	mustPost(t, postSeed{id: 4, author: 1, createdAt: now.AddDate(0, 0, -10), hashtags: []models.Hashtag{hashtag}})

	series, err := HashtagTweetsPerDay(7)
	require.NoError(t, err)
	require.Len(t, series, 2)

	golang := series["#golang"]
	assert.Equal(t, hashtag.Color, golang.Color)
	require.Len(t, golang.Values, 7)
	assert.EqualValues(t, 2, golang.Values[now.Format(DayKeyFormat)])
	assert.EqualValues(t, 1, golang.Values[now.AddDate(0, 0, -1).Format(DayKeyFormat)])

	quiet := series["#quiet"]
	require.Len(t, quiet.Values, 7)
	for _, value := range quiet.Values {
		assert.Zero(t, value)
	}
}

func seedLanguages(t *testing.T) (models.Hashtag, models.Hashtag) {
	t.Helper()

	busy := mustHashtag(t, "#busy")
	other := mustHashtag(t, "#other")
	mustAuthor(t, 1, 10)

	mustPost(t, postSeed{id: 1, author: 1, lang: "en", hashtags: []models.Hashtag{busy}})
	mustPost(t, postSeed{id: 2, author: 1, lang: "en", hashtags: []models.Hashtag{busy}})
	mustPost(t, postSeed{id: 3, author: 1, lang: "en", hashtags: []models.Hashtag{busy}})
	mustPost(t, postSeed{id: 4, author: 1, lang: "es", hashtags: []models.Hashtag{busy}})
	mustPost(t, postSeed{id: 5, author: 1, lang: "es", hashtags: []models.Hashtag{other}})
	mustPost(t, postSeed{id: 6, author: 1, lang: "fr", hashtags: []models.Hashtag{busy}})
	mustPost(t, postSeed{id: 7, author: 1, hashtags: []models.Hashtag{busy}})
	mustPost(t, postSeed{id: 8, author: 1, hashtags: []models.Hashtag{busy}})

	return busy, other
}

func TestTweetsPerLanguageTopK(t *testing.T) {
	useTestDB(t)
	seedLanguages(t)

	results, err := TweetsPerLanguage(2, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"en": 3, "es": 2, "others": 3}, results)
}

func TestTweetsPerLanguageUnlimited(t *testing.T) {
	useTestDB(t)
	seedLanguages(t)

	results, err := TweetsPerLanguage(0, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"en": 3, "es": 2, "fr": 1, "others": 2}, results)
}

func TestTweetsPerLanguageScoped(t *testing.T) {
	useTestDB(t)
	seedLanguages(t)

	results, err := TweetsPerLanguage(0, lo.ToPtr("#other"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"es": 1, "others": 0}, results)
}

func TestTweetsPerLanguageEmptyStore(t *testing.T) {
	useTestDB(t)

	results, err := TweetsPerLanguage(3, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"others": 0}, results)
}

func TestGetSummary(t *testing.T) {
	useTestDB(t)

	busy := mustHashtag(t, "#busy")
	other := mustHashtag(t, "#other")
	mustAuthor(t, 1, 100)
	mustAuthor(t, 2, 50)

	mustPost(t, postSeed{id: 1, author: 1, retweetCount: 5, hashtags: []models.Hashtag{busy}})
	mustPost(t, postSeed{id: 2, author: 1, retweetCount: 3, hashtags: []models.Hashtag{busy}})
	mustPost(t, postSeed{id: 3, author: 2, retweetCount: 1, hashtags: []models.Hashtag{other}})

	// Untagged posts never count toward the global summary.
	mustPost(t, postSeed{id: 4, author: 2, retweetCount: 9})

	summary, err := GetSummary(nil)
	require.NoError(t, err)
	assert.EqualValues(t, 250, summary.Reach)
	assert.EqualValues(t, 3, summary.TweetsCount)
	assert.EqualValues(t, 9, summary.RetweetCount)
	assert.EqualValues(t, 2, summary.Users)

	scoped, err := GetSummary(lo.ToPtr("#busy"))
	require.NoError(t, err)
	assert.EqualValues(t, 200, scoped.Reach)
	assert.EqualValues(t, 2, scoped.TweetsCount)
	assert.EqualValues(t, 8, scoped.RetweetCount)
	assert.EqualValues(t, 1, scoped.Users)
}

func TestGetSummaryEmptyStore(t *testing.T) {
	useTestDB(t)

	summary, err := GetSummary(nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}

func TestLatestPosts(t *testing.T) {
	useTestDB(t)

	busy := mustHashtag(t, "#busy")
	other := mustHashtag(t, "#other")
	mustAuthor(t, 1, 10)

	base := time.Now()
	mustPost(t, postSeed{id: 1, author: 1, createdAt: base.Add(-3 * time.Hour), hashtags: []models.Hashtag{busy}})
	mustPost(t, postSeed{id: 2, author: 1, createdAt: base.Add(-2 * time.Hour), hashtags: []models.Hashtag{other}})
	mustPost(t, postSeed{id: 3, author: 1, createdAt: base.Add(-1 * time.Hour), hashtags: []models.Hashtag{busy}})
	mustPost(t, postSeed{id: 4, author: 1, createdAt: base})

	posts, err := LatestPosts(nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, lo.Map(posts, func(p models.Post, _ int) int64 {
		return p.ID
	}))
	require.NotEmpty(t, posts)
	assert.EqualValues(t, 1, posts[0].Author.ID)

	posts, err = LatestPosts(lo.ToPtr("#busy"), 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, lo.Map(posts, func(p models.Post, _ int) int64 {
		return p.ID
	}))

	posts, err = LatestPosts(nil, 2)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}
