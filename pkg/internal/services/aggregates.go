package services

import (
	"time"

	"github.com/hashtagwatch/monitor/pkg/internal/database"
	"github.com/hashtagwatch/monitor/pkg/internal/models"
	"gorm.io/gorm"
)

const DayKeyFormat = "02/01"

type HashtagCount struct {
	Count int64  `json:"count"`
	Color string `json:"color"`
}

type DaySeries struct {
	Color  string           `json:"color"`
	Values map[string]int64 `json:"values"`
}

type Summary struct {
	Reach        int64 `json:"reach"`
	TweetsCount  int64 `json:"tweets_count"`
	RetweetCount int64 `json:"retweet_count"`
	Users        int64 `json:"users"`
}

// scopePostsWithHashtags narrows tx to posts carrying at least one hashtag,
// or exactly the given one.
func scopePostsWithHashtags(tx *gorm.DB, hashtagName *string) *gorm.DB {
	if hashtagName != nil {
		return tx.Where(
			"posts.id IN (SELECT post_id FROM post_hashtags WHERE hashtag_name = ?)",
			*hashtagName,
		)
	}
	return tx.Where("posts.id IN (SELECT post_id FROM post_hashtags)")
}

// TweetsCountPerHashtag reports the post count and color of every tracked
// hashtag, zero included, keyed by name.
func TweetsCountPerHashtag() (map[string]HashtagCount, error) {
	var rows []struct {
		Name  string
		Color string
		Count int64
	}
	if err := database.C.Model(&models.Hashtag{}).
		Select("hashtags.name, hashtags.color, COUNT(post_hashtags.post_id) AS count").
		Joins("LEFT JOIN post_hashtags ON post_hashtags.hashtag_name = hashtags.name").
		Group("hashtags.name, hashtags.color").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	results := make(map[string]HashtagCount, len(rows))
	for _, row := range rows {
		results[row.Name] = HashtagCount{Count: row.Count, Color: row.Color}
	}
	return results, nil
}

// HashtagTweetsPerDay returns, for every hashtag, a dense day-bucketed
// histogram over the trailing numDays days including today. Every day in
// range is present, zero when quiet.
func HashtagTweetsPerDay(numDays int) (map[string]DaySeries, error) {
	hashtags, err := ListHashtags()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowStart := base.AddDate(0, 0, -(numDays - 1))

	series := make(map[string]DaySeries, len(hashtags))
	for _, hashtag := range hashtags {
		values := make(map[string]int64, numDays)
		for offset := numDays - 1; offset >= 0; offset-- {
			values[base.AddDate(0, 0, -offset).Format(DayKeyFormat)] = 0
		}
		series[hashtag.Name] = DaySeries{Color: hashtag.Color, Values: values}
	}

	var rows []struct {
		HashtagName string
		CreatedAt   time.Time
	}
	if err := database.C.Model(&models.Post{}).
		Select("post_hashtags.hashtag_name, posts.created_at").
		Joins("JOIN post_hashtags ON post_hashtags.post_id = posts.id").
		Where("posts.created_at >= ?", windowStart).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		entry, tracked := series[row.HashtagName]
		if !tracked {
			continue
		}
		day := row.CreatedAt.In(now.Location()).Format(DayKeyFormat)
		if _, inRange := entry.Values[day]; inRange {
			entry.Values[day]++
		}
	}

	return series, nil
}

// TweetsPerLanguage counts posts per language code. With top > 0 only the
// top languages keep their own entry and everything else joins the others
// bucket together with every undetermined post; with top == 0 all languages
// stay individual and only undetermined posts fold into others. The others
// bucket is always present.
func TweetsPerLanguage(top int, hashtagName *string) (map[string]int64, error) {
	tx := database.C.Model(&models.Post{})
	if hashtagName != nil {
		tx = scopePostsWithHashtags(tx, hashtagName)
	}

	var rows []struct {
		Lang  string
		Count int64
	}
	if err := tx.
		Select("posts.lang, COUNT(posts.id) AS count").
		Group("posts.lang").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	results := map[string]int64{"others": 0}
	kept := 0
	for _, row := range rows {
		if row.Lang == models.LangUndetermined {
			results["others"] += row.Count
			continue
		}
		if top > 0 && kept >= top {
			results["others"] += row.Count
			continue
		}
		results[row.Lang] = row.Count
		kept++
	}

	return results, nil
}

// GetSummary aggregates reach, post count, retweet count and distinct author
// count. The global form skips posts without any hashtag; the scoped form
// covers exactly the posts tagged with the given hashtag.
func GetSummary(hashtagName *string) (Summary, error) {
	var summary Summary
	tx := scopePostsWithHashtags(database.C.Model(&models.Post{}), hashtagName)

	err := tx.
		Select(`COALESCE(SUM(authors.followers_count), 0) AS reach,
			COUNT(posts.id) AS tweets_count,
			COALESCE(SUM(posts.retweet_count), 0) AS retweet_count,
			COUNT(DISTINCT posts.author_id) AS users`).
		Joins("JOIN authors ON authors.id = posts.author_id").
		Scan(&summary).Error

	return summary, err
}

// LatestPosts returns the most recent posts carrying at least one hashtag,
// optionally scoped to a single hashtag, newest first.
func LatestPosts(hashtagName *string, count int) ([]models.Post, error) {
	tx := scopePostsWithHashtags(database.C, hashtagName)

	var posts []models.Post
	err := PreloadGeneral(tx).
		Order("created_at DESC").
		Limit(count).
		Find(&posts).Error

	return posts, err
}
