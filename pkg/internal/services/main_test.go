package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hashtagwatch/monitor/pkg/internal/database"
	"github.com/hashtagwatch/monitor/pkg/internal/models"
	"github.com/hashtagwatch/monitor/pkg/internal/twitter"
)

var testDBSequence int

// useTestDB points the store at a fresh in-memory database for one test.
func useTestDB(t *testing.T) {
	t.Helper()

	testDBSequence++
	dsn := fmt.Sprintf("file:monitor_test_%d?mode=memory&cache=shared", testDBSequence)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigration(db))

	previous := database.C
	database.C = db
	t.Cleanup(func() {
		database.C = previous
	})
}

func mustHashtag(t *testing.T, name string) models.Hashtag {
	t.Helper()

	hashtag, err := NewHashtag(name)
	require.NoError(t, err)
	return hashtag
}

func mustAuthor(t *testing.T, id int64, followers int) models.Author {
	t.Helper()

	author, err := UpsertAuthor(database.C, models.Author{
		ID:             id,
		Name:           fmt.Sprintf("Author %d", id),
		ScreenName:     fmt.Sprintf("author_%d", id),
		CreatedAt:      time.Now().AddDate(-1, 0, 0),
		FollowersCount: followers,
	})
	require.NoError(t, err)
	return author
}

type postSeed struct {
	id           int64
	author       int64
	createdAt    time.Time
	lang         string
	retweetCount int
	quotedID     *int64
	retweetedID  *int64
	hashtags     []models.Hashtag
}

func mustPost(t *testing.T, seed postSeed) models.Post {
	t.Helper()

	if seed.createdAt.IsZero() {
		seed.createdAt = time.Now()
	}
	if len(seed.lang) == 0 {
		seed.lang = models.LangUndetermined
	}

	post, created, err := CreatePostIfAbsent(database.C, models.Post{
		ID:           seed.id,
		AuthorID:     seed.author,
		CreatedAt:    seed.createdAt,
		Text:         fmt.Sprintf("post %d", seed.id),
		Lang:         seed.lang,
		RetweetCount: seed.retweetCount,
		QuotedID:     seed.quotedID,
		RetweetedID:  seed.retweetedID,
	}, seed.hashtags)
	require.NoError(t, err)
	require.True(t, created)
	return post
}

func formatCreatedAt(value time.Time) string {
	return value.Format("Mon Jan 02 15:04:05 -0700 2006")
}

func rawUser(id int64, followers int) *twitter.RawUser {
	return &twitter.RawUser{
		ID:             id,
		Name:           fmt.Sprintf("Author %d", id),
		ScreenName:     fmt.Sprintf("author_%d", id),
		CreatedAt:      formatCreatedAt(time.Now().AddDate(-1, 0, 0)),
		FollowersCount: followers,
	}
}

func rawPost(id int64, text string, user *twitter.RawUser) twitter.RawPost {
	return twitter.RawPost{
		ID:        id,
		Text:      text,
		CreatedAt: formatCreatedAt(time.Now()),
		User:      user,
	}
}
