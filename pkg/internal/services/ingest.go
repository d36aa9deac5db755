package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashtagwatch/monitor/pkg/internal/database"
	"github.com/hashtagwatch/monitor/pkg/internal/metrics"
	"github.com/hashtagwatch/monitor/pkg/internal/models"
	"github.com/hashtagwatch/monitor/pkg/internal/scheduler"
	"github.com/hashtagwatch/monitor/pkg/internal/twitter"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ResolvedAuthor struct {
	ID             int64
	Name           string
	ScreenName     string
	CreatedAt      time.Time
	FriendsCount   int
	FollowersCount int
	ProfileImage   *string
}

// ResolvedPost is the structured intermediate between a raw search result
// and the store. Embedded quoted and retweeted payloads are unpacked
// depth-first into the same shape; nothing here touches the database.
type ResolvedPost struct {
	ID           int64
	Text         string
	CreatedAt    time.Time
	Lang         string
	RetweetCount int
	Source       *string
	FilterLevel  *string
	Mentions     []string
	Author       ResolvedAuthor
	Quoted       *ResolvedPost
	Retweeted    *ResolvedPost
}

// ResolveRawPost validates and unpacks one raw search result. A payload
// missing its id, text, author or a parsable timestamp is malformed and
// aborts the page it arrived on.
func ResolveRawPost(raw twitter.RawPost) (*ResolvedPost, error) {
	if raw.ID == 0 {
		return nil, fmt.Errorf("raw post is missing an id")
	}
	if raw.User == nil {
		return nil, fmt.Errorf("raw post %d is missing its author", raw.ID)
	}

	text := raw.Text
	mentioned := raw.Entities.Hashtags
	if raw.Extended != nil {
		if len(raw.Extended.FullText) > 0 {
			text = raw.Extended.FullText
		}
		mentioned = raw.Extended.Entities.Hashtags
	}
	if len(text) == 0 {
		return nil, fmt.Errorf("raw post %d has no text", raw.ID)
	}

	createdAt, err := twitter.ParseCreatedAt(raw.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("raw post %d has a malformed timestamp: %v", raw.ID, err)
	}
	authorCreatedAt, err := twitter.ParseCreatedAt(raw.User.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("author %d has a malformed timestamp: %v", raw.User.ID, err)
	}

	var lang string
	if raw.Lang != nil && len(*raw.Lang) > 0 {
		lang = *raw.Lang
	} else {
		lang = DetectLanguage(text)
	}

	resolved := &ResolvedPost{
		ID:          raw.ID,
		Text:        text,
		CreatedAt:   createdAt,
		Lang:        lang,
		Source:      raw.Source,
		FilterLevel: raw.FilterLevel,
		Mentions: lo.Map(mentioned, func(h twitter.RawHashtag, _ int) string {
			return h.Text
		}),
		Author: ResolvedAuthor{
			ID:             raw.User.ID,
			Name:           raw.User.Name,
			ScreenName:     raw.User.ScreenName,
			CreatedAt:      authorCreatedAt,
			FriendsCount:   raw.User.FriendsCount,
			FollowersCount: raw.User.FollowersCount,
			ProfileImage:   raw.User.ProfileImageURL,
		},
	}
	if raw.RetweetCount != nil {
		resolved.RetweetCount = *raw.RetweetCount
	}

	if raw.Quoted != nil {
		if resolved.Quoted, err = ResolveRawPost(*raw.Quoted); err != nil {
			return nil, err
		}
	}
	if raw.Retweeted != nil {
		if resolved.Retweeted, err = ResolveRawPost(*raw.Retweeted); err != nil {
			return nil, err
		}
	}

	return resolved, nil
}

// persistResolved writes one resolved post depth-first: the quoted post goes
// in without the triggering hashtag, the retweeted one inherits it, and both
// pass their hashtag sets up to the referencing post. Hashtag mentions in
// the body are matched case-insensitively against the tracked set. Only
// original creation assigns hashtags.
func persistResolved(tx *gorm.DB, resolved *ResolvedPost, withHashtag *string) (models.Post, bool, error) {
	var post models.Post
	var hashtags []models.Hashtag

	if withHashtag != nil {
		var hashtag models.Hashtag
		if err := tx.Where("name = ?", *withHashtag).First(&hashtag).Error; err != nil {
			// The hashtag vanished mid-cycle; abort the page.
			return post, false, err
		}
		hashtags = append(hashtags, hashtag)
	}

	var quotedID, retweetedID *int64
	if resolved.Quoted != nil {
		quoted, _, err := persistResolved(tx, resolved.Quoted, nil)
		if err != nil {
			return post, false, err
		}
		quotedID = &quoted.ID
		inherited, err := postHashtags(tx, quoted.ID)
		if err != nil {
			return post, false, err
		}
		hashtags = append(hashtags, inherited...)
	}
	if resolved.Retweeted != nil {
		retweeted, _, err := persistResolved(tx, resolved.Retweeted, withHashtag)
		if err != nil {
			return post, false, err
		}
		retweetedID = &retweeted.ID
		inherited, err := postHashtags(tx, retweeted.ID)
		if err != nil {
			return post, false, err
		}
		hashtags = append(hashtags, inherited...)
	}

	for _, mention := range resolved.Mentions {
		var hashtag models.Hashtag
		err := tx.Where("LOWER(name) = LOWER(?)", "#"+mention).First(&hashtag).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return post, false, err
		}
		hashtags = append(hashtags, hashtag)
	}

	author, err := UpsertAuthor(tx, models.Author{
		ID:             resolved.Author.ID,
		Name:           resolved.Author.Name,
		ScreenName:     resolved.Author.ScreenName,
		CreatedAt:      resolved.Author.CreatedAt,
		FriendsCount:   resolved.Author.FriendsCount,
		FollowersCount: resolved.Author.FollowersCount,
		ProfileImage:   resolved.Author.ProfileImage,
	})
	if err != nil {
		return post, false, err
	}

	post = models.Post{
		ID:           resolved.ID,
		QuotedID:     quotedID,
		RetweetedID:  retweetedID,
		AuthorID:     author.ID,
		CreatedAt:    resolved.CreatedAt,
		Text:         resolved.Text,
		Lang:         resolved.Lang,
		RetweetCount: resolved.RetweetCount,
		Source:       resolved.Source,
		FilterLevel:  resolved.FilterLevel,
		Mentions:     datatypes.NewJSONSlice(resolved.Mentions),
	}

	return CreatePostIfAbsent(tx, post, hashtags)
}

// IngestPage persists one page of raw results under the hashtag the fetch
// ran for. The whole page commits or rolls back as one transaction; the
// returned slice holds only the newly created top-level posts.
func IngestPage(hashtagName string, page []twitter.RawPost) ([]models.Post, error) {
	var created []models.Post
	err := database.C.Transaction(func(tx *gorm.DB) error {
		for _, raw := range page {
			resolved, err := ResolveRawPost(raw)
			if err != nil {
				return err
			}
			post, wasNew, err := persistResolved(tx, resolved, &hashtagName)
			if err != nil {
				return err
			}
			if wasNew {
				created = append(created, post)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(created) > 0 {
		metrics.PostsCreated.WithLabelValues(hashtagName).Add(float64(len(created)))
	}
	return created, nil
}

func PageSize() int {
	if size := viper.GetInt("monitor.page_size"); size > 0 {
		return size
	}
	return 100
}

func BackfillBudget() int {
	if budget := viper.GetInt("monitor.backfill_budget"); budget > 0 {
		return budget
	}
	return 400
}

func smallestID(posts []models.Post) int64 {
	return lo.MinBy(posts, func(a models.Post, b models.Post) bool {
		return a.ID < b.ID
	}).ID
}

// SyncHashtag pulls everything newer than the hashtag's last known post,
// page by page. Paging stops when a page yields no new posts, when results
// run out, or when a result cannot be persisted; committed pages stay
// committed either way.
func SyncHashtag(ctx context.Context, src twitter.Client, name string) error {
	sinceID, err := GetSinceID(&name)
	if err != nil {
		return err
	}

	page, err := src.Search(ctx, name, PageSize(), sinceID, nil)
	if err != nil {
		metrics.SearchErrors.Inc()
		return err
	}

	for len(page) > 0 {
		metrics.PagesFetched.WithLabelValues(name).Inc()

		created, err := IngestPage(name, page)
		if err != nil {
			log.Warn().Err(err).Str("hashtag", name).Msg("Aborting sync page...")
			break
		}
		if len(created) == 0 {
			break
		}

		Live.NotifyNewPosts(name)

		maxID := smallestID(created) - 1
		page, err = src.Search(ctx, name, PageSize(), sinceID, &maxID)
		if err != nil {
			metrics.SearchErrors.Inc()
			return err
		}
	}

	return nil
}

// SyncAllHashtags fans out one unit of work per tracked hashtag. Each runs
// independently; a failure in one never touches the others.
func SyncAllHashtags(sched *scheduler.Scheduler, src twitter.Client) {
	hashtags, err := ListHashtags()
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when listing hashtags for sync...")
		return
	}

	for _, hashtag := range hashtags {
		name := hashtag.Name
		sched.Submit("sync#"+name, func(ctx context.Context) {
			if err := SyncHashtag(ctx, src, name); err != nil {
				log.Warn().Err(err).Str("hashtag", name).Msg("Sync cycle abandoned...")
			}
		})
	}
}

// BackfillHashtag pages backward in time from maxID with no since floor,
// spending the remaining-post budget until it is exhausted, a page comes
// back empty, or a page creates nothing new.
func BackfillHashtag(ctx context.Context, src twitter.Client, name string, maxID int64, budget int) error {
	for budget > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := src.Search(ctx, name, PageSize(), nil, &maxID)
		if err != nil {
			metrics.SearchErrors.Inc()
			return err
		}
		if len(page) == 0 {
			break
		}
		metrics.PagesFetched.WithLabelValues(name).Inc()

		created, err := IngestPage(name, page)
		if err != nil {
			log.Warn().Err(err).Str("hashtag", name).Msg("Aborting backfill page...")
			break
		}
		if len(created) == 0 {
			break
		}

		Live.NotifyNewPosts(name)

		budget -= len(page)
		maxID = smallestID(created) - 1
	}

	return nil
}

// SubmitBackfill schedules the one-time historical job for a hashtag.
// Re-triggering it for the same hashtag replaces the pending job instead of
// duplicating it.
func SubmitBackfill(sched *scheduler.Scheduler, src twitter.Client, name string, maxID int64) {
	sched.Submit("backfill#"+name, func(ctx context.Context) {
		if err := BackfillHashtag(ctx, src, name, maxID, BackfillBudget()); err != nil {
			log.Warn().Err(err).Str("hashtag", name).Msg("Backfill abandoned...")
		}
	})
}

// CreateHashtagAndFetch is the user-facing creation path: validate and store
// the hashtag, pull the first page right away, then hand the history off to
// a background backfill. An upstream failure leaves the hashtag created and
// is reported back for the caller to surface as a warning.
func CreateHashtagAndFetch(sched *scheduler.Scheduler, src twitter.Client, name string) (models.Hashtag, error) {
	hashtag, err := NewHashtag(name)
	if err != nil {
		return hashtag, err
	}

	Live.NotifyStateChanged()

	page, err := src.Search(context.Background(), name, PageSize(), nil, nil)
	if err != nil {
		metrics.SearchErrors.Inc()
		return hashtag, fmt.Errorf("hashtag created, but the first fetch failed: %v", err)
	}
	if len(page) == 0 {
		return hashtag, nil
	}

	created, err := IngestPage(name, page)
	if err != nil {
		return hashtag, fmt.Errorf("hashtag created, but the first page could not be stored: %v", err)
	}
	if len(created) == 0 {
		return hashtag, nil
	}

	Live.NotifyNewPosts(name)
	SubmitBackfill(sched, src, name, smallestID(created)-1)

	return hashtag, nil
}
