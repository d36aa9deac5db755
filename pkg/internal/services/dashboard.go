package services

import (
	"context"
	"fmt"
	"time"

	localCache "github.com/hashtagwatch/monitor/pkg/internal/cache"
	"github.com/hashtagwatch/monitor/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/spf13/viper"
)

const (
	dashboardDefaultDays   = 7
	dashboardTopLanguages  = 3
	dashboardCacheTagLabel = "dashboard"
)

// DashboardSnapshot is the full state pushed to a subscriber: aggregate
// counts, time series, language breakdown, summary and the latest feed,
// scoped to the selected hashtag or to all of them.
type DashboardSnapshot struct {
	SelectedHashtag   *string                 `json:"selected_hashtag"`
	Hashtags          []models.Hashtag        `json:"hashtags"`
	Posts             []models.Post           `json:"tweets"`
	Summary           Summary                 `json:"summary"`
	TweetsPerHashtag  map[string]HashtagCount `json:"tweets_per_hashtag"`
	TweetsPerDay      map[string]DaySeries    `json:"tweets_per_day"`
	TweetsPerLanguage map[string]int64        `json:"tweets_per_lang"`
}

func LatestCount() int {
	if count := viper.GetInt("monitor.latest_count"); count > 0 {
		return count
	}
	return 100
}

func dashboardCacheKey(selected *string) string {
	if selected == nil {
		return "dashboard#$all"
	}
	return fmt.Sprintf("dashboard#%s", *selected)
}

// BuildDashboard assembles the snapshot, serving it from the local cache
// until a notification invalidates it.
func BuildDashboard(selected *string) (*DashboardSnapshot, error) {
	ctx := context.Background()

	if localCache.S != nil {
		cacheManager := cache.New[*DashboardSnapshot](localCache.S)
		if snapshot, err := cacheManager.Get(ctx, dashboardCacheKey(selected)); err == nil && snapshot != nil {
			return snapshot, nil
		}
	}

	hashtags, err := ListHashtags()
	if err != nil {
		return nil, err
	}
	posts, err := LatestPosts(selected, LatestCount())
	if err != nil {
		return nil, err
	}
	summary, err := GetSummary(selected)
	if err != nil {
		return nil, err
	}
	perHashtag, err := TweetsCountPerHashtag()
	if err != nil {
		return nil, err
	}
	perDay, err := HashtagTweetsPerDay(dashboardDefaultDays)
	if err != nil {
		return nil, err
	}
	perLanguage, err := TweetsPerLanguage(dashboardTopLanguages, selected)
	if err != nil {
		return nil, err
	}

	snapshot := &DashboardSnapshot{
		SelectedHashtag:   selected,
		Hashtags:          hashtags,
		Posts:             posts,
		Summary:           summary,
		TweetsPerHashtag:  perHashtag,
		TweetsPerDay:      perDay,
		TweetsPerLanguage: perLanguage,
	}

	if localCache.S != nil {
		cacheManager := cache.New[*DashboardSnapshot](localCache.S)
		_ = cacheManager.Set(
			ctx,
			dashboardCacheKey(selected),
			snapshot,
			store.WithExpiration(time.Minute),
			store.WithTags([]string{dashboardCacheTagLabel}),
		)
	}

	return snapshot, nil
}

// FlushDashboardCache drops every cached snapshot; the next subscriber pull
// re-queries the store.
func FlushDashboardCache() {
	if localCache.S == nil {
		return
	}

	cacheManager := cache.New[*DashboardSnapshot](localCache.S)
	_ = cacheManager.Invalidate(
		context.Background(),
		store.WithInvalidateTags([]string{dashboardCacheTagLabel}),
	)
}
