package services

import (
	"github.com/hashtagwatch/monitor/pkg/internal/database"
	"github.com/hashtagwatch/monitor/pkg/internal/metrics"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CollectTrash removes every post that carries no hashtag association and is
// not the target of another post's quote or retweet reference, then every
// author left without posts.
func CollectTrash() (int64, error) {
	var swept int64
	err := database.C.Transaction(func(tx *gorm.DB) error {
		posts := tx.Exec(`DELETE FROM posts
			WHERE id NOT IN (SELECT post_id FROM post_hashtags)
			AND id NOT IN (SELECT quoted_id FROM posts WHERE quoted_id IS NOT NULL)
			AND id NOT IN (SELECT retweeted_id FROM posts WHERE retweeted_id IS NOT NULL)`)
		if posts.Error != nil {
			return posts.Error
		}
		swept += posts.RowsAffected

		authors := tx.Exec(`DELETE FROM authors
			WHERE id NOT IN (SELECT DISTINCT author_id FROM posts)`)
		if authors.Error != nil {
			return authors.Error
		}
		swept += authors.RowsAffected

		return nil
	})
	if err != nil {
		return swept, err
	}

	metrics.TrashSwept.Add(float64(swept))
	return swept, nil
}

func DoAutoDatabaseCleanup() {
	log.Debug().Msg("Now cleaning up orphaned records...")

	swept, err := CollectTrash()
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when collecting trash...")
		return
	}
	if swept > 0 {
		log.Info().Int64("count", swept).Msg("Removed orphaned records.")
		Live.NotifyStateChanged()
	}
}
