package services

import (
	"database/sql"
	"errors"

	"github.com/hashtagwatch/monitor/pkg/internal/database"
	"github.com/hashtagwatch/monitor/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func PreloadGeneral(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Author").
		Preload("Hashtags").
		Preload("Quoted").
		Preload("Quoted.Author").
		Preload("Quoted.Hashtags").
		Preload("Retweeted").
		Preload("Retweeted.Author").
		Preload("Retweeted.Hashtags")
}

// GetSinceID returns the largest post id associated with the hashtag, or the
// largest id overall when name is nil. A nil result means no posts exist yet.
func GetSinceID(name *string) (*int64, error) {
	tx := database.C.Model(&models.Post{}).Select("MAX(posts.id)")
	if name != nil {
		tx = tx.
			Joins("JOIN post_hashtags ON post_hashtags.post_id = posts.id").
			Where("post_hashtags.hashtag_name = ?", *name)
	}

	var max sql.NullInt64
	if err := tx.Row().Scan(&max); err != nil {
		return nil, err
	}
	if !max.Valid {
		return nil, nil
	}
	return &max.Int64, nil
}

// CreatePostIfAbsent creates the post keyed by its external id. A repeat
// delivery of an already-known id is a no-op: the stored record keeps its
// original fields and hashtag set. Creation and hashtag attachment happen
// atomically within the caller's transaction.
func CreatePostIfAbsent(tx *gorm.DB, post models.Post, hashtags []models.Hashtag) (models.Post, bool, error) {
	var existing models.Post
	err := tx.Where("id = ?", post.ID).First(&existing).Error
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return post, false, err
	}

	// A retweet never carries its own engagement.
	if post.RetweetedID != nil {
		post.RetweetCount = 0
	}

	hashtags = lo.UniqBy(hashtags, func(h models.Hashtag) string {
		return h.Name
	})

	if err := tx.Omit(clause.Associations).Create(&post).Error; err != nil {
		return post, false, err
	}
	if len(hashtags) > 0 {
		if err := tx.Model(&post).Association("Hashtags").Append(hashtags); err != nil {
			return post, false, err
		}
		post.Hashtags = hashtags
	}

	return post, true, nil
}

// DeletePost removes a post inside its own transaction, cascading to every
// post that quotes or retweets it and collecting authors left without posts.
func DeletePost(post models.Post) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		return deletePostTx(tx, post)
	})
}

func deletePostTx(tx *gorm.DB, post models.Post) error {
	var referencing []models.Post
	if err := tx.
		Where("quoted_id = ? OR retweeted_id = ?", post.ID, post.ID).
		Find(&referencing).Error; err != nil {
		return err
	}
	for _, ref := range referencing {
		if err := deletePostTx(tx, ref); err != nil {
			return err
		}
	}

	if err := tx.Exec("DELETE FROM post_hashtags WHERE post_id = ?", post.ID).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.Post{}, "id = ?", post.ID).Error; err != nil {
		return err
	}

	return collectAuthorIfOrphan(tx, post.AuthorID)
}

// DeleteAuthor removes the author and, through the foreign key relation,
// every post it published, including posts cascaded via quote or retweet
// references.
func DeleteAuthor(author models.Author) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		var posts []models.Post
		if err := tx.Where("author_id = ?", author.ID).Find(&posts).Error; err != nil {
			return err
		}
		for _, post := range posts {
			if err := deletePostTx(tx, post); err != nil {
				return err
			}
		}

		// The last deletePostTx already collected the author when it lost
		// its final post; this covers authors that had none.
		return tx.Where("id = ?", author.ID).Delete(&models.Author{}).Error
	})
}

func postHashtags(tx *gorm.DB, postID int64) ([]models.Hashtag, error) {
	var hashtags []models.Hashtag
	err := tx.
		Joins("JOIN post_hashtags ON post_hashtags.hashtag_name = hashtags.name").
		Where("post_hashtags.post_id = ?", postID).
		Find(&hashtags).Error

	return hashtags, err
}
