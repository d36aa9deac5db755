package services

import (
	"errors"

	"github.com/hashtagwatch/monitor/pkg/internal/database"
	"github.com/hashtagwatch/monitor/pkg/internal/models"
	"gorm.io/gorm"
)

func ListHashtags() ([]models.Hashtag, error) {
	var hashtags []models.Hashtag
	err := database.C.Order("name").Find(&hashtags).Error

	return hashtags, err
}

func GetHashtag(name string) (models.Hashtag, error) {
	var hashtag models.Hashtag
	if err := database.C.Where("name = ?", name).First(&hashtag).Error; err != nil {
		return hashtag, err
	}
	return hashtag, nil
}

// NewHashtag validates the name with every check aggregated and creates the
// hashtag. With no explicit color one is sampled from the palette.
func NewHashtag(name string, color ...string) (models.Hashtag, error) {
	var hashtag models.Hashtag
	if issues := ValidateHashtagName(name); issues != nil {
		return hashtag, issues
	}

	hashtag = models.Hashtag{Name: name, Color: models.RandomColor()}
	if len(color) > 0 && len(color[0]) > 0 {
		hashtag.Color = color[0]
	}

	err := database.C.Create(&hashtag).Error
	return hashtag, err
}

// GetOrCreateHashtag is the ingestion-time variant of NewHashtag: it returns
// the existing record when present and otherwise creates one, failing on the
// first invalid check.
func GetOrCreateHashtag(name string) (models.Hashtag, error) {
	var hashtag models.Hashtag
	if err := database.C.Where("name = ?", name).First(&hashtag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewHashtag(name)
		}
		return hashtag, err
	}
	return hashtag, nil
}

// DeleteHashtagIfExists removes the hashtag and cascades: every post whose
// only hashtag association was this one is deleted (triggering author
// garbage collection), posts with further associations merely lose the
// membership row. Reports whether the hashtag existed.
func DeleteHashtagIfExists(name string) (bool, error) {
	var hashtag models.Hashtag
	if err := database.C.Where("name = ?", name).First(&hashtag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		var posts []models.Post
		if err := tx.
			Joins("JOIN post_hashtags ON post_hashtags.post_id = posts.id").
			Where("post_hashtags.hashtag_name = ?", hashtag.Name).
			Find(&posts).Error; err != nil {
			return err
		}

		for _, post := range posts {
			var associations int64
			if err := tx.Table("post_hashtags").
				Where("post_id = ?", post.ID).
				Count(&associations).Error; err != nil {
				return err
			}
			if associations <= 1 {
				if err := deletePostTx(tx, post); err != nil {
					return err
				}
			}
		}

		if err := tx.Exec("DELETE FROM post_hashtags WHERE hashtag_name = ?", hashtag.Name).Error; err != nil {
			return err
		}
		return tx.Delete(&hashtag).Error
	})
	if err != nil {
		return true, err
	}

	Live.NotifyStateChanged()
	return true, nil
}
