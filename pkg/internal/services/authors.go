package services

import (
	"github.com/hashtagwatch/monitor/pkg/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertAuthor creates the author or fully replaces its mutable fields,
// keyed by the external id.
func UpsertAuthor(tx *gorm.DB, author models.Author) (models.Author, error) {
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "screen_name", "created_at",
			"friends_count", "followers_count", "profile_image",
		}),
	}).Create(&author).Error

	return author, err
}

// collectAuthorIfOrphan removes the author once no post references it
// anymore. Called after each post deletion; this is explicit garbage
// collection, not a database-level cascade.
func collectAuthorIfOrphan(tx *gorm.DB, authorID int64) error {
	var remaining int64
	if err := tx.Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Count(&remaining).Error; err != nil {
		return err
	}
	if remaining > 0 {
		return nil
	}

	return tx.Delete(&models.Author{}, "id = ?", authorID).Error
}
