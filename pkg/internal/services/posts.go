package services

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/skilllink/skilllink/pkg/internal/database"
	"github.com/skilllink/skilllink/pkg/internal/models"
	"gorm.io/gorm"
)

func FilterPostWithAuthor(tx *gorm.DB, authorID string) *gorm.DB {
	return tx.Where("user_id = ?", authorID)
}

func PreloadPostGeneral(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Profile").
		Preload("Likes").
		Preload("Comments").
		Preload("Comments.Profile")
}

func GetPost(tx *gorm.DB, id uint) (models.Post, error) {
	var item models.Post
	if err := PreloadPostGeneral(tx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return item, err
	}

	return item, nil
}

func ListPosts(tx *gorm.DB, take int, offset int) ([]models.Post, error) {
	if take <= 0 || take > 100 {
		take = 100
	}

	var items []models.Post
	if err := PreloadPostGeneral(tx).
		Limit(take).Offset(offset).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return items, err
	}

	return items, nil
}

func CountPosts(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Post{}).Count(&count).Error; err != nil {
		return count, err
	}

	return count, nil
}

func NewPost(item models.Post) (models.Post, error) {
	item.Language = DetectLanguage(item.Description)

	log.Debug().Str("user", item.UserID).Msg("Posting a post...")
	start := time.Now()

	if err := database.C.Create(&item).Error; err != nil {
		return item, err
	}

	log.Debug().Dur("elapsed", time.Since(start)).Uint("id", item.ID).Msg("The post is posted.")
	return item, nil
}

// EditPost updates the author-editable columns scoped by both post id and
// owner. Returns gorm.ErrRecordNotFound when the post is absent or owned by
// someone else.
func EditPost(item models.Post, ownerID string) (models.Post, error) {
	item.Language = DetectLanguage(item.Description)

	res := database.C.Model(&models.Post{}).
		Where("id = ? AND user_id = ?", item.ID, ownerID).
		Updates(map[string]any{
			"title":       item.Title,
			"description": item.Description,
			"category":    item.Category,
			"language":    item.Language,
			"image_url":   item.ImageURL,
		})
	if res.Error != nil {
		return item, res.Error
	}
	if res.RowsAffected == 0 {
		return item, gorm.ErrRecordNotFound
	}

	var saved models.Post
	if err := database.C.Where("id = ?", item.ID).First(&saved).Error; err != nil {
		return item, err
	}

	return saved, nil
}

// DeletePost removes a post scoped by owner, along with its likes and
// comments. The affected count of the post row itself is reported so the
// caller can tell a non-owner attempt apart from a confirmed delete.
func DeletePost(id uint, ownerID string) (int64, error) {
	res := database.C.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Post{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}

	if err := database.C.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
		log.Warn().Err(err).Uint("post", id).Msg("An error occurred when cleaning up post likes...")
	}
	if err := database.C.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		log.Warn().Err(err).Uint("post", id).Msg("An error occurred when cleaning up post comments...")
	}

	return res.RowsAffected, nil
}

// GetProfileSnapshot loads the profile row for a user, reporting absence as
// (nil, nil) so callers can synthesize a placeholder.
func GetProfileSnapshot(userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := database.C.Where("id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}
