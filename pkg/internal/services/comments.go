package services

import (
	"github.com/skilllink/skilllink/pkg/internal/database"
	"github.com/skilllink/skilllink/pkg/internal/models"
)

// CreateComment inserts a comment and returns it joined with the author's
// profile, mirroring what a fresh fetch would produce.
func CreateComment(userID string, postID uint, content string) (models.Comment, error) {
	comment := models.Comment{
		UserID:  userID,
		PostID:  postID,
		Content: content,
	}
	if err := database.C.Create(&comment).Error; err != nil {
		return comment, err
	}

	if err := database.C.Preload("Profile").
		Where("id = ?", comment.ID).
		First(&comment).Error; err != nil {
		return comment, err
	}

	return comment, nil
}

// DeleteComment removes a comment scoped by both its id and the acting
// user, so a non-owner attempt affects zero rows instead of erroring.
func DeleteComment(commentID uint, userID string) (int64, error) {
	res := database.C.Where("id = ? AND user_id = ?", commentID, userID).Delete(&models.Comment{})
	return res.RowsAffected, res.Error
}

func CountPostComments(postID uint) int64 {
	var count int64
	if err := database.C.Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0
	}

	return count
}
