package services

import (
	"github.com/skilllink/skilllink/pkg/internal/database"
	"github.com/skilllink/skilllink/pkg/internal/models"
)

// CreateLike inserts a like row and returns it with its assigned id and
// created_at. Uniqueness of (user, post) is mainly enforced by the toggle
// protocol; the index backs it up against races.
func CreateLike(userID string, postID uint) (models.Like, error) {
	like := models.Like{
		UserID: userID,
		PostID: postID,
	}
	if err := database.C.Create(&like).Error; err != nil {
		return like, err
	}

	return like, nil
}

// DeleteLike removes a like scoped by both its own id and the acting user.
func DeleteLike(likeID uint, userID string) (int64, error) {
	res := database.C.Where("id = ? AND user_id = ?", likeID, userID).Delete(&models.Like{})
	return res.RowsAffected, res.Error
}

func CountPostLikes(postID uint) int64 {
	var count int64
	if err := database.C.Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0
	}

	return count
}
