package services

import (
	"context"

	"github.com/samber/lo"
	"github.com/skilllink/skilllink/pkg/internal/database"
	"github.com/skilllink/skilllink/pkg/internal/feed"
	"github.com/skilllink/skilllink/pkg/internal/models"
)

// FeedSource adapts the gorm-backed services to the feed store's
// persistence collaborator. Joined rows are translated into the raw shapes
// the store normalizes at its boundary.
type FeedSource struct{}

func NewFeedSource() FeedSource {
	return FeedSource{}
}

func (FeedSource) ListPosts(ctx context.Context, authorID *string) ([]feed.RawPost, error) {
	tx := database.C.WithContext(ctx)
	if authorID != nil {
		tx = FilterPostWithAuthor(tx, *authorID)
	}

	items, err := ListPosts(tx, 0, 0)
	if err != nil {
		return nil, err
	}

	return lo.Map(items, func(item models.Post, _ int) feed.RawPost {
		return rawPost(item)
	}), nil
}

func (FeedSource) GetPost(ctx context.Context, id uint) (feed.RawPost, error) {
	item, err := GetPost(database.C.WithContext(ctx), id)
	if err != nil {
		return feed.RawPost{}, err
	}

	return rawPost(item), nil
}

func (FeedSource) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	return NewPost(post)
}

func (FeedSource) UpdatePost(ctx context.Context, post models.Post, ownerID string) (models.Post, error) {
	return EditPost(post, ownerID)
}

func (FeedSource) DeletePost(ctx context.Context, id uint, ownerID string) (int64, error) {
	return DeletePost(id, ownerID)
}

func (FeedSource) CreateLike(ctx context.Context, userID string, postID uint) (models.Like, error) {
	return CreateLike(userID, postID)
}

func (FeedSource) DeleteLike(ctx context.Context, likeID uint, userID string) (int64, error) {
	return DeleteLike(likeID, userID)
}

func (FeedSource) CreateComment(ctx context.Context, userID string, postID uint, content string) (feed.RawComment, error) {
	comment, err := CreateComment(userID, postID, content)
	if err != nil {
		return feed.RawComment{}, err
	}

	return rawComment(comment), nil
}

func (FeedSource) DeleteComment(ctx context.Context, commentID uint, userID string) (int64, error) {
	return DeleteComment(commentID, userID)
}

func (FeedSource) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return GetProfileSnapshot(userID)
}

func (FeedSource) CreateProfile(ctx context.Context, profile models.Profile) error {
	if err := database.C.WithContext(ctx).Create(&profile).Error; err != nil {
		return err
	}

	invalidateProfileCache(profile.ID)
	return nil
}

func rawPost(item models.Post) feed.RawPost {
	raw := feed.RawPost{
		Post:    item,
		Profile: profileRef(item.Profile),
		Likes:   item.Likes,
		Comments: lo.Map(item.Comments, func(comment models.Comment, _ int) feed.RawComment {
			return rawComment(comment)
		}),
	}

	// The raw shape owns the joins from here on.
	raw.Post.Profile = models.Profile{}
	raw.Post.Likes = nil
	raw.Post.Comments = nil
	return raw
}

func rawComment(comment models.Comment) feed.RawComment {
	ref := profileRef(comment.Profile)
	comment.Profile = models.Profile{}
	return feed.RawComment{Comment: comment, Profile: ref}
}

func profileRef(profile models.Profile) feed.ProfileRef {
	if len(profile.ID) == 0 {
		return feed.NoProfile()
	}
	return feed.OneProfile(profile)
}
