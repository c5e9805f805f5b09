package feed

import (
	"context"
	"io"

	"github.com/skilllink/skilllink/pkg/internal/models"
)

// Session is the opaque identity the auth collaborator hands out. The store
// treats it as read-only input to every mutation's precondition.
type Session struct {
	User SessionUser `json:"user"`
}

type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ProfileRef models the joined-profile ambiguity of row-oriented backends:
// a join may come back as a single object, a sequence, or nothing at all.
// It is normalized exactly once, at the ingestion boundary, by
// ResolveProfile.
type ProfileRef struct {
	single *models.Profile
	many   []models.Profile
}

func OneProfile(p models.Profile) ProfileRef {
	return ProfileRef{single: &p}
}

func ManyProfiles(ps []models.Profile) ProfileRef {
	return ProfileRef{many: ps}
}

func NoProfile() ProfileRef {
	return ProfileRef{}
}

// Profile returns the joined row when one is present. An empty sequence and
// a zero-valued single row both count as absent.
func (r ProfileRef) Profile() (models.Profile, bool) {
	if r.single != nil && r.single.ID != "" {
		return *r.single, true
	}
	if len(r.many) > 0 && r.many[0].ID != "" {
		return r.many[0], true
	}
	return models.Profile{}, false
}

// RawComment is a comment row as returned by the persistence collaborator,
// before its profile join has been resolved.
type RawComment struct {
	Comment models.Comment
	Profile ProfileRef
}

// RawPost is a post row joined with profile, likes and comments, before
// normalization.
type RawPost struct {
	Post     models.Post
	Profile  ProfileRef
	Likes    []models.Like
	Comments []RawComment
}

// PostFields carries the author-editable part of a post.
type PostFields struct {
	Title       string
	Description string
	Category    string
}

// ImageUpload is a pending image attachment. Content is read exactly once.
type ImageUpload struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Persistence is the row-oriented query collaborator. Every delete is
// scoped by both the entity id and the acting user id; implementations
// report the number of rows affected so a non-owner attempt (zero rows, no
// error) can be told apart from a confirmed delete.
type Persistence interface {
	ListPosts(ctx context.Context, authorID *string) ([]RawPost, error)
	GetPost(ctx context.Context, id uint) (RawPost, error)
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	UpdatePost(ctx context.Context, post models.Post, ownerID string) (models.Post, error)
	DeletePost(ctx context.Context, id uint, ownerID string) (int64, error)

	CreateLike(ctx context.Context, userID string, postID uint) (models.Like, error)
	DeleteLike(ctx context.Context, likeID uint, userID string) (int64, error)

	CreateComment(ctx context.Context, userID string, postID uint, content string) (RawComment, error)
	DeleteComment(ctx context.Context, commentID uint, userID string) (int64, error)

	// GetProfile returns (nil, nil) when no profile row exists.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile models.Profile) error
}

// ObjectStorage is the upload collaborator. Upload errors that implement
// `interface{ Unauthorized() bool }` trigger the degrade-gracefully path of
// SavePost instead of aborting it.
type ObjectStorage interface {
	Upload(ctx context.Context, path string, content io.Reader, size int64, contentType string, overwrite bool) error
	PublicURL(path string) string
}
