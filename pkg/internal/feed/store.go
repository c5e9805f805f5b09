package feed

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/skilllink/skilllink/pkg/internal/models"
)

// Store owns the in-memory post collection, denormalized with profile,
// likes and comments. Every mutation either reflects a confirmed
// collaborator write by patching local state to match, or leaves local
// state unchanged and surfaces a typed error.
//
// The mutex guards only the local collection. Collaborator calls happen
// outside of it, so two rapid mutations on the same entity may still race
// at the backend; that check-then-act gap is an accepted property for a
// human-paced feed, not an invariant.
type Store struct {
	mu      sync.Mutex
	posts   []models.Post
	loading bool

	data    Persistence
	uploads ObjectStorage
}

func NewStore(data Persistence, uploads ObjectStorage) *Store {
	return &Store{data: data, uploads: uploads}
}

// Posts returns a snapshot of the local collection in created_at descending
// order, as produced by the last successful fetch.
func (s *Store) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePosts(s.posts)
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// FetchAll retrieves posts with their joins, optionally scoped to one
// author, and replaces the entire local collection with the result. On
// failure the previous collection is kept.
func (s *Store) FetchAll(ctx context.Context, authorID *string) ([]models.Post, error) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	raws, err := s.data.ListPosts(ctx, authorID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return nil, newError(KindFetch, "fetch_all", err)
	}

	s.posts = lo.Map(raws, func(raw RawPost, _ int) models.Post {
		return normalizePost(raw)
	})

	return clonePosts(s.posts), nil
}

// FetchOne retrieves a single post with its joins and, when the post is
// already present locally, replaces it in place.
func (s *Store) FetchOne(ctx context.Context, id uint) (models.Post, error) {
	raw, err := s.data.GetPost(ctx, id)
	if err != nil {
		return models.Post{}, newError(KindFetch, "fetch_one", err)
	}

	post := normalizePost(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(post.ID); idx >= 0 {
		s.posts[idx] = post
	}

	return post, nil
}

// ToggleLike likes the post when the acting user has no like on it yet and
// unlikes it otherwise, keyed by current local membership. A post id that
// is no longer in local state is a silent no-op since the post may have
// been concurrently deleted.
func (s *Store) ToggleLike(ctx context.Context, postID uint, sess *Session) ([]models.Like, error) {
	if sess == nil {
		return nil, newError(KindAuthRequired, "toggle_like", nil)
	}

	s.mu.Lock()
	idx := s.indexOf(postID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, nil
	}
	existing, found := lo.Find(s.posts[idx].Likes, func(like models.Like) bool {
		return like.UserID == sess.User.ID
	})
	s.mu.Unlock()

	if found {
		affected, err := s.data.DeleteLike(ctx, existing.ID, sess.User.ID)
		if err != nil {
			return nil, newError(KindMutation, "toggle_like", err)
		}
		if affected == 0 {
			return nil, nil
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		idx = s.indexOf(postID)
		if idx < 0 {
			return nil, nil
		}
		post := s.posts[idx]
		post.Likes = lo.Filter(post.Likes, func(like models.Like, _ int) bool {
			return like.ID != existing.ID
		})
		s.posts[idx] = post
		return cloneLikes(post.Likes), nil
	}

	like, err := s.data.CreateLike(ctx, sess.User.ID, postID)
	if err != nil {
		return nil, newError(KindMutation, "toggle_like", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx = s.indexOf(postID)
	if idx < 0 {
		return nil, nil
	}
	post := s.posts[idx]
	post.Likes = append(append([]models.Like(nil), post.Likes...), like)
	s.posts[idx] = post
	return cloneLikes(post.Likes), nil
}

// AddComment appends a comment to the target post. Whitespace-only content
// is rejected before any collaborator call.
func (s *Store) AddComment(ctx context.Context, postID uint, sess *Session, content string) (models.Comment, error) {
	if sess == nil {
		return models.Comment{}, newError(KindAuthRequired, "add_comment", nil)
	}
	content = strings.TrimSpace(content)
	if len(content) == 0 {
		return models.Comment{}, validationError("add_comment", "comment cannot be empty")
	}

	raw, err := s.data.CreateComment(ctx, sess.User.ID, postID, content)
	if err != nil {
		return models.Comment{}, newError(KindMutation, "add_comment", err)
	}

	comment := raw.Comment
	comment.Profile = ResolveProfile(raw.Profile, comment.UserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(postID); idx >= 0 {
		post := s.posts[idx]
		post.Comments = append(append([]models.Comment(nil), post.Comments...), comment)
		s.posts[idx] = post
	}

	return comment, nil
}

// DeleteComment issues a delete scoped by both the comment id and the
// acting user. The comment is removed locally only when the collaborator
// confirmed a row was affected, so a non-owner attempt leaves local state
// intact.
func (s *Store) DeleteComment(ctx context.Context, commentID, postID uint, sess *Session) error {
	if sess == nil {
		return newError(KindAuthRequired, "delete_comment", nil)
	}

	affected, err := s.data.DeleteComment(ctx, commentID, sess.User.ID)
	if err != nil {
		return newError(KindMutation, "delete_comment", err)
	}
	if affected == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(postID); idx >= 0 {
		post := s.posts[idx]
		post.Comments = lo.Filter(post.Comments, func(comment models.Comment, _ int) bool {
			return comment.ID != commentID
		})
		s.posts[idx] = post
	}

	return nil
}

// SaveResult carries the saved post plus the non-fatal warning produced
// when an image upload was denied and the save proceeded without it.
type SaveResult struct {
	Post    models.Post
	Warning error
}

// SavePost creates a post or, when existing is given, updates it scoped by
// owner. An attached image is validated locally, then uploaded under a
// path namespaced by the acting user; an authorization-class upload failure
// downgrades to a warning and the save proceeds with the previous image.
// A missing profile row is self-healed from the email local part before the
// first save.
func (s *Store) SavePost(ctx context.Context, existing *models.Post, sess *Session, fields PostFields, image *ImageUpload) (SaveResult, error) {
	var res SaveResult
	if sess == nil {
		return res, newError(KindAuthRequired, "save_post", nil)
	}

	var imageURL *string
	if existing != nil {
		imageURL = existing.ImageURL
	}

	if image != nil {
		if err := ValidateImage(image); err != nil {
			return res, err
		}

		path := ImagePath(sess.User.ID, image.Name)
		if err := s.uploads.Upload(ctx, path, image.Content, image.Size, image.ContentType, true); err != nil {
			if !isUnauthorized(err) {
				return res, newError(KindUpload, "save_post", err)
			}
			// Denied by storage policy: keep the previous image and let the
			// caller surface the warning.
			log.Warn().Err(err).Str("user", sess.User.ID).Msg("Image upload was denied, saving post without it...")
			res.Warning = err
		} else {
			imageURL = lo.ToPtr(s.uploads.PublicURL(path))
		}
	}

	if err := s.ensureProfile(ctx, sess); err != nil {
		return res, err
	}

	post := models.Post{
		UserID:      sess.User.ID,
		Title:       fields.Title,
		Description: fields.Description,
		Category:    fields.Category,
		ImageURL:    imageURL,
	}

	var saved models.Post
	var err error
	if existing != nil {
		post.ID = existing.ID
		saved, err = s.data.UpdatePost(ctx, post, sess.User.ID)
	} else {
		saved, err = s.data.CreatePost(ctx, post)
	}
	if err != nil {
		return res, newError(KindPersistence, "save_post", err)
	}

	s.mu.Lock()
	if idx := s.indexOf(saved.ID); idx >= 0 {
		prev := s.posts[idx]
		saved.Profile = prev.Profile
		saved.Likes = prev.Likes
		saved.Comments = prev.Comments
		s.posts[idx] = saved
	}
	s.mu.Unlock()

	res.Post = saved
	return res, nil
}

// DeletePost issues a delete scoped by both the post id and its owner and,
// on confirmation, drops the post with its likes and comments from local
// state.
func (s *Store) DeletePost(ctx context.Context, postID uint, sess *Session) error {
	if sess == nil {
		return newError(KindAuthRequired, "delete_post", nil)
	}

	affected, err := s.data.DeletePost(ctx, postID, sess.User.ID)
	if err != nil {
		return newError(KindMutation, "delete_post", err)
	}
	if affected == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = lo.Filter(s.posts, func(post models.Post, _ int) bool {
		return post.ID != postID
	})

	return nil
}

func (s *Store) ensureProfile(ctx context.Context, sess *Session) error {
	profile, err := s.data.GetProfile(ctx, sess.User.ID)
	if err != nil {
		return newError(KindPersistence, "save_post", err)
	}
	if profile != nil {
		return nil
	}

	name, _, _ := strings.Cut(sess.User.Email, "@")
	if len(name) == 0 {
		name = "User"
	}

	log.Debug().Str("user", sess.User.ID).Msg("Creating a missing profile before the first post...")
	if err := s.data.CreateProfile(ctx, models.Profile{ID: sess.User.ID, Name: name}); err != nil {
		return newError(KindPersistence, "save_post", err)
	}

	return nil
}

// indexOf must be called with the mutex held.
func (s *Store) indexOf(id uint) int {
	for idx, post := range s.posts {
		if post.ID == id {
			return idx
		}
	}
	return -1
}

func normalizePost(raw RawPost) models.Post {
	post := raw.Post
	post.Profile = ResolveProfile(raw.Profile, post.UserID)

	post.Likes = append([]models.Like(nil), raw.Likes...)
	post.Comments = lo.Map(raw.Comments, func(rc RawComment, _ int) models.Comment {
		comment := rc.Comment
		comment.Profile = ResolveProfile(rc.Profile, comment.UserID)
		return comment
	})

	return post
}

func clonePosts(in []models.Post) []models.Post {
	out := make([]models.Post, len(in))
	copy(out, in)
	return out
}

// cloneLikes always yields a non-nil slice so callers can tell an empty
// like set apart from the nil "post not present" signal.
func cloneLikes(in []models.Like) []models.Like {
	out := make([]models.Like, len(in))
	copy(out, in)
	return out
}
