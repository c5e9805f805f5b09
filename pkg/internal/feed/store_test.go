package feed

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skilllink/skilllink/pkg/internal/models"
)

type fakeData struct {
	calls []string

	listPosts     func(authorID *string) ([]RawPost, error)
	getPost       func(id uint) (RawPost, error)
	createPost    func(post models.Post) (models.Post, error)
	updatePost    func(post models.Post, ownerID string) (models.Post, error)
	deletePost    func(id uint, ownerID string) (int64, error)
	createLike    func(userID string, postID uint) (models.Like, error)
	deleteLike    func(likeID uint, userID string) (int64, error)
	createComment func(userID string, postID uint, content string) (RawComment, error)
	deleteComment func(commentID uint, userID string) (int64, error)
	getProfile    func(userID string) (*models.Profile, error)
	createProfile func(profile models.Profile) error
}

func (f *fakeData) ListPosts(_ context.Context, authorID *string) ([]RawPost, error) {
	f.calls = append(f.calls, "ListPosts")
	if f.listPosts != nil {
		return f.listPosts(authorID)
	}
	return nil, nil
}

func (f *fakeData) GetPost(_ context.Context, id uint) (RawPost, error) {
	f.calls = append(f.calls, "GetPost")
	if f.getPost != nil {
		return f.getPost(id)
	}
	return RawPost{}, errors.New("not found")
}

func (f *fakeData) CreatePost(_ context.Context, post models.Post) (models.Post, error) {
	f.calls = append(f.calls, "CreatePost")
	if f.createPost != nil {
		return f.createPost(post)
	}
	post.ID = 1
	return post, nil
}

func (f *fakeData) UpdatePost(_ context.Context, post models.Post, ownerID string) (models.Post, error) {
	f.calls = append(f.calls, "UpdatePost")
	if f.updatePost != nil {
		return f.updatePost(post, ownerID)
	}
	return post, nil
}

func (f *fakeData) DeletePost(_ context.Context, id uint, ownerID string) (int64, error) {
	f.calls = append(f.calls, "DeletePost")
	if f.deletePost != nil {
		return f.deletePost(id, ownerID)
	}
	return 1, nil
}

func (f *fakeData) CreateLike(_ context.Context, userID string, postID uint) (models.Like, error) {
	f.calls = append(f.calls, "CreateLike")
	if f.createLike != nil {
		return f.createLike(userID, postID)
	}
	return models.Like{ID: 1, UserID: userID, PostID: postID}, nil
}

func (f *fakeData) DeleteLike(_ context.Context, likeID uint, userID string) (int64, error) {
	f.calls = append(f.calls, "DeleteLike")
	if f.deleteLike != nil {
		return f.deleteLike(likeID, userID)
	}
	return 1, nil
}

func (f *fakeData) CreateComment(_ context.Context, userID string, postID uint, content string) (RawComment, error) {
	f.calls = append(f.calls, "CreateComment")
	if f.createComment != nil {
		return f.createComment(userID, postID, content)
	}
	return RawComment{Comment: models.Comment{
		BaseModel: models.BaseModel{ID: 1},
		UserID:    userID,
		PostID:    postID,
		Content:   content,
	}}, nil
}

func (f *fakeData) DeleteComment(_ context.Context, commentID uint, userID string) (int64, error) {
	f.calls = append(f.calls, "DeleteComment")
	if f.deleteComment != nil {
		return f.deleteComment(commentID, userID)
	}
	return 1, nil
}

func (f *fakeData) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	f.calls = append(f.calls, "GetProfile")
	if f.getProfile != nil {
		return f.getProfile(userID)
	}
	return &models.Profile{ID: userID, Name: "someone"}, nil
}

func (f *fakeData) CreateProfile(_ context.Context, profile models.Profile) error {
	f.calls = append(f.calls, "CreateProfile")
	if f.createProfile != nil {
		return f.createProfile(profile)
	}
	return nil
}

type deniedError struct{}

func (deniedError) Error() string      { return "access denied" }
func (deniedError) Unauthorized() bool { return true }

type fakeUploads struct {
	calls  []string
	upload func(path string) error
}

func (f *fakeUploads) Upload(_ context.Context, path string, _ io.Reader, _ int64, _ string, _ bool) error {
	f.calls = append(f.calls, "Upload")
	if f.upload != nil {
		return f.upload(path)
	}
	return nil
}

func (f *fakeUploads) PublicURL(path string) string {
	return "http://storage.local/post-images/" + path
}

func seededStore(t *testing.T, raws ...RawPost) (*Store, *fakeData, *fakeUploads) {
	t.Helper()

	data := &fakeData{listPosts: func(*string) ([]RawPost, error) {
		return raws, nil
	}}
	uploads := &fakeUploads{}

	store := NewStore(data, uploads)
	_, err := store.FetchAll(context.Background(), nil)
	require.NoError(t, err)

	data.calls = nil
	return store, data, uploads
}

func storyRaw(id uint, userID string) RawPost {
	return RawPost{
		Post: models.Post{
			BaseModel: models.BaseModel{ID: id},
			UserID:    userID,
			Title:     "hello",
		},
		Profile: OneProfile(models.Profile{ID: userID, Name: "someone"}),
	}
}

func TestFetchAllSubstitutesPlaceholderProfiles(t *testing.T) {
	raw := RawPost{
		Post: models.Post{BaseModel: models.BaseModel{ID: 1}, UserID: "0123456789abcdef"},
		Comments: []RawComment{{
			Comment: models.Comment{BaseModel: models.BaseModel{ID: 7}, UserID: "u1", PostID: 1},
			Profile: NoProfile(),
		}},
	}

	store, _, _ := seededStore(t, raw)

	posts := store.Posts()
	require.Len(t, posts, 1)

	assert.Equal(t, "0123456789abcdef", posts[0].Profile.ID)
	assert.Equal(t, "User_01234567", posts[0].Profile.Name)

	require.Len(t, posts[0].Comments, 1)
	assert.Equal(t, "u1", posts[0].Comments[0].Profile.ID)
	assert.Equal(t, "User_u1", posts[0].Comments[0].Profile.Name)

	// Every post carries a profile consistent with its author.
	for _, post := range posts {
		assert.Equal(t, post.UserID, post.Profile.ID)
	}
}

func TestFetchAllKeepsStateOnError(t *testing.T) {
	store, data, _ := seededStore(t, storyRaw(1, "u1"))

	data.listPosts = func(*string) ([]RawPost, error) {
		return nil, errors.New("backend down")
	}

	_, err := store.FetchAll(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindFetch))
	assert.Len(t, store.Posts(), 1)
	assert.False(t, store.Loading())
}

func TestToggleLikeRoundTrip(t *testing.T) {
	store, data, _ := seededStore(t, storyRaw(1, "u1"))
	sess := &Session{User: SessionUser{ID: "u2", Email: "u2@example.com"}}
	ctx := context.Background()

	likes, err := store.ToggleLike(ctx, 1, sess)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, "u2", likes[0].UserID)
	assert.Equal(t, []string{"CreateLike"}, data.calls)

	likes, err = store.ToggleLike(ctx, 1, sess)
	require.NoError(t, err)
	require.NotNil(t, likes)
	assert.Empty(t, likes)
	assert.Equal(t, []string{"CreateLike", "DeleteLike"}, data.calls)
}

func TestToggleLikeRequiresSession(t *testing.T) {
	store, data, _ := seededStore(t, storyRaw(1, "u1"))

	_, err := store.ToggleLike(context.Background(), 1, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuthRequired))
	assert.Empty(t, data.calls)
}

func TestToggleLikeMissingPostIsNoop(t *testing.T) {
	store, data, _ := seededStore(t, storyRaw(1, "u1"))
	sess := &Session{User: SessionUser{ID: "u2"}}

	likes, err := store.ToggleLike(context.Background(), 99, sess)
	require.NoError(t, err)
	assert.Nil(t, likes)
	assert.Empty(t, data.calls)
}

func TestToggleLikeFailureKeepsState(t *testing.T) {
	store, data, _ := seededStore(t, storyRaw(1, "u1"))
	sess := &Session{User: SessionUser{ID: "u2"}}

	data.createLike = func(string, uint) (models.Like, error) {
		return models.Like{}, errors.New("constraint violated")
	}

	_, err := store.ToggleLike(context.Background(), 1, sess)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindMutation))
	assert.Empty(t, store.Posts()[0].Likes)
}

func TestAddCommentRejectsBlankContent(t *testing.T) {
	store, data, _ := seededStore(t, storyRaw(1, "u1"))
	sess := &Session{User: SessionUser{ID: "u2"}}

	_, err := store.AddComment(context.Background(), 1, sess, "   ")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Empty(t, data.calls, "no collaborator call may be issued")
}

func TestAddCommentAppendsWithResolvedProfile(t *testing.T) {
	store, _, _ := seededStore(t, storyRaw(1, "u1"))
	sess := &Session{User: SessionUser{ID: "u2"}}

	comment, err := store.AddComment(context.Background(), 1, sess, "  nice post  ")
	require.NoError(t, err)
	assert.Equal(t, "nice post", comment.Content)
	assert.Equal(t, "User_u2", comment.Profile.Name, "absent join resolves to a placeholder")

	posts := store.Posts()
	require.Len(t, posts[0].Comments, 1)
	assert.Equal(t, comment.ID, posts[0].Comments[0].ID)
}

func TestDeleteCommentIsScopedToOwner(t *testing.T) {
	raw := storyRaw(1, "u1")
	raw.Comments = []RawComment{{
		Comment: models.Comment{BaseModel: models.BaseModel{ID: 7}, UserID: "u1", PostID: 1, Content: "mine"},
		Profile: OneProfile(models.Profile{ID: "u1", Name: "someone"}),
	}}
	store, data, _ := seededStore(t, raw)

	var gotComment uint
	var gotUser string
	data.deleteComment = func(commentID uint, userID string) (int64, error) {
		gotComment, gotUser = commentID, userID
		// Scoped delete affects no rows for a non-owner.
		return 0, nil
	}

	intruder := &Session{User: SessionUser{ID: "u2"}}
	require.NoError(t, store.DeleteComment(context.Background(), 7, 1, intruder))
	assert.Equal(t, uint(7), gotComment)
	assert.Equal(t, "u2", gotUser, "delete must carry the acting user as an ownership filter")
	assert.Len(t, store.Posts()[0].Comments, 1, "non-owner attempt must not alter local state")

	data.deleteComment = nil
	owner := &Session{User: SessionUser{ID: "u1"}}
	require.NoError(t, store.DeleteComment(context.Background(), 7, 1, owner))
	assert.Empty(t, store.Posts()[0].Comments)
}

func TestDeletePostScopedAndRemovesLocally(t *testing.T) {
	store, data, _ := seededStore(t, storyRaw(1, "u1"), storyRaw(2, "u2"))

	data.deletePost = func(id uint, ownerID string) (int64, error) {
		if ownerID != "u1" {
			return 0, nil
		}
		return 1, nil
	}

	intruder := &Session{User: SessionUser{ID: "u2"}}
	require.NoError(t, store.DeletePost(context.Background(), 1, intruder))
	assert.Len(t, store.Posts(), 2)

	owner := &Session{User: SessionUser{ID: "u1"}}
	require.NoError(t, store.DeletePost(context.Background(), 1, owner))
	assert.Len(t, store.Posts(), 1)
	assert.Equal(t, uint(2), store.Posts()[0].ID)
}

func TestSavePostDeniedUploadDegradesToWarning(t *testing.T) {
	raw := storyRaw(1, "u1")
	raw.Post.ImageURL = strptr("http://storage.local/post-images/u1/old.png")
	store, data, uploads := seededStore(t, raw)

	uploads.upload = func(string) error { return deniedError{} }

	existing := store.Posts()[0]
	sess := &Session{User: SessionUser{ID: "u1", Email: "u1@example.com"}}
	res, err := store.SavePost(context.Background(), &existing, sess, PostFields{
		Title:       "hello",
		Description: "still here",
		Category:    "craft",
	}, &ImageUpload{Name: "new.png", ContentType: "image/png", Size: 128, Content: strings.NewReader("x")})

	require.NoError(t, err, "an authorization-class upload failure must not abort the save")
	require.NotNil(t, res.Warning)
	require.NotNil(t, res.Post.ImageURL)
	assert.Equal(t, *raw.Post.ImageURL, *res.Post.ImageURL, "the previous image is kept")
	assert.Contains(t, data.calls, "UpdatePost")
}

func TestSavePostRejectsBadImageBeforeUpload(t *testing.T) {
	store, data, uploads := seededStore(t)
	sess := &Session{User: SessionUser{ID: "u1", Email: "u1@example.com"}}

	_, err := store.SavePost(context.Background(), nil, sess, PostFields{Title: "t"}, &ImageUpload{
		Name:        "notes.txt",
		ContentType: "text/plain",
		Size:        10,
		Content:     strings.NewReader("hi"),
	})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Empty(t, uploads.calls)
	assert.Empty(t, data.calls)

	_, err = store.SavePost(context.Background(), nil, sess, PostFields{Title: "t"}, &ImageUpload{
		Name:        "big.png",
		ContentType: "image/png",
		Size:        MaxImageSize + 1,
		Content:     strings.NewReader("hi"),
	})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Empty(t, uploads.calls)
}

func TestSavePostSelfHealsMissingProfile(t *testing.T) {
	store, data, _ := seededStore(t)
	sess := &Session{User: SessionUser{ID: "u9", Email: "ada.lovelace@example.com"}}

	data.getProfile = func(string) (*models.Profile, error) { return nil, nil }

	var created models.Profile
	data.createProfile = func(profile models.Profile) error {
		created = profile
		return nil
	}

	res, err := store.SavePost(context.Background(), nil, sess, PostFields{
		Title:       "first post",
		Description: "hello",
		Category:    "intro",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "u9", created.ID)
	assert.Equal(t, "ada.lovelace", created.Name, "default name derives from the email local part")
	assert.NotZero(t, res.Post.ID)
}

func TestSavePostRequiresSession(t *testing.T) {
	store, data, _ := seededStore(t)

	_, err := store.SavePost(context.Background(), nil, nil, PostFields{Title: "t"}, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuthRequired))
	assert.Empty(t, data.calls)
}

func TestFetchOnePatchesLocalState(t *testing.T) {
	store, data, _ := seededStore(t, storyRaw(1, "u1"))

	data.getPost = func(id uint) (RawPost, error) {
		raw := storyRaw(id, "u1")
		raw.Post.Title = "edited"
		return raw, nil
	}

	post, err := store.FetchOne(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "edited", post.Title)
	assert.Equal(t, "edited", store.Posts()[0].Title)
}

func strptr(s string) *string {
	return &s
}
