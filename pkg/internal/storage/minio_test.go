package storage

import (
	"errors"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	t.Run("access denied code", func(t *testing.T) {
		err := classifyError(minio.ErrorResponse{Code: "AccessDenied", Message: "nope"})

		var denied *UnauthorizedError
		require.ErrorAs(t, err, &denied)
		assert.True(t, denied.Unauthorized())
	})

	t.Run("forbidden status", func(t *testing.T) {
		err := classifyError(minio.ErrorResponse{Code: "SomethingElse", StatusCode: http.StatusForbidden})

		var denied *UnauthorizedError
		assert.ErrorAs(t, err, &denied)
	})

	t.Run("other storage failures pass through", func(t *testing.T) {
		src := minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound}
		err := classifyError(src)

		var denied *UnauthorizedError
		assert.False(t, errors.As(err, &denied))
	})

	t.Run("non-minio errors pass through", func(t *testing.T) {
		src := errors.New("connection reset")
		assert.Equal(t, src, classifyError(src))
	})
}

func TestUnauthorizedErrorUnwraps(t *testing.T) {
	inner := errors.New("policy denied")
	err := &UnauthorizedError{Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "policy denied")
}

func TestPublicURL(t *testing.T) {
	plain := &Client{endpoint: "storage.local:9000", bucket: "post-images"}
	assert.Equal(t, "http://storage.local:9000/post-images/u1/42_a.png", plain.PublicURL("u1/42_a.png"))

	tls := &Client{endpoint: "storage.local", bucket: "post-images", secure: true}
	assert.Equal(t, "https://storage.local/post-images/u1/42_a.png", tls.PublicURL("u1/42_a.png"))
}
