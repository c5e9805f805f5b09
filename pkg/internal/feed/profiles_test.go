package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skilllink/skilllink/pkg/internal/models"
)

func TestResolveProfile(t *testing.T) {
	joined := models.Profile{ID: "u1", Name: "someone"}

	t.Run("single row", func(t *testing.T) {
		got := ResolveProfile(OneProfile(joined), "u1")
		assert.Equal(t, joined, got)
	})

	t.Run("first of many", func(t *testing.T) {
		got := ResolveProfile(ManyProfiles([]models.Profile{joined, {ID: "u2"}}), "u1")
		assert.Equal(t, joined, got)
	})

	t.Run("absent join synthesizes a placeholder", func(t *testing.T) {
		got := ResolveProfile(NoProfile(), "0123456789abcdef")
		assert.Equal(t, "0123456789abcdef", got.ID)
		assert.Equal(t, "User_01234567", got.Name)
	})

	t.Run("empty sequence counts as absent", func(t *testing.T) {
		got := ResolveProfile(ManyProfiles(nil), "u1")
		assert.Equal(t, "User_u1", got.Name)
	})

	t.Run("zero-valued row counts as absent", func(t *testing.T) {
		got := ResolveProfile(OneProfile(models.Profile{}), "u1")
		assert.Equal(t, "User_u1", got.Name)
	})

	t.Run("short ids are kept whole", func(t *testing.T) {
		got := ResolveProfile(NoProfile(), "abc")
		assert.Equal(t, "User_abc", got.Name)
	})
}
