package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	localCache "github.com/skilllink/skilllink/pkg/internal/cache"
	"github.com/skilllink/skilllink/pkg/internal/database"
	"github.com/skilllink/skilllink/pkg/internal/models"
)

func GetProfileCacheKey(userID string) string {
	return fmt.Sprintf("profile-query#%s", userID)
}

// GetProfile loads a profile by account id through the local cache. The
// cached copy is a snapshot; most recent fetch wins.
func GetProfile(userID string) (models.Profile, error) {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	ctx := context.Background()

	if hit, err := marshal.Get(ctx, GetProfileCacheKey(userID), new(models.Profile)); err == nil {
		return *hit.(*models.Profile), nil
	}

	var profile models.Profile
	if err := database.C.Where("id = ?", userID).First(&profile).Error; err != nil {
		return profile, err
	}

	_ = marshal.Set(
		ctx,
		GetProfileCacheKey(userID),
		profile,
		store.WithExpiration(5*time.Minute),
		store.WithTags([]string{"profile-query", fmt.Sprintf("user#%s", userID)}),
	)

	return profile, nil
}

// UpsertProfile writes the profile row keyed by account id and drops the
// cached snapshot so the next read observes the fresh copy.
func UpsertProfile(profile models.Profile) (models.Profile, error) {
	if err := database.C.Save(&profile).Error; err != nil {
		return profile, err
	}

	invalidateProfileCache(profile.ID)
	return profile, nil
}

// CreateDefaultProfile self-heals a missing profile row with a name derived
// from the email's local part.
func CreateDefaultProfile(userID, email string) (models.Profile, error) {
	name, _, _ := strings.Cut(email, "@")
	if len(name) == 0 {
		name = "User"
	}

	profile := models.Profile{
		ID:   userID,
		Name: name,
	}
	if err := database.C.Create(&profile).Error; err != nil {
		return profile, err
	}

	invalidateProfileCache(userID)
	return profile, nil
}

func invalidateProfileCache(userID string) {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	_ = marshal.Delete(context.Background(), GetProfileCacheKey(userID))
}
