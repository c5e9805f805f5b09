package feed

import "github.com/skilllink/skilllink/pkg/internal/models"

// PlaceholderNamePrefix marks synthesized profiles so the presentation layer
// can hint that the profile is incomplete.
const PlaceholderNamePrefix = "User_"

// ResolveProfile is the single normalization point for joined profile rows.
// When the join is absent it synthesizes a placeholder so every post and
// comment always carries a non-nil profile, which spares every consumer a
// null check.
func ResolveProfile(ref ProfileRef, userID string) models.Profile {
	if profile, ok := ref.Profile(); ok {
		return profile
	}

	short := userID
	if len(short) > 8 {
		short = short[:8]
	}

	return models.Profile{
		ID:   userID,
		Name: PlaceholderNamePrefix + short,
	}
}
