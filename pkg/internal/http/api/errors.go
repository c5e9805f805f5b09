package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/skilllink/skilllink/pkg/internal/feed"
)

// feedError translates the store's error taxonomy into a transport status.
func feedError(err error) error {
	kind, ok := feed.KindOf(err)
	if !ok {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	switch kind {
	case feed.KindAuthRequired:
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case feed.KindValidation:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case feed.KindFetch, feed.KindPersistence:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	default:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
}
