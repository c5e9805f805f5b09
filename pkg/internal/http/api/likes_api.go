package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/skilllink/skilllink/pkg/internal/http/exts"
	"github.com/skilllink/skilllink/pkg/internal/services"
)

func toggleLike(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	sess := exts.SessionFrom(c)
	id, _ := c.ParamsInt("postId", 0)

	likes, err := Feed.ToggleLike(c.UserContext(), uint(id), sess)
	if err != nil {
		return feedError(err)
	}
	if likes == nil {
		// The post is no longer around; nothing was toggled.
		return c.SendStatus(fiber.StatusNoContent)
	}

	services.AddEvent(sess.User.ID, "posts.react", map[string]any{
		"id": strconv.Itoa(id),
	})

	return c.JSON(fiber.Map{
		"count": len(likes),
		"data":  likes,
	})
}
