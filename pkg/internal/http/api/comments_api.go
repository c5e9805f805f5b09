package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/skilllink/skilllink/pkg/internal/http/exts"
)

func addComment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	sess := exts.SessionFrom(c)
	id, _ := c.ParamsInt("postId", 0)

	var data struct {
		Content string `json:"content" validate:"required,max=4096"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	comment, err := Feed.AddComment(c.UserContext(), uint(id), sess, data.Content)
	if err != nil {
		return feedError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func deleteComment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	sess := exts.SessionFrom(c)
	postId, _ := c.ParamsInt("postId", 0)
	commentId, _ := c.ParamsInt("commentId", 0)

	if err := Feed.DeleteComment(c.UserContext(), uint(commentId), uint(postId), sess); err != nil {
		return feedError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}
