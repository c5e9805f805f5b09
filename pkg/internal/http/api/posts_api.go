package api

import (
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/skilllink/skilllink/pkg/internal/feed"
	"github.com/skilllink/skilllink/pkg/internal/http/exts"
	"github.com/skilllink/skilllink/pkg/internal/services"
)

func listPost(c *fiber.Ctx) error {
	var author *string
	if len(c.Query("author")) > 0 {
		author = lo.ToPtr(c.Query("author"))
	}

	items, err := Feed.FetchAll(c.UserContext(), author)
	if err != nil {
		return feedError(err)
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}

func getPost(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("postId", 0)

	item, err := Feed.FetchOne(c.UserContext(), uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(item)
}

type postForm struct {
	Title       string `json:"title" form:"title" validate:"required,max=160"`
	Description string `json:"description" form:"description" validate:"required,max=4096"`
	Category    string `json:"category" form:"category" validate:"required,max=64"`
}

func createPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	sess := exts.SessionFrom(c)

	var data postForm
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	defer closeImage()

	res, err := Feed.SavePost(c.UserContext(), nil, sess, feed.PostFields{
		Title:       data.Title,
		Description: data.Description,
		Category:    data.Category,
	}, image)
	if err != nil {
		return feedError(err)
	}

	services.AddEvent(sess.User.ID, "posts.new", map[string]any{
		"id": res.Post.ID,
	})

	return c.Status(fiber.StatusCreated).JSON(saveResponse(res))
}

func editPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	sess := exts.SessionFrom(c)
	id, _ := c.ParamsInt("postId", 0)

	existing, err := Feed.FetchOne(c.UserContext(), uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if existing.UserID != sess.User.ID {
		return fiber.NewError(fiber.StatusForbidden, "cannot edit others' posts")
	}

	var data postForm
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	defer closeImage()

	res, err := Feed.SavePost(c.UserContext(), &existing, sess, feed.PostFields{
		Title:       data.Title,
		Description: data.Description,
		Category:    data.Category,
	}, image)
	if err != nil {
		return feedError(err)
	}

	services.AddEvent(sess.User.ID, "posts.edit", map[string]any{
		"id": res.Post.ID,
	})

	return c.JSON(saveResponse(res))
}

func deletePost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	sess := exts.SessionFrom(c)
	id, _ := c.ParamsInt("postId", 0)

	if err := Feed.DeletePost(c.UserContext(), uint(id), sess); err != nil {
		return feedError(err)
	}

	services.AddEvent(sess.User.ID, "posts.delete", map[string]any{
		"id": strconv.Itoa(id),
	})

	return c.SendStatus(fiber.StatusOK)
}

func saveResponse(res feed.SaveResult) fiber.Map {
	out := fiber.Map{"data": res.Post}
	if res.Warning != nil {
		out["warning"] = res.Warning.Error()
	}
	return out
}

// formImage extracts the optional multipart image field. The returned
// closer is always safe to defer.
func formImage(c *fiber.Ctx) (*feed.ImageUpload, func(), error) {
	header, err := c.FormFile("image")
	if err != nil {
		// No file attached.
		return nil, func() {}, nil
	}

	return openFormFile(header)
}

func openFormFile(header *multipart.FileHeader) (*feed.ImageUpload, func(), error) {
	file, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}

	return &feed.ImageUpload{
		Name:        header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Content:     file,
	}, func() { _ = file.Close() }, nil
}
