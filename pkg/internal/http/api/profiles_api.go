package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/skilllink/skilllink/pkg/internal/feed"
	"github.com/skilllink/skilllink/pkg/internal/http/exts"
	"github.com/skilllink/skilllink/pkg/internal/models"
	"github.com/skilllink/skilllink/pkg/internal/services"
	"github.com/skilllink/skilllink/pkg/internal/storage"
)

func getProfile(c *fiber.Ctx) error {
	userId := c.Params("userId")

	profile, err := services.GetProfile(userId)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(profile)
}

func updateMyProfile(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	sess := exts.SessionFrom(c)

	var data struct {
		Name     string `json:"name" form:"name" validate:"required,max=96"`
		Location string `json:"location" form:"location" validate:"required,max=128"`
		Bio      string `json:"bio" form:"bio" validate:"max=1024"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	var photoURL *string
	if prev, err := services.GetProfile(sess.User.ID); err == nil {
		photoURL = prev.PhotoURL
	}

	var warning error
	if image, closeImage, err := formImage(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	} else if image != nil {
		defer closeImage()
		if err := feed.ValidateImage(image); err != nil {
			return feedError(err)
		}

		path := feed.ImagePath(sess.User.ID, image.Name)
		if err := storage.C.Upload(c.UserContext(), path, image.Content, image.Size, image.ContentType, true); err != nil {
			var denied *storage.UnauthorizedError
			if !errors.As(err, &denied) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			// Keep the previous photo, the save itself still proceeds.
			log.Warn().Err(err).Str("user", sess.User.ID).Msg("Profile photo upload was denied, saving without it...")
			warning = err
		} else {
			photoURL = lo.ToPtr(storage.C.PublicURL(path))
		}
	}

	profile, err := services.UpsertProfile(models.Profile{
		ID:       sess.User.ID,
		Name:     data.Name,
		Location: data.Location,
		Bio:      data.Bio,
		PhotoURL: photoURL,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := fiber.Map{"data": profile}
	if warning != nil {
		out["warning"] = warning.Error()
	}
	return c.JSON(out)
}
