package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/skilllink/skilllink/pkg/internal/http/exts"
	"github.com/skilllink/skilllink/pkg/internal/services"
)

func signUp(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, token, err := services.SignUp(data.Email, data.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"account": account,
		"token":   token,
	})
}

func signIn(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, token, err := services.SignIn(data.Email, data.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	return c.JSON(fiber.Map{
		"account": account,
		"token":   token,
	})
}

func signOut(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	services.SignOut()
	return c.SendStatus(fiber.StatusOK)
}

func getSession(c *fiber.Ctx) error {
	sess := exts.SessionFrom(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no active session")
	}

	return c.JSON(sess)
}
