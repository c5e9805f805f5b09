package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/skilllink/skilllink/pkg/internal/feed"
)

// Feed is the shared feed synchronization store every mutation flows
// through. Wired up in main before the server starts listening.
var Feed *feed.Store

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL)
	{
		auth := api.Group("/auth")
		{
			auth.Post("/sign-up", signUp)
			auth.Post("/sign-in", signIn)
			auth.Post("/sign-out", signOut)
			auth.Get("/session", getSession)
		}

		posts := api.Group("/posts")
		{
			posts.Get("/", listPost)
			posts.Get("/:postId", getPost)
			posts.Post("/", createPost)
			posts.Put("/:postId", editPost)
			posts.Delete("/:postId", deletePost)

			posts.Post("/:postId/likes", toggleLike)
			posts.Post("/:postId/comments", addComment)
			posts.Delete("/:postId/comments/:commentId", deleteComment)
		}

		users := api.Group("/users")
		{
			users.Put("/me/profile", updateMyProfile)
			users.Get("/:userId/profile", getProfile)
		}
	}
}
