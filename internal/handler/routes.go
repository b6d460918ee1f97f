package handler

import (
	"GoRideShare/internal/ports"
	"GoRideShare/internal/security"

	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	Authentication *AuthenticationHandler
	Users          *UserHandler
	Posts          *PostHandler
	Messages       *MessageHandler
}

// RegisterRoutes вешает эндпоинты /api. headerGate проверяет только заголовки,
// pairingGate дополнительно сверяет пару токенов с хранилищем.
func RegisterRoutes(router chi.Router, handlers Handlers, headerGate ports.RequestGate, pairingGate ports.RequestGate) {
	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Post("/Users/PasswordLogin", handlers.Authentication.Login)
			r.Post("/CreateUser", handlers.Authentication.CreateAccount)
			r.Post("/GoogleSignIn", handlers.Authentication.GoogleSignIn)
		})

		r.Group(func(r chi.Router) {
			r.Use(security.GateMiddleware(headerGate))
			r.Get("/GetUser", handlers.Users.GetUser)
			r.Patch("/Users", handlers.Users.UpdateUser)
			r.Get("/GetPosts", handlers.Posts.GetPosts)
			r.Get("/GetAllPosts", handlers.Posts.GetAllPosts)
			r.Get("/Posts/{post_id}", handlers.Posts.GetPost)
			r.Post("/Posts/Search", handlers.Posts.SearchPosts)
			r.Post("/CreateConversation", handlers.Messages.CreateConversation)
			r.Post("/Messages", handlers.Messages.PostMessage)
		})

		r.Group(func(r chi.Router) {
			r.Use(security.GateMiddleware(pairingGate))
			r.Post("/Posts", handlers.Posts.SavePost)
			r.Get("/Conversations", handlers.Messages.GetConversations)
			r.Get("/Messages/{conversation_id}", handlers.Messages.GetMessages)
		})
	})
}
