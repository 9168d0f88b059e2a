package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mabood2003/FairPlay/handlers"
	"github.com/mabood2003/FairPlay/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Player      *handlers.PlayerHandler
	Game        *handlers.GameHandler
	Stats       *handlers.StatsHandler
	Friend      *handlers.FriendHandler
	Leaderboard *handlers.LeaderboardHandler
	WebSocket   *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, jwtSecret []byte) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Route("/games", func(r chi.Router) {
		// Public listing and detail views
		r.Get("/", h.Game.List)
		r.Get("/nearby", h.Game.ListNearby)
		r.Get("/{id}", h.Game.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", h.Game.Create)
			r.Post("/{id}/join", h.Game.Join)
			r.Post("/{id}/leave", h.Game.Leave)
			r.Post("/{id}/checkin", h.Game.CheckIn)
			r.Post("/{id}/start", h.Game.Start)
			r.Post("/{id}/results", h.Game.SubmitResults)
			r.Post("/{id}/confirm", h.Game.ConfirmResults)
			r.Post("/{id}/cancel", h.Game.Cancel)
			r.Get("/{id}/ws", h.WebSocket.Subscribe)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{id}", h.Player.GetProfile)
		r.Get("/{id}/stats", h.Stats.PlayerStats)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/me", h.Player.GetOwnProfile)
			r.Patch("/me", h.Player.UpdateProfile)
			r.Put("/me/avatar", h.Player.UploadAvatar)
			r.Get("/me/following", h.Friend.Following)
			r.Get("/me/followers", h.Friend.Followers)
			r.Post("/{id}/follow", h.Friend.Follow)
			r.Delete("/{id}/follow", h.Friend.Unfollow)
		})
	})

	router.Get("/leaderboard/{sport}", h.Leaderboard.Top)

	return router
}
