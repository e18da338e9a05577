package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"

	"github.com/spinroom/tournament-manager/handlers"
	"github.com/spinroom/tournament-manager/middleware"
)

// Deps — всё, что нужно роутеру: хендлеры плюс секрет для проверки токенов.
type Deps struct {
	Auth        *handlers.AuthHandler
	Users       *handlers.UserHandler
	Tournaments *handlers.TournamentHandler
	Matches     *handlers.MatchHandler
	Stats       *handlers.StatsHandler
	Websocket   *handlers.WebsocketHandler

	JWTSecret          string
	CORSAllowedOrigins []string
}

func InitRoutes(deps Deps) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/auth/register", deps.Auth.Register)
	router.Post("/auth/login", deps.Auth.Login)

	router.Get("/ws/tournaments/{tournamentID}", deps.Websocket.ServeTournament)

	router.Route("/users", func(r chi.Router) {
		r.Get("/", deps.Users.List)
		r.Get("/{userID}", deps.Users.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(deps.JWTSecret))
			r.Patch("/{userID}", deps.Users.UpdateProfile)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты для просмотра турниров
		r.Get("/", deps.Tournaments.List)
		r.Get("/{tournamentID}", deps.Tournaments.GetByID)
		r.Get("/{tournamentID}/standings", deps.Tournaments.Standings)
		r.Get("/{tournamentID}/winners", deps.Tournaments.Winners)
		r.Get("/{tournamentID}/matches", deps.Matches.ListByTournament)

		// Запись на турнир доступна любому залогиненному игроку
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(deps.JWTSecret))
			r.Post("/{tournamentID}/register", deps.Tournaments.Register)
			r.Delete("/{tournamentID}/register", deps.Tournaments.Unregister)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", deps.Matches.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(deps.JWTSecret))
			r.Get("/pending", deps.Matches.MyPending)
			r.Get("/next", deps.Matches.MyNext)
			r.Get("/challenges", deps.Matches.MyChallenges)
			r.Post("/challenge", deps.Matches.CreateChallenge)
			r.Post("/{matchID}/score", deps.Matches.SubmitScore)
			r.Post("/{matchID}/confirm", deps.Matches.Confirm)
			r.Post("/{matchID}/dispute", deps.Matches.Dispute)
			r.Post("/{matchID}/forfeit", deps.Matches.Forfeit)
		})
	})

	router.Route("/stats", func(r chi.Router) {
		r.Get("/elo", deps.Stats.EloLeaderboard)
		r.Get("/wins", deps.Stats.WinsLeaderboard)
		r.Get("/hall-of-fame", deps.Stats.HallOfFame)
		r.Get("/matches", deps.Stats.MatchHistory)
		r.Get("/users/{userID}", deps.Stats.UserStats)
		r.Get("/users/{userID}/elo", deps.Stats.EloHistory)
		r.Get("/users/{userID}/tournaments", deps.Stats.TournamentHistory)
		r.Get("/head-to-head/{userID}/{opponentID}", deps.Stats.HeadToHead)
	})

	// Всё административное — отдельным поддеревом под двойной защитой.
	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(deps.JWTSecret))
		r.Use(middleware.RequireAdmin)

		r.Route("/tournaments", func(r chi.Router) {
			r.Post("/", deps.Tournaments.Create)
			r.Patch("/{tournamentID}", deps.Tournaments.Update)
			r.Delete("/{tournamentID}", deps.Tournaments.Delete)
			r.Post("/{tournamentID}/players/{userID}", deps.Tournaments.AddPlayer)
			r.Delete("/{tournamentID}/players/{userID}", deps.Tournaments.RemovePlayer)
			r.Post("/{tournamentID}/start", deps.Tournaments.StartGroupStage)
			r.Post("/{tournamentID}/playoffs", deps.Tournaments.StartPlayoffs)
			r.Post("/{tournamentID}/complete", deps.Tournaments.Complete)
			r.Post("/{tournamentID}/cancel", deps.Tournaments.Cancel)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Post("/{matchID}/reset", deps.Matches.ResetDisputed)
		})

		r.Route("/users", func(r chi.Router) {
			r.Put("/{userID}/admin", deps.Users.SetAdmin)
			r.Post("/{userID}/reset-password", deps.Users.ResetPassword)
			r.Delete("/{userID}", deps.Users.Delete)
		})

		r.Post("/elo/recalculate", deps.Stats.RecalculateElo)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(deps.JWTSecret))
		r.Get("/auth/me", deps.Auth.Me)
	})

	return router
}
