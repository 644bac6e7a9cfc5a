package handler

import (
	"io/fs"
	"net/http"

	"github.com/rs/zerolog"

	"voterz/internal/backend"
	"voterz/internal/entity"
	"voterz/internal/middleware"
	"voterz/internal/repository"
	"voterz/internal/session"
	"voterz/internal/templates"
)

type Deps struct {
	API       *backend.Client
	Sessions  *session.Store
	Logger    zerolog.Logger
	PublicURL string
}

// NewRouter wires every page of the frontend.
func NewRouter(d Deps) http.Handler {
	userRepo := repository.NewUserRepository(d.API)
	electionRepo := repository.NewElectionRepository(d.API)
	questionRepo := repository.NewQuestionRepository(d.API)
	ballotRepo := repository.NewBallotRepository(d.API)
	resultsRepo := repository.NewResultsRepository(d.API)

	render := NewRenderer(d.Sessions)

	indexHandler := NewIndexHandler(render)
	registrationHandler := NewRegistrationHandler(userRepo, d.Sessions, render)
	loginHandler := NewLoginHandler(userRepo, d.Sessions, render)
	homeHandler := NewHomeHandler(electionRepo, d.Sessions, render)
	electionHandler := NewElectionHandler(electionRepo, resultsRepo, d.Sessions, render, d.PublicURL)
	questionHandler := NewQuestionHandler(electionRepo, questionRepo, d.Sessions, render)
	previewHandler := NewBallotHandler(ballotRepo, d.Sessions, render, PreviewBallot)
	liveHandler := NewBallotHandler(ballotRepo, d.Sessions, render, LiveBallot)
	resultsHandler := NewResultsHandler(resultsRepo, render)

	auth := middleware.RequireAuth(d.Sessions)
	optional := middleware.OptionalAuth(d.Sessions)
	private := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", registrationHandler.RegisterPage)
	mux.HandleFunc("GET /signup", registrationHandler.RegisterPage)
	mux.HandleFunc("POST /signup", registrationHandler.Register)
	mux.HandleFunc("GET /login", loginHandler.LoginPage)
	mux.HandleFunc("POST /login", loginHandler.Login)
	mux.HandleFunc("POST /logout", LogoutHandler(d.Sessions))
	mux.HandleFunc("GET /thanks", liveHandler.Thanks)
	mux.HandleFunc("GET /health", Health)

	mux.Handle("GET /welcome", private(indexHandler.Welcome))
	mux.Handle("GET /dashboard", private(homeHandler.Dashboard))
	mux.Handle("GET /create-election", private(electionHandler.CreatePage))
	mux.Handle("POST /create-election", private(electionHandler.Create))
	mux.Handle("GET /election/{id}", private(electionHandler.Details))
	mux.Handle("POST /election/{id}/build", private(electionHandler.Build))
	mux.Handle("GET /election/{id}/questions", private(questionHandler.EditorPage))
	mux.Handle("POST /election/{id}/questions", private(questionHandler.Edit))
	mux.Handle("GET /election/{id}/multiple-type", private(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, electionPath(entity.ID(r.PathValue("id")), "questions"), http.StatusMovedPermanently)
	}))
	mux.Handle("GET /election/{id}/preview", private(previewHandler.BallotPage))
	mux.Handle("POST /election/{id}/preview", private(previewHandler.Submit))
	mux.Handle("GET /election/{id}/thanks", private(previewHandler.Thanks))
	mux.Handle("GET /election/{id}/results", private(resultsHandler.Results))

	mux.Handle("GET /election/{id}/live", optional(http.HandlerFunc(liveHandler.BallotPage)))
	mux.Handle("POST /election/{id}/live", optional(http.HandlerFunc(liveHandler.Submit)))

	static, err := fs.Sub(templates.FS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	return middleware.WithLogging(d.Logger)(middleware.Recover(mux))
}
