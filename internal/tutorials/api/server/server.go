package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Leopold1975/tutorials_control/internal/pkg/config"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/api/oapi"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/services/authservice"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/services/tutorialservice"
	"github.com/Leopold1975/tutorials_control/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	serv            *http.Server
	tutorialService TutorialService
	authService     AuthService
	lg              logger.Logger
}

type TutorialService interface {
	CreateTutorial(context.Context, tutorialservice.CreateTutorialRequest) (models.Tutorial, error)
	SaveTutorial(context.Context, models.Tutorial) (models.Tutorial, error)
	GetTutorial(context.Context, int64) (models.Tutorial, error)
	ListTutorials(context.Context, tutorialservice.ListRequest) ([]models.Tutorial, error)
	DeleteTutorial(context.Context, int64) error
}

type AuthService interface {
	CreateUser(context.Context, authservice.CreateUserRequest) (string, error)
	Auth(string) (bool, error)
	Login(context.Context, string, string) (string, error)
}

func New(cfg config.Server, ts TutorialService, authService AuthService, lg logger.Logger) *Server {
	s := &Server{
		tutorialService: ts,
		authService:     authService,
		lg:              lg,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID, middleware.Recoverer)

	h := oapi.HandlerWithOptions(s, oapi.ChiServerOptions{ //nolint:exhaustruct
		BaseURL:     cfg.BaseURL,
		BaseRouter:  router,
		Middlewares: []oapi.MiddlewareFunc{loggingMiddleware(lg)},
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			s.handleError(w, err, http.StatusBadRequest)
		},
	})

	s.serv = &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Addr,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler exposes the routed handler, e.g. for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.serv.Handler
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err, ok := <-errCh:
		if !ok {
			return nil
		}

		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.serv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}

// Домашняя страница
// (GET /).
func (s *Server) GetHome(w http.ResponseWriter, r *http.Request) {
	published := true

	tutorials, err := s.tutorialService.ListTutorials(r.Context(), tutorialservice.ListRequest{Published: &published})
	if err != nil {
		s.handleError(w, fmt.Errorf("list tutorials error: %w", err), statusFor(err))

		return
	}

	s.writeJSON(w, http.StatusOK, HomeResponse{Tutorials: tutorials})
}

// Аутентификация пользователя
// (POST /auth).
func (s *Server) PostAuth(w http.ResponseWriter, r *http.Request) {
	var b oapi.PostAuthJSONBody

	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		s.handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	if b.Password == nil || b.Username == nil {
		s.handleError(w, fmt.Errorf("not enough parameters to auth user"), http.StatusBadRequest) //nolint:perfsprint

		return
	}

	token, err := s.authService.Login(r.Context(), *b.Username, *b.Password)
	if err != nil {
		s.handleError(w, fmt.Errorf("login error: %w", err), statusFor(err))

		return
	}

	s.writeJSON(w, http.StatusOK, AuthUserResponse{Token: token})
}

// Создание пользователя
// (POST /users).
func (s *Server) PostUsers(w http.ResponseWriter, r *http.Request, params oapi.PostUsersParams) {
	var b oapi.PostUsersJSONBody

	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		s.handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	if b.Password == nil || b.Username == nil {
		s.handleError(w, fmt.Errorf("not enough parameters to create user"), http.StatusBadRequest) //nolint:perfsprint

		return
	}

	req := authservice.CreateUserRequest{
		Username: *b.Username,
		Password: *b.Password,
	}

	if b.Role != nil {
		req.Role = *b.Role
	}

	if params.Token != nil {
		req.Token = *params.Token
	}

	token, err := s.authService.CreateUser(r.Context(), req)
	if err != nil {
		s.handleError(w, fmt.Errorf("create user error: %w", err), statusFor(err))

		return
	}

	s.writeJSON(w, http.StatusCreated, CreateUserResponse{Token: token})
}

// Список туториалов с фильтрацией по названию и статусу публикации
// (GET /tutorials).
func (s *Server) GetTutorials(w http.ResponseWriter, r *http.Request, params oapi.GetTutorialsParams) {
	var req tutorialservice.ListRequest

	if params.Title != nil {
		req.Title = *params.Title
	}

	req.Published = params.Published

	if params.Offset != nil {
		req.Offset = *params.Offset
	}

	if params.Limit != nil {
		req.Limit = *params.Limit
	}

	tutorials, err := s.tutorialService.ListTutorials(r.Context(), req)
	if err != nil {
		s.handleError(w, fmt.Errorf("list tutorials error: %w", err), statusFor(err))

		return
	}

	s.writeJSON(w, http.StatusOK, tutorials)
}

// Создание туториала
// (POST /tutorials).
func (s *Server) PostTutorials(w http.ResponseWriter, r *http.Request, params oapi.PostTutorialsParams) {
	if !s.requireAdmin(w, params.Token) {
		return
	}

	var b oapi.TutorialJSONBody

	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		s.handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	var req tutorialservice.CreateTutorialRequest

	applyBody(b, &req.Title, &req.TutorialURL, &req.Description, &req.Published)

	t, err := s.tutorialService.CreateTutorial(r.Context(), req)
	if err != nil {
		s.handleError(w, fmt.Errorf("create tutorial error: %w", err), statusFor(err))

		return
	}

	s.writeJSON(w, http.StatusCreated, CreateTutorialResponse{ID: t.ID})
}

// Получение туториала по идентификатору
// (GET /tutorials/{id}).
func (s *Server) GetTutorialsId(w http.ResponseWriter, r *http.Request, id int64) { //nolint:revive,stylecheck
	t, err := s.tutorialService.GetTutorial(r.Context(), id)
	if err != nil {
		s.handleError(w, fmt.Errorf("get tutorial error: %w", err), statusFor(err))

		return
	}

	s.writeJSON(w, http.StatusOK, t)
}

// Обновление туториала: поля, которых нет в теле, не меняются
// (PUT /tutorials/{id}).
func (s *Server) PutTutorialsId(w http.ResponseWriter, r *http.Request, id int64, //nolint:revive,stylecheck
	params oapi.PutTutorialsIdParams,
) {
	if !s.requireAdmin(w, params.Token) {
		return
	}

	var b oapi.TutorialJSONBody

	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		s.handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	t, err := s.tutorialService.GetTutorial(r.Context(), id)
	if err != nil {
		s.handleError(w, fmt.Errorf("get tutorial error: %w", err), statusFor(err))

		return
	}

	applyBody(b, &t.Title, &t.TutorialURL, &t.Description, &t.Published)

	t, err = s.tutorialService.SaveTutorial(r.Context(), t)
	if err != nil {
		s.handleError(w, fmt.Errorf("save tutorial error: %w", err), statusFor(err))

		return
	}

	s.writeJSON(w, http.StatusOK, t)
}

// Удаление туториала
// (DELETE /tutorials/{id}).
func (s *Server) DeleteTutorialsId(w http.ResponseWriter, r *http.Request, id int64, //nolint:revive,stylecheck
	params oapi.DeleteTutorialsIdParams,
) {
	if !s.requireAdmin(w, params.Token) {
		return
	}

	if err := s.tutorialService.DeleteTutorial(r.Context(), id); err != nil {
		s.handleError(w, fmt.Errorf("delete tutorial error: %w", err), statusFor(err))

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireAdmin(w http.ResponseWriter, token *string) bool {
	if token == nil {
		s.handleError(w, fmt.Errorf("admin token required"), http.StatusUnauthorized) //nolint:perfsprint

		return false
	}

	isAdmin, err := s.authService.Auth(*token)
	if err != nil {
		s.handleError(w, fmt.Errorf("authorization error: %w", err), http.StatusUnauthorized)

		return false
	}

	if !isAdmin {
		s.handleError(w, fmt.Errorf("admin role required"), http.StatusForbidden) //nolint:perfsprint

		return false
	}

	return true
}

func applyBody(b oapi.TutorialJSONBody, title, tutorialURL, description *string, published *bool) {
	if b.Title != nil {
		*title = *b.Title
	}

	if b.TutorialUrl != nil {
		*tutorialURL = *b.TutorialUrl
	}

	if b.Description != nil {
		*description = *b.Description
	}

	if b.Published != nil {
		*published = *b.Published
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	bts, err := json.Marshal(v)
	if err != nil {
		s.handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(bts) //nolint:errcheck
}
