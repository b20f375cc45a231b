package oapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

type ServerInterface interface {
	// Домашняя страница: опубликованные туториалы
	// (GET /).
	GetHome(w http.ResponseWriter, r *http.Request)
	// Аутентификация пользователя
	// (POST /auth).
	PostAuth(w http.ResponseWriter, r *http.Request)
	// Создание пользователя
	// (POST /users).
	PostUsers(w http.ResponseWriter, r *http.Request, params PostUsersParams)
	// (GET /tutorials).
	GetTutorials(w http.ResponseWriter, r *http.Request, params GetTutorialsParams)
	// (POST /tutorials).
	PostTutorials(w http.ResponseWriter, r *http.Request, params PostTutorialsParams)
	// (GET /tutorials/{id}).
	GetTutorialsId(w http.ResponseWriter, r *http.Request, id int64) //nolint:revive,stylecheck
	// (PUT /tutorials/{id}).
	PutTutorialsId(w http.ResponseWriter, r *http.Request, id int64, params PutTutorialsIdParams) //nolint:revive,stylecheck
	// (DELETE /tutorials/{id}).
	DeleteTutorialsId(w http.ResponseWriter, r *http.Request, id int64, params DeleteTutorialsIdParams) //nolint:revive,stylecheck
}

type MiddlewareFunc func(http.Handler) http.Handler

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamError is passed to ErrorHandlerFunc when a parameter cannot
// be bound.
type InvalidParamError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamError) Unwrap() error {
	return e.Err
}

type serverWrapper struct {
	handler          ServerInterface
	middlewares      []MiddlewareFunc
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (sw *serverWrapper) wrap(h http.Handler) http.Handler {
	for _, middleware := range sw.middlewares {
		h = middleware(h)
	}

	return h
}

func tokenParam(r *http.Request) *string {
	if v := r.Header.Get("token"); v != "" {
		return &v
	}

	return nil
}

func (sw *serverWrapper) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var id int64

	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		sw.errorHandlerFunc(w, r, &InvalidParamError{ParamName: "id", Err: err})

		return 0, false
	}

	return id, true
}

func (sw *serverWrapper) GetHome(w http.ResponseWriter, r *http.Request) {
	sw.wrap(http.HandlerFunc(sw.handler.GetHome)).ServeHTTP(w, r)
}

func (sw *serverWrapper) PostAuth(w http.ResponseWriter, r *http.Request) {
	sw.wrap(http.HandlerFunc(sw.handler.PostAuth)).ServeHTTP(w, r)
}

func (sw *serverWrapper) PostUsers(w http.ResponseWriter, r *http.Request) {
	params := PostUsersParams{Token: tokenParam(r)}

	sw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw.handler.PostUsers(w, r, params)
	})).ServeHTTP(w, r)
}

func (sw *serverWrapper) GetTutorials(w http.ResponseWriter, r *http.Request) {
	var params GetTutorialsParams

	query := r.URL.Query()

	bindings := []struct {
		name string
		dest interface{}
	}{
		{"title", &params.Title},
		{"published", &params.Published},
		{"offset", &params.Offset},
		{"limit", &params.Limit},
	}

	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			sw.errorHandlerFunc(w, r, &InvalidParamError{ParamName: b.name, Err: err})

			return
		}
	}

	sw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw.handler.GetTutorials(w, r, params)
	})).ServeHTTP(w, r)
}

func (sw *serverWrapper) PostTutorials(w http.ResponseWriter, r *http.Request) {
	params := PostTutorialsParams{Token: tokenParam(r)}

	sw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw.handler.PostTutorials(w, r, params)
	})).ServeHTTP(w, r)
}

func (sw *serverWrapper) GetTutorialsId(w http.ResponseWriter, r *http.Request) { //nolint:revive,stylecheck
	id, ok := sw.pathID(w, r)
	if !ok {
		return
	}

	sw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw.handler.GetTutorialsId(w, r, id)
	})).ServeHTTP(w, r)
}

func (sw *serverWrapper) PutTutorialsId(w http.ResponseWriter, r *http.Request) { //nolint:revive,stylecheck
	id, ok := sw.pathID(w, r)
	if !ok {
		return
	}

	params := PutTutorialsIdParams{Token: tokenParam(r)}

	sw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw.handler.PutTutorialsId(w, r, id, params)
	})).ServeHTTP(w, r)
}

func (sw *serverWrapper) DeleteTutorialsId(w http.ResponseWriter, r *http.Request) { //nolint:revive,stylecheck
	id, ok := sw.pathID(w, r)
	if !ok {
		return
	}

	params := DeleteTutorialsIdParams{Token: tokenParam(r)}

	sw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw.handler.DeleteTutorialsId(w, r, id, params)
	})).ServeHTTP(w, r)
}

func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}

	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}

	wrapper := serverWrapper{
		handler:          si,
		middlewares:      options.Middlewares,
		errorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/", wrapper.GetHome)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/auth", wrapper.PostAuth)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/users", wrapper.PostUsers)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/tutorials", wrapper.GetTutorials)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/tutorials", wrapper.PostTutorials)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/tutorials/{id}", wrapper.GetTutorialsId)
	})
	r.Group(func(r chi.Router) {
		r.Put(options.BaseURL+"/tutorials/{id}", wrapper.PutTutorialsId)
	})
	r.Group(func(r chi.Router) {
		r.Delete(options.BaseURL+"/tutorials/{id}", wrapper.DeleteTutorialsId)
	})

	return r
}
