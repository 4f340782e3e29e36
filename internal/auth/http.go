package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/lumina/internal/platform/constants"
	"github.com/taibuivan/lumina/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/lumina/internal/platform/request"
	"github.com/taibuivan/lumina/internal/platform/respond"
)

type Handler struct {
	service *Service

	// secureCookies is false only in local development over plain HTTP.
	secureCookies bool
}

func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{service: service, secureCookies: secureCookies}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/auth", func(authRoute chi.Router) {
		authRoute.Post("/login", handler.login)
		authRoute.Post("/logout", handler.logout)
		authRoute.Get("/check", handler.check)
	})
}

// # Payloads

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
}

type checkResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// # Handlers

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.service.Login(input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   handler.service.SessionTTL(),
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	respond.OK(writer, loginResponse{Success: true, Username: input.Username})
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	respond.OK(writer, map[string]bool{constants.FieldSuccess: true})
}

func (handler *Handler) check(writer http.ResponseWriter, request *http.Request) {
	claims := ctxutil.GetAdmin(request.Context())
	if claims == nil {
		respond.OK(writer, checkResponse{Authenticated: false})
		return
	}

	respond.OK(writer, checkResponse{Authenticated: true, Username: claims.Username})
}
