package cover

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/lumina/internal/platform/middleware"
	requestutil "github.com/taibuivan/lumina/internal/platform/request"
	"github.com/taibuivan/lumina/internal/platform/respond"
	"github.com/taibuivan/lumina/pkg/slice"
)

// URLResolver maps a stored filename to its public URL. Implemented by the
// blob backends.
type URLResolver interface {
	URL(filename string) string
}

type Handler struct {
	service *Service
	urls    URLResolver
}

func NewHandler(service *Service, urls URLResolver) *Handler {
	return &Handler{service: service, urls: urls}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/cover", func(coverRoute chi.Router) {
		coverRoute.Get("/", handler.getCover)
		coverRoute.With(middleware.RequireAdmin).Post("/", handler.setCover)
	})

	router.Route("/hero", func(heroRoute chi.Router) {
		heroRoute.Get("/", handler.getHero)
		heroRoute.With(middleware.RequireAdmin).Post("/", handler.setHero)
	})
}

// # Payloads

// coverUpdateRequest accepts both write shapes: a full replacement list or
// a single mark/unmark instruction.
type coverUpdateRequest struct {
	CoverImages *[]string `json:"coverImages"`
	Filename    string    `json:"filename"`
	Marked      *bool     `json:"marked"`
}

type coverItem struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type coverResponse struct {
	CoverImages []string    `json:"coverImages"`
	Items       []coverItem `json:"items"`
}

type coverMutationResponse struct {
	Success     bool     `json:"success"`
	CoverImages []string `json:"coverImages"`
}

type heroResponse struct {
	HeroImage    string `json:"heroImage"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	HeroImageURL string `json:"heroImageUrl"`
}

type heroMutationResponse struct {
	Success bool       `json:"success"`
	Config  HeroConfig `json:"config"`
}

// # Handlers

func (handler *Handler) getCover(writer http.ResponseWriter, request *http.Request) {
	coverImages, err := handler.service.GetCover(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	items := slice.Map(coverImages, func(filename string) coverItem {
		return coverItem{Filename: filename, URL: handler.urls.URL(filename)}
	})

	respond.OK(writer, coverResponse{CoverImages: coverImages, Items: items})
}

func (handler *Handler) setCover(writer http.ResponseWriter, request *http.Request) {
	var input coverUpdateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var (
		coverImages []string
		err         error
	)

	// Replacement form wins when both shapes are present
	switch {
	case input.CoverImages != nil:
		coverImages, err = handler.service.ReplaceCover(request.Context(), *input.CoverImages)
	default:
		marked := true
		if input.Marked != nil {
			marked = *input.Marked
		}
		coverImages, err = handler.service.MarkCover(request.Context(), input.Filename, marked)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, coverMutationResponse{Success: true, CoverImages: coverImages})
}

func (handler *Handler) getHero(writer http.ResponseWriter, request *http.Request) {
	config, err := handler.service.GetHero(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	response := heroResponse{
		HeroImage: config.HeroImage,
		Title:     config.Title,
		Subtitle:  config.Subtitle,
	}
	if config.HeroImage != "" {
		response.HeroImageURL = handler.urls.URL(config.HeroImage)
	}

	respond.OK(writer, response)
}

func (handler *Handler) setHero(writer http.ResponseWriter, request *http.Request) {
	var input HeroInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	config, err := handler.service.SetHero(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, heroMutationResponse{Success: true, Config: config})
}
