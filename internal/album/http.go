package album

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/lumina/internal/platform/middleware"
	requestutil "github.com/taibuivan/lumina/internal/platform/request"
	"github.com/taibuivan/lumina/internal/platform/respond"
	"github.com/taibuivan/lumina/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listAlbums)

	// Admin only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireAdmin)

		adminRoute.Post("/", handler.createAlbum)
		adminRoute.Put("/reorder", handler.reorderAlbums)
		adminRoute.Put("/{id}", handler.updateAlbum)
		adminRoute.Delete("/{id}", handler.deleteAlbum)
		adminRoute.Post("/{id}/images", handler.addImage)
		adminRoute.Delete("/{id}/images/{imageId}", handler.removeImage)
	})
}

// # Response Payloads

type successResponse struct {
	Success bool `json:"success"`
}

type albumMutationResponse struct {
	Success bool   `json:"success"`
	Album   *Album `json:"album"`
}

type reorderResponse struct {
	Success bool    `json:"success"`
	Albums  []Album `json:"albums"`
}

// # Handlers

func (handler *Handler) listAlbums(writer http.ResponseWriter, request *http.Request) {
	albums, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, albums)
}

func (handler *Handler) createAlbum(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) updateAlbum(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deleteAlbum(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, successResponse{Success: true})
}

func (handler *Handler) addImage(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var input struct {
		ImageID string `json:"imageId"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.AddImage(request.Context(), id, input.ImageID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, albumMutationResponse{Success: true, Album: updated})
}

func (handler *Handler) removeImage(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")
	imageID := requestutil.Param(request, "imageId")

	updated, err := handler.service.RemoveImage(request.Context(), id, imageID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, albumMutationResponse{Success: true, Album: updated})
}

func (handler *Handler) reorderAlbums(writer http.ResponseWriter, request *http.Request) {
	// The reorder body is shape-tolerant, so it is read raw and normalized
	// instead of decoded into a fixed struct.
	raw, err := io.ReadAll(request.Body)
	if err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	ids, err := NormalizeReorderPayload(raw)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	albums, err := handler.service.Reorder(request.Context(), ids)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reorderResponse{Success: true, Albums: albums})
}
