package gallery

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/lumina/internal/platform/constants"
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
	router.Route("/images", func(imageRoute chi.Router) {
		imageRoute.Get("/", handler.listImages)

		imageRoute.Group(func(adminRoute chi.Router) {
			adminRoute.Use(middleware.RequireAdmin)
			adminRoute.Post("/", handler.uploadImage)
			adminRoute.Delete("/{filename}", handler.deleteImage)
		})
	})

	router.Route("/gallery/order", func(orderRoute chi.Router) {
		orderRoute.Get("/", handler.getOrder)
		orderRoute.With(middleware.RequireAdmin).Put("/", handler.saveOrder)
	})
}

// # Payloads

type uploadResponse struct {
	Success bool  `json:"success"`
	Image   Image `json:"image"`
}

type deleteResponse struct {
	Success       bool `json:"success"`
	AlbumsUpdated int  `json:"albumsUpdated"`
}

type orderUpdateRequest struct {
	ImageOrder []OrderEntry `json:"imageOrder"`
}

// # Handlers

func (handler *Handler) listImages(writer http.ResponseWriter, request *http.Request) {
	images, err := handler.service.ListImages(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, images)
}

func (handler *Handler) uploadImage(writer http.ResponseWriter, request *http.Request) {
	// Bound the body before multipart parsing touches it
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)

	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		respond.Error(writer, request, validate.RequiredError("image", "Expected a multipart upload"))
		return
	}

	file, header, err := request.FormFile("image")
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("image", "Missing image file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			respond.Error(writer, request, validate.RequiredError("image", "Image exceeds the upload size limit"))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	image, err := handler.service.Upload(request.Context(), UploadInput{
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Data:         data,
		Title:        request.FormValue("title"),
		Description:  request.FormValue("description"),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, uploadResponse{Success: true, Image: image})
}

func (handler *Handler) deleteImage(writer http.ResponseWriter, request *http.Request) {
	filename := requestutil.Param(request, "filename")

	albumsUpdated, err := handler.service.DeleteImage(request.Context(), filename)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, deleteResponse{Success: true, AlbumsUpdated: albumsUpdated})
}

func (handler *Handler) getOrder(writer http.ResponseWriter, request *http.Request) {
	order, err := handler.service.GetOrder(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, order)
}

func (handler *Handler) saveOrder(writer http.ResponseWriter, request *http.Request) {
	var input orderUpdateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.service.SaveOrder(request.Context(), input.ImageOrder)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, order)
}
