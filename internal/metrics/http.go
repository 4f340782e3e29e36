package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/lumina/internal/platform/middleware"
	"github.com/taibuivan/lumina/internal/platform/respond"
	"github.com/taibuivan/lumina/pkg/convert"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/metrics", func(metricsRoute chi.Router) {
		metricsRoute.Post("/visit", handler.recordVisit)
		metricsRoute.With(middleware.RequireAdmin).Get("/", handler.stats)
	})
}

// recordVisit is fire-and-forget: the client gets 202 regardless of
// whether the counter write lands.
func (handler *Handler) recordVisit(writer http.ResponseWriter, request *http.Request) {
	handler.service.RecordVisit(request.Context())
	respond.Accepted(writer)
}

func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	days := convert.ToIntD(request.URL.Query().Get("days"), DefaultStatsDays)

	stats, err := handler.service.Stats(request.Context(), days)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}
