package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"sweeply/internal/bookings/service"
	"sweeply/pkg/auth"
	"sweeply/pkg/config"
	apperrors "sweeply/pkg/errors"
	httputil "sweeply/pkg/http"
	"sweeply/pkg/logger"
	"sweeply/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	cfg     *config.Config
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, cfg *config.Config, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		cfg:     cfg,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var payload model.BookingCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	booking, err := h.service.Create(r.Context(), caller, &payload)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, booking)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.GetByID(r.Context(), caller, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Duration(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	duration, err := h.service.Duration(r.Context(), caller, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, duration)
}

// transition adapts the five lifecycle verbs to one handler shape.
func (h *BookingHandler) transition(
	op func(r *http.Request, caller auth.Caller, id string) (*model.Booking, error),
) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		caller, err := auth.CallerFromContext(r.Context())
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		booking, err := op(r, caller, ps.ByName("id"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		httputil.WriteSuccess(w, booking)
	}
}

func (h *BookingHandler) SubmitPaymentProof(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, int64(h.cfg.MaxProofSize))
	if err := r.ParseMultipartForm(int64(h.cfg.MaxProofSize)); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Payment proof upload is malformed or too large"))
		return
	}

	file, header, err := r.FormFile("proof")
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Multipart field 'proof' is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	booking, err := h.service.SubmitPaymentProof(r.Context(), caller, ps.ByName("id"), contentType, file)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) GetPaymentProof(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	proof, err := h.service.OpenPaymentProof(r.Context(), caller, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer proof.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, proof); err != nil {
		h.log.Error("Failed to stream payment proof", "id", ps.ByName("id"), "error", err)
	}
}

func (h *BookingHandler) CurrentQueue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, h.service.CurrentQueue)
}

func (h *BookingHandler) History(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, h.service.History)
}

func (h *BookingHandler) ListForCustomer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, h.service.ListForCustomer)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), caller, ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Restore(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Restore(r.Context(), caller, ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) list(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, caller auth.Caller, limit int, offset int64) ([]*model.Booking, int64, error),
) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bookings, total, err := op(r.Context(), caller, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, bookings, total, limit, offset)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.ListForCustomer)
	router.GET("/api/v1/bookings/current", h.CurrentQueue)
	router.GET("/api/v1/bookings/history", h.History)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.GET("/api/v1/bookings/id/:id/duration", h.Duration)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
	router.POST("/api/v1/bookings/id/:id/restore", h.Restore)

	router.POST("/api/v1/bookings/id/:id/pick", h.transition(func(r *http.Request, caller auth.Caller, id string) (*model.Booking, error) {
		return h.service.Pick(r.Context(), caller, id)
	}))
	router.POST("/api/v1/bookings/id/:id/start", h.transition(func(r *http.Request, caller auth.Caller, id string) (*model.Booking, error) {
		return h.service.Start(r.Context(), caller, id)
	}))
	router.POST("/api/v1/bookings/id/:id/pause", h.transition(func(r *http.Request, caller auth.Caller, id string) (*model.Booking, error) {
		return h.service.Pause(r.Context(), caller, id)
	}))
	router.POST("/api/v1/bookings/id/:id/resume", h.transition(func(r *http.Request, caller auth.Caller, id string) (*model.Booking, error) {
		return h.service.Resume(r.Context(), caller, id)
	}))
	router.POST("/api/v1/bookings/id/:id/complete", h.transition(func(r *http.Request, caller auth.Caller, id string) (*model.Booking, error) {
		return h.service.Complete(r.Context(), caller, id)
	}))
	router.POST("/api/v1/bookings/id/:id/payment-proof", h.SubmitPaymentProof)
	router.GET("/api/v1/bookings/id/:id/payment-proof", h.GetPaymentProof)
}
