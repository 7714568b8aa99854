package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"sweeply/internal/earnings/service"
	"sweeply/pkg/auth"
	httputil "sweeply/pkg/http"
	"sweeply/pkg/logger"
	"sweeply/pkg/model"
)

type EarningsHandler struct {
	service service.EarningsService
	log     *logger.Logger
}

func NewEarningsHandler(service service.EarningsService, log *logger.Logger) *EarningsHandler {
	return &EarningsHandler{
		service: service,
		log:     log,
	}
}

func (h *EarningsHandler) RegisterCleaner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var cleaner model.Cleaner
	if err := json.NewDecoder(r.Body).Decode(&cleaner); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	created, err := h.service.RegisterCleaner(r.Context(), caller, &cleaner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, created)
}

func (h *EarningsHandler) GetCleaner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	cleaner, err := h.service.GetCleaner(r.Context(), caller, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, cleaner)
}

func (h *EarningsHandler) Summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, summary)
}

func (h *EarningsHandler) History(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

	events, total, err := h.service.History(r.Context(), caller, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, events, total, limit, offset)
}

type withdrawRequest struct {
	Amount int64 `json:"amount"`
}

func (h *EarningsHandler) Withdraw(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	withdrawal, err := h.service.Withdraw(r.Context(), caller, req.Amount)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, withdrawal)
}

func (h *EarningsHandler) Withdrawals(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

	withdrawals, total, err := h.service.Withdrawals(r.Context(), caller, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, withdrawals, total, limit, offset)
}

func (h *EarningsHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/cleaners", h.RegisterCleaner)
	router.GET("/api/v1/cleaners/id/:id", h.GetCleaner)
	router.GET("/api/v1/earnings/summary", h.Summary)
	router.GET("/api/v1/earnings/history", h.History)
	router.POST("/api/v1/withdrawals", h.Withdraw)
	router.GET("/api/v1/withdrawals", h.Withdrawals)
}
