package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AMRWERY/Employees-System-Management-ESM/internal/domain/leave"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/handler/http/response"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/identity"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	MyBalance(w http.ResponseWriter, r *http.Request)
	Balance(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
	ident        identity.Identity
}

func NewLeaveHandler(leaveService leave.LeaveService, ident identity.Identity) LeaveHandler {
	return &leaveHandlerImpl{leaveService: leaveService, ident: ident}
}

func (h *leaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req leave.SubmitRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	id, err := h.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", map[string]string{"id": id})
}

func (h *leaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	result, err := h.leaveService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *leaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter leave.RequestFilter

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	filter.Status = r.URL.Query().Get("status")
	filter.Search = r.URL.Query().Get("search")

	result, err := h.leaveService.ListAll(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *leaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	result, err := h.leaveService.ListMine(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *leaveHandlerImpl) MyBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := h.ident.CurrentUserID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	h.writeBalance(w, r, userID)
}

func (h *leaveHandlerImpl) Balance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		response.BadRequest(w, "User ID is required", nil)
		return
	}
	h.writeBalance(w, r, userID)
}

func (h *leaveHandlerImpl) writeBalance(w http.ResponseWriter, r *http.Request, userID string) {
	balance, err := h.leaveService.AvailableBalance(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int{"availableBalance": balance})
}

func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.leaveService.Approve, "Leave request approved")
}

func (h *leaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.leaveService.Cancel, "Leave request cancelled")
}

func (h *leaveHandlerImpl) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.leaveService.Withdraw, "Leave request withdrawn")
}

func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	var body struct {
		Reason *string `json:"reason,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	result, err := h.leaveService.Reject(r.Context(), id, body.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", result)
}

func (h *leaveHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	if err := h.leaveService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request deleted successfully", nil)
}

func (h *leaveHandlerImpl) decide(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (leave.Request, error), message string) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	result, err := fn(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}
