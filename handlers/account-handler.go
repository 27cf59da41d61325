package handlers

import (
	"context"
	"net/http"

	"taskoo-project/backend/models"
	"taskoo-project/backend/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AccountStore interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	GetAccount(ctx context.Context, accountID primitive.ObjectID) (*models.Account, error)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AccountHandler struct {
	service AccountStore
}

func NewAccountHandler(service AccountStore) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "Login successful", result)
}

func (h *AccountHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}
	account, err := h.service.GetAccount(r.Context(), info.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "", account)
}
