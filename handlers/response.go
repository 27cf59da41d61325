package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"taskoo-project/backend/logging"
	"taskoo-project/backend/middleware"
	"taskoo-project/backend/models"
	"taskoo-project/backend/services"
	"taskoo-project/backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgNoPermission = "You don't have permission to set the project as done"

func writeOK(w http.ResponseWriter, message string, data interface{}) {
	utils.WriteJSON(w, http.StatusOK, message, data)
}

func writeBadRequest(w http.ResponseWriter, err error) {
	utils.WriteError(w, http.StatusBadRequest, err.Error())
}

func writeForbidden(w http.ResponseWriter, message string) {
	utils.WriteError(w, http.StatusForbidden, message)
}

// writeServiceError maps a service failure onto the envelope tiers.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case models.IsValidation(err),
		errors.Is(err, services.ErrNoFiles),
		errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotInBucket),
		errors.Is(err, services.ErrAccountDisabled):
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	utils.WriteError(w, status, err.Error())
}

// caller returns the authenticated account, answering 401 when the session is missing.
func caller(w http.ResponseWriter, r *http.Request) (models.AccountInfo, bool) {
	info, ok := middleware.AccountInfoFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not logged in")
	}
	return info, ok
}

// queryID validates the id query parameter.
func queryID(r *http.Request) (primitive.ObjectID, error) {
	return models.CheckID(r.URL.Query().Get("id"), "id")
}

func queryPage(r *http.Request) (models.Page, error) {
	q := r.URL.Query()
	return models.ParsePage(q.Get("pageNum"), q.Get("pageSize"))
}

type idRequest struct {
	ID string `json:"id"`
}

// bodyID validates the id of a {"id": "..."} body, falling back to the query string when the body is empty.
func bodyID(r *http.Request) (primitive.ObjectID, error) {
	var req idRequest
	if err := decodeJSON(r, &req); err != nil {
		return primitive.NilObjectID, err
	}
	if strings.TrimSpace(req.ID) == "" {
		req.ID = r.URL.Query().Get("id")
	}
	return models.CheckID(req.ID, "id")
}

// decodeJSON reads the body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		var validation *models.ValidationError
		if errors.As(err, &validation) {
			return validation
		}
		return &models.ValidationError{Reason: "invalid request payload: " + err.Error()}
	}
	return nil
}
