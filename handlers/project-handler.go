package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"taskoo-project/backend/logging"
	"taskoo-project/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStore is the data access the project routes need.
type ProjectStore interface {
	CreateProject(ctx context.Context, p *models.Project) (primitive.ObjectID, error)
	GetProjectList(ctx context.Context, bucketID primitive.ObjectID, page models.Page) (*models.PageResult[models.Project], error)
	GetDetails(ctx context.Context, projectID primitive.ObjectID) (*models.ProjectDetail, error)
	GetStatusStatistic(ctx context.Context, bucketID primitive.ObjectID) (models.StatusStatistic, error)
	GetTaskStatistic(ctx context.Context, bucketID primitive.ObjectID) (models.StatusStatistic, error)
	GetFavoriteStatus(ctx context.Context, bucketID, projectID primitive.ObjectID) (bool, error)
	GetFavoriteList(ctx context.Context, bucketID primitive.ObjectID, page models.Page) (*models.PageResult[models.Project], error)
	AddToFavorite(ctx context.Context, bucketID, projectID primitive.ObjectID) error
	RemoveFromFavorite(ctx context.Context, bucketID, projectID primitive.ObjectID) error
	GetTasks(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
	UploadAttachments(ctx context.Context, projectID, uploader primitive.ObjectID, uploads []models.Upload) ([]models.Attachment, error)
	GetAttachments(ctx context.Context, projectID primitive.ObjectID) ([]models.Attachment, error)
	OpenAttachment(ctx context.Context, projectID primitive.ObjectID, attachmentID string) (*models.Attachment, io.ReadCloser, error)
	DoneCheck(ctx context.Context, projectID primitive.ObjectID) (*models.DoneCheck, error)
	SetDone(ctx context.Context, projectID, bucketID primitive.ObjectID) error
	GetStatus(ctx context.Context, projectID primitive.ObjectID) (string, error)
	GetActivities(ctx context.Context, projectID primitive.ObjectID, page models.Page) (*models.PageResult[models.ProjectActivity], error)
}

type Searcher interface {
	Search(ctx context.Context, term string, bucketID primitive.ObjectID) (*models.SearchResult, error)
}

type PermissionChecker interface {
	GetPermission(ctx context.Context, positionID, permission string) (bool, error)
}

// PermissionProjects is the position permission required to close a project.
const PermissionProjects = "projects"

type ProjectHandler struct {
	service     ProjectStore
	search      Searcher
	permissions PermissionChecker
	maxMemory   int64
}

func NewProjectHandler(service ProjectStore, search Searcher, permissions PermissionChecker, maxMemory int64) *ProjectHandler {
	return &ProjectHandler{service: service, search: search, permissions: permissions, maxMemory: maxMemory}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}

	var in models.ProjectInput
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err)
		return
	}
	in.Members = models.WithCreator(in.Members, info.ID)

	project, err := models.NewProject(in)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	id, err := h.service.CreateProject(r.Context(), project)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "Project created successfully", map[string]primitive.ObjectID{"id": id})
}

func (h *ProjectHandler) GetProjectList(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}
	page, err := queryPage(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	list, err := h.service.GetProjectList(r.Context(), info.Bucket, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "", list)
}

func (h *ProjectHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	detail, err := h.service.GetDetails(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "", detail)
}

func (h *ProjectHandler) GetStatusStatistic(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}
	stats, err := h.service.GetStatusStatistic(r.Context(), info.Bucket)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "", stats)
}

func (h *ProjectHandler) GetTaskStatistic(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}
	stats, err := h.service.GetTaskStatistic(r.Context(), info.Bucket)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "", stats)
}

func (h *ProjectHandler) GetFavoriteStatus(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := queryID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	favorite, err := h.service.GetFavoriteStatus(r.Context(), info.Bucket, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "", favorite)
}

func (h *ProjectHandler) GetFavoriteList(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}
	page, err := queryPage(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	list, err := h.service.GetFavoriteList(r.Context(), info.Bucket, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "", list)
}

func (h *ProjectHandler) AddToFavorite(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := bodyID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.service.AddToFavorite(r.Context(), info.Bucket, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "Added to favorites", nil)
}

func (h *ProjectHandler) RemoveFromFavorite(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := bodyID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.service.RemoveFromFavorite(r.Context(), info.Bucket, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "Removed from favorites", nil)
}

func (h *ProjectHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	tasks, err := h.service.GetTasks(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "", tasks)
}

func (h *ProjectHandler) UploadAttachments(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}
	upload, err := parseUpload(r, h.maxMemory)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	defer upload.Close()

	attachments, err := h.service.UploadAttachments(r.Context(), upload.ID, info.ID, upload.Uploads)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, fmt.Sprintf("%d file(s) uploaded", len(attachments)), attachments)
}

// GetAttachments returns one page of the project's attachments.
func (h *ProjectHandler) GetAttachments(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	page, err := queryPage(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	attachments, err := h.service.GetAttachments(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "", models.Paginate(attachments, page))
}

func (h *ProjectHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	attachmentID, err := queryAttachmentID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	meta, content, err := h.service.OpenAttachment(r.Context(), id, attachmentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer content.Close()
	writeAttachment(w, meta, content)
}

func (h *ProjectHandler) Search(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.search.Search(r.Context(), r.URL.Query().Get("searchTerm"), info.Bucket)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "", result)
}

func (h *ProjectHandler) DoneCheck(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	check, err := h.service.DoneCheck(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	message := "All tasks are done"
	if !check.Done {
		message = fmt.Sprintf("%d of %d tasks are not done yet", check.Unfinished, check.Total)
	}
	writeOK(w, message, check)
}

// SetDone closes a project. The caller's position must grant the projects permission.
func (h *ProjectHandler) SetDone(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := bodyID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	allowed, err := h.permissions.GetPermission(r.Context(), info.Position, PermissionProjects)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !allowed {
		logging.Logger.Warnf("Event ID: PERMISSION_DENIED, Description: Account %s may not set project %s as done", info.ID.Hex(), id.Hex())
		writeForbidden(w, msgNoPermission)
		return
	}

	if err := h.service.SetDone(r.Context(), id, info.Bucket); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "Project set as done", nil)
}

func (h *ProjectHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	status, err := h.service.GetStatus(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "", status)
}

func (h *ProjectHandler) GetActivities(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	page, err := queryPage(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	activities, err := h.service.GetActivities(r.Context(), id, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "", activities)
}
