package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"taskoo-project/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStore is the data access the task routes need.
type TaskStore interface {
	CreateTask(ctx context.Context, t *models.Task, bucketID primitive.ObjectID) (primitive.ObjectID, error)
	GetTaskList(ctx context.Context, bucketID primitive.ObjectID) ([]models.Task, error)
	GetTodoList(ctx context.Context, bucketID primitive.ObjectID) ([]models.Task, error)
	UploadAttachments(ctx context.Context, taskID, uploader primitive.ObjectID, uploads []models.Upload) ([]models.Attachment, error)
	GetAttachments(ctx context.Context, taskID primitive.ObjectID) ([]models.Attachment, error)
	OpenAttachment(ctx context.Context, taskID primitive.ObjectID, attachmentID string) (*models.Attachment, io.ReadCloser, error)
	DeleteTask(ctx context.Context, taskID primitive.ObjectID) error
}

type TaskHandler struct {
	service   TaskStore
	maxMemory int64
}

func NewTaskHandler(service TaskStore, maxMemory int64) *TaskHandler {
	return &TaskHandler{service: service, maxMemory: maxMemory}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}

	var in models.TaskInput
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err)
		return
	}
	task, err := models.NewTask(in)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	id, err := h.service.CreateTask(r.Context(), task, info.Bucket)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "Task created successfully", map[string]primitive.ObjectID{"id": id})
}

func (h *TaskHandler) GetTaskList(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}
	tasks, err := h.service.GetTaskList(r.Context(), info.Bucket)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "", tasks)
}

// GetTodoList returns the caller's tasks that are not done.
func (h *TaskHandler) GetTodoList(w http.ResponseWriter, r *http.Request) {
	info, ok := caller(w, r)
	if !ok {
		return
	}
	tasks, err := h.service.GetTodoList(r.Context(), info.Bucket)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "", tasks)
}

func (h *TaskHandler) UploadAttachments(w http.ResponseWriter, r *http.Request) {
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

// GetAttachments returns one page of the task's attachments.
func (h *TaskHandler) GetAttachments(w http.ResponseWriter, r *http.Request) {
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

func (h *TaskHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
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

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := bodyID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, "Task deleted successfully", nil)
}
