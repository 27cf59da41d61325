package handlers

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"

	"taskoo-project/backend/logging"
	"taskoo-project/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// multipartUpload is a parsed attachment request: the owning id and its opened files.
type multipartUpload struct {
	ID      primitive.ObjectID
	Uploads []models.Upload
	closers []io.Closer
}

func (u *multipartUpload) Close() {
	for _, c := range u.closers {
		c.Close()
	}
}

// parseUpload reads the id field and every file part of a multipart request.
func parseUpload(r *http.Request, maxMemory int64) (*multipartUpload, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, &models.ValidationError{Reason: fmt.Sprintf("invalid multipart form: %v", err)}
	}
	id, err := models.CheckID(r.FormValue("id"), "id")
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(r.MultipartForm.File))
	for field := range r.MultipartForm.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	u := &multipartUpload{ID: id}
	for _, field := range fields {
		for _, fh := range r.MultipartForm.File[field] {
			f, err := fh.Open()
			if err != nil {
				u.Close()
				return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
			}
			u.closers = append(u.closers, f)
			u.Uploads = append(u.Uploads, models.Upload{
				Name:     fh.Filename,
				MimeType: contentType(fh),
				Content:  f,
			})
		}
	}
	if len(u.Uploads) == 0 {
		return nil, &models.ValidationError{Field: "files", Reason: "are required"}
	}
	return u, nil
}

func contentType(fh *multipart.FileHeader) string {
	return fh.Header.Get("Content-Type")
}

func queryAttachmentID(r *http.Request) (string, error) {
	id := r.URL.Query().Get("attachmentId")
	if id == "" {
		return "", &models.ValidationError{Field: "attachmentId", Reason: "is required"}
	}
	return id, nil
}

// writeAttachment streams content as a download named after meta.
func writeAttachment(w http.ResponseWriter, meta *models.Attachment, content io.Reader) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": meta.Name})
	if disposition == "" {
		disposition = "attachment"
	}
	contentType := meta.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", disposition)
	if meta.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, content); err != nil {
		logging.Logger.Warnf("Event ID: ATTACHMENT_STREAM_FAILED, Description: Failed to stream %s: %v", meta.ID, err)
	}
}
