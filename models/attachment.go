package models

import (
	"io"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment is the metadata of a stored file; the bytes live in GridFS under FileID.
type Attachment struct {
	ID         string             `json:"_id" bson:"_id"`
	FileID     primitive.ObjectID `json:"fileId" bson:"fileId"`
	Name       string             `json:"name" bson:"name"`
	Size       int64              `json:"size" bson:"size"`
	MimeType   string             `json:"mimeType" bson:"mimeType"`
	Uploader   primitive.ObjectID `json:"uploader" bson:"uploader"`
	UploadTime int64              `json:"uploadTime" bson:"uploadTime"`
}

// Upload is one incoming file of a multipart request.
type Upload struct {
	Name     string
	MimeType string
	Content  io.Reader
}

func NewAttachment(fileID primitive.ObjectID, name, mimeType string, size int64, uploader primitive.ObjectID) Attachment {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return Attachment{
		ID:         uuid.New().String(),
		FileID:     fileID,
		Name:       name,
		Size:       size,
		MimeType:   mimeType,
		Uploader:   uploader,
		UploadTime: time.Now().UnixMilli(),
	}
}
