package services

import (
	"context"
	"fmt"
	"io"

	"taskoo-project/backend/logging"
	"taskoo-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FileStore keeps attachment bytes.
type FileStore interface {
	Save(ctx context.Context, name string, content io.Reader) (primitive.ObjectID, int64, error)
	Open(ctx context.Context, fileID primitive.ObjectID) (io.ReadCloser, error)
	Delete(ctx context.Context, fileID primitive.ObjectID) error
}

// GridFSStore stores attachments in a GridFS bucket of the application database.
type GridFSStore struct {
	bucket *gridfs.Bucket
}

func NewGridFSStore(db *mongo.Database, name string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket %s: %w", name, err)
	}
	return &GridFSStore{bucket: bucket}, nil
}

func (s *GridFSStore) Save(ctx context.Context, name string, content io.Reader) (primitive.ObjectID, int64, error) {
	if err := ctx.Err(); err != nil {
		return primitive.NilObjectID, 0, err
	}
	counter := &countingReader{r: content}
	id, err := s.bucket.UploadFromStream(name, counter)
	if err != nil {
		return primitive.NilObjectID, 0, fmt.Errorf("failed to store %s: %w", name, err)
	}
	return id, counter.n, nil
}

func (s *GridFSStore) Open(ctx context.Context, fileID primitive.ObjectID) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stream, err := s.bucket.OpenDownloadStream(fileID)
	if err != nil {
		if err == gridfs.ErrFileNotFound {
			return nil, fmt.Errorf("file %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open file %s: %w", fileID.Hex(), err)
	}
	return stream, nil
}

func (s *GridFSStore) Delete(ctx context.Context, fileID primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.bucket.Delete(fileID); err != nil && err != gridfs.ErrFileNotFound {
		return fmt.Errorf("failed to delete file %s: %w", fileID.Hex(), err)
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// storeAttachments saves uploads and appends their metadata to the document _id in coll.
// Files already saved are removed again when the document update fails.
func storeAttachments(ctx context.Context, files FileStore, coll *mongo.Collection, id, uploader primitive.ObjectID, uploads []models.Upload) ([]models.Attachment, error) {
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}

	attachments := make([]models.Attachment, 0, len(uploads))
	rollback := func() {
		for _, a := range attachments {
			if err := files.Delete(context.Background(), a.FileID); err != nil {
				logging.Logger.Warnf("Event ID: ATTACHMENT_ROLLBACK_FAILED, Description: Failed to remove file %s: %v", a.FileID.Hex(), err)
			}
		}
	}

	for _, u := range uploads {
		fileID, size, err := files.Save(ctx, u.Name, u.Content)
		if err != nil {
			rollback()
			return nil, err
		}
		attachments = append(attachments, models.NewAttachment(fileID, u.Name, u.MimeType, size, uploader))
	}

	update := bson.M{"$push": bson.M{"attachments": bson.M{"$each": attachments}}}
	result, err := coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		rollback()
		return nil, fmt.Errorf("failed to save attachments: %w", err)
	}
	if result.MatchedCount == 0 {
		rollback()
		return nil, fmt.Errorf("%s %w", coll.Name(), ErrNotFound)
	}
	return attachments, nil
}

// loadAttachments returns the attachments of the document _id in coll, never nil.
func loadAttachments(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, what string) ([]models.Attachment, error) {
	var doc struct {
		Attachments []models.Attachment `bson:"attachments"`
	}
	opts := options.FindOne().SetProjection(bson.M{"attachments": 1})
	if err := coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc); err != nil {
		return nil, notFound(err, what)
	}
	if doc.Attachments == nil {
		doc.Attachments = []models.Attachment{}
	}
	return doc.Attachments, nil
}

// openAttachment finds attachmentID among the attachments of the document _id in coll and opens its content.
func openAttachment(ctx context.Context, files FileStore, coll *mongo.Collection, id primitive.ObjectID, attachmentID, what string) (*models.Attachment, io.ReadCloser, error) {
	attachments, err := loadAttachments(ctx, coll, id, what)
	if err != nil {
		return nil, nil, err
	}
	for i := range attachments {
		if attachments[i].ID == attachmentID {
			content, err := files.Open(ctx, attachments[i].FileID)
			if err != nil {
				return nil, nil, err
			}
			return &attachments[i], content, nil
		}
	}
	return nil, nil, fmt.Errorf("attachment %w", ErrNotFound)
}

// discard removes a document whose creation could not be completed.
func discard(coll *mongo.Collection, id primitive.ObjectID) {
	if _, err := coll.DeleteOne(context.Background(), bson.M{"_id": id}); err != nil {
		logging.Logger.Warnf("Event ID: ROLLBACK_FAILED, Description: Failed to remove %s %s: %v", coll.Name(), id.Hex(), err)
	}
}
