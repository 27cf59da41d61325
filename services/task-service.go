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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskService struct {
	TasksCollection    *mongo.Collection
	ProjectsCollection *mongo.Collection
	BucketsCollection  *mongo.Collection
	Files              FileStore
	Activities         *ActivityService
}

func NewTaskService(tasks, projects, buckets *mongo.Collection, files FileStore, activities *ActivityService) *TaskService {
	return &TaskService{
		TasksCollection:    tasks,
		ProjectsCollection: projects,
		BucketsCollection:  buckets,
		Files:              files,
		Activities:         activities,
	}
}

// CreateTask inserts t and binds it to its project, the creator's bucket and every member's bucket.
// A task that cannot be bound is unbound from its project and removed.
func (s *TaskService) CreateTask(ctx context.Context, t *models.Task, bucketID primitive.ObjectID) (primitive.ObjectID, error) {
	n, err := s.ProjectsCollection.CountDocuments(ctx, bson.M{"_id": t.Project})
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to look up project: %w", err)
	}
	if n == 0 {
		return primitive.NilObjectID, fmt.Errorf("project %w", ErrNotFound)
	}

	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if _, err := s.TasksCollection.InsertOne(ctx, t); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create task: %w", err)
	}

	if _, err := s.ProjectsCollection.UpdateOne(ctx, bson.M{"_id": t.Project}, bson.M{"$addToSet": bson.M{"tasks": t.ID}}); err != nil {
		discard(s.TasksCollection, t.ID)
		return primitive.NilObjectID, fmt.Errorf("failed to bind task to project: %w", err)
	}

	owners := bson.A{bson.M{"_id": bucketID}}
	if ids := models.MemberIDs(t.Members); len(ids) > 0 {
		owners = append(owners, bson.M{"owner": bson.M{"$in": ids}})
	}
	if _, err := s.BucketsCollection.UpdateMany(ctx, bson.M{"$or": owners}, bson.M{"$addToSet": bson.M{"tasks": t.ID}}); err != nil {
		if _, pullErr := s.ProjectsCollection.UpdateOne(context.Background(), bson.M{"_id": t.Project}, bson.M{"$pull": bson.M{"tasks": t.ID}}); pullErr != nil {
			logging.Logger.Warnf("Event ID: ROLLBACK_FAILED, Description: Failed to unbind task %s from project %s: %v", t.ID.Hex(), t.Project.Hex(), pullErr)
		}
		discard(s.TasksCollection, t.ID)
		return primitive.NilObjectID, fmt.Errorf("failed to bind task to buckets: %w", err)
	}

	s.Activities.Record(ctx, t.Project, models.ActivityCreateTask, nil, objectIDPtr(t.ID), t.Name)
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created in project %s", t.ID.Hex(), t.Project.Hex())
	return t.ID, nil
}

// GetTaskList returns the tasks of the bucket ordered by due time.
func (s *TaskService) GetTaskList(ctx context.Context, bucketID primitive.ObjectID) ([]models.Task, error) {
	bucket, err := loadBucket(ctx, s.BucketsCollection, bucketID)
	if err != nil {
		return nil, err
	}
	tasks := []models.Task{}
	if len(bucket.Tasks) == 0 {
		return tasks, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "dueTime", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.TasksCollection.Find(ctx, bson.M{"_id": bson.M{"$in": bucket.Tasks}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// GetTodoList returns the bucket's tasks that are not done.
func (s *TaskService) GetTodoList(ctx context.Context, bucketID primitive.ObjectID) ([]models.Task, error) {
	tasks, err := s.GetTaskList(ctx, bucketID)
	if err != nil {
		return nil, err
	}
	return models.FilterTodo(tasks), nil
}

func (s *TaskService) UploadAttachments(ctx context.Context, taskID, uploader primitive.ObjectID, uploads []models.Upload) ([]models.Attachment, error) {
	attachments, err := storeAttachments(ctx, s.Files, s.TasksCollection, taskID, uploader, uploads)
	if err != nil {
		return nil, err
	}

	var task struct {
		Project primitive.ObjectID `bson:"project"`
	}
	opts := options.FindOne().SetProjection(bson.M{"project": 1})
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}, opts).Decode(&task); err == nil {
		for _, a := range attachments {
			s.Activities.Record(ctx, task.Project, models.ActivityAddAttachment, objectIDPtr(uploader), objectIDPtr(taskID), a.Name)
		}
	}
	return attachments, nil
}

func (s *TaskService) GetAttachments(ctx context.Context, taskID primitive.ObjectID) ([]models.Attachment, error) {
	return loadAttachments(ctx, s.TasksCollection, taskID, "task")
}

// OpenAttachment returns the metadata and content of one task attachment.
func (s *TaskService) OpenAttachment(ctx context.Context, taskID primitive.ObjectID, attachmentID string) (*models.Attachment, io.ReadCloser, error) {
	return openAttachment(ctx, s.Files, s.TasksCollection, taskID, attachmentID, "task")
}

// DeleteTask removes the task, every reference to it and its stored files.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	var task models.Task
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		return notFound(err, "task")
	}

	if _, err := s.TasksCollection.DeleteOne(ctx, bson.M{"_id": taskID}); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if _, err := s.ProjectsCollection.UpdateOne(ctx, bson.M{"_id": task.Project}, bson.M{"$pull": bson.M{"tasks": taskID}}); err != nil {
		return fmt.Errorf("failed to unbind task from project: %w", err)
	}
	if _, err := s.BucketsCollection.UpdateMany(ctx, bson.M{"tasks": taskID}, bson.M{"$pull": bson.M{"tasks": taskID}}); err != nil {
		return fmt.Errorf("failed to unbind task from buckets: %w", err)
	}

	for _, a := range task.Attachments {
		if err := s.Files.Delete(ctx, a.FileID); err != nil {
			logging.Logger.Warnf("Event ID: ATTACHMENT_DELETE_FAILED, Description: Failed to remove file %s of task %s: %v", a.FileID.Hex(), taskID.Hex(), err)
		}
	}

	s.Activities.Record(ctx, task.Project, models.ActivityDeleteTask, nil, objectIDPtr(taskID), task.Name)
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted", taskID.Hex())
	return nil
}
