package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"taskoo-project/backend/logging"
	"taskoo-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProjectService struct {
	ProjectsCollection *mongo.Collection
	TasksCollection    *mongo.Collection
	AccountsCollection *mongo.Collection
	BucketsCollection  *mongo.Collection
	Files              FileStore
	Activities         *ActivityService
}

func NewProjectService(projects, tasks, accounts, buckets *mongo.Collection, files FileStore, activities *ActivityService) *ProjectService {
	return &ProjectService{
		ProjectsCollection: projects,
		TasksCollection:    tasks,
		AccountsCollection: accounts,
		BucketsCollection:  buckets,
		Files:              files,
		Activities:         activities,
	}
}

// CreateProject inserts p and binds it into the bucket of every member.
// The project is removed again when the binding fails.
func (s *ProjectService) CreateProject(ctx context.Context, p *models.Project) (primitive.ObjectID, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := s.ProjectsCollection.InsertOne(ctx, p); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create project: %w", err)
	}

	filter := bson.M{"owner": bson.M{"$in": models.MemberIDs(p.Members)}}
	update := bson.M{"$addToSet": bson.M{"projects": p.ID}}
	if _, err := s.BucketsCollection.UpdateMany(ctx, filter, update); err != nil {
		discard(s.ProjectsCollection, p.ID)
		return primitive.NilObjectID, fmt.Errorf("failed to bind project to member buckets: %w", err)
	}

	var creator *primitive.ObjectID
	if len(p.Members) > 0 {
		creator = objectIDPtr(p.Members[0].ID)
	}
	s.Activities.Record(ctx, p.ID, models.ActivityCreateProject, creator, nil, p.Name)
	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created with %d members", p.ID.Hex(), len(p.Members))
	return p.ID, nil
}

// GetStatusStatistic counts the bucket's projects per status.
func (s *ProjectService) GetStatusStatistic(ctx context.Context, bucketID primitive.ObjectID) (models.StatusStatistic, error) {
	bucket, err := loadBucket(ctx, s.BucketsCollection, bucketID)
	if err != nil {
		return nil, err
	}
	return countByStatus(ctx, s.ProjectsCollection, bucket.Projects)
}

// GetTaskStatistic counts the bucket's tasks per status.
func (s *ProjectService) GetTaskStatistic(ctx context.Context, bucketID primitive.ObjectID) (models.StatusStatistic, error) {
	bucket, err := loadBucket(ctx, s.BucketsCollection, bucketID)
	if err != nil {
		return nil, err
	}
	return countByStatus(ctx, s.TasksCollection, bucket.Tasks)
}

func (s *ProjectService) GetProjectList(ctx context.Context, bucketID primitive.ObjectID, page models.Page) (*models.PageResult[models.Project], error) {
	bucket, err := loadBucket(ctx, s.BucketsCollection, bucketID)
	if err != nil {
		return nil, err
	}
	return s.findProjectsPage(ctx, bucket.Projects, page)
}

// GetDetails returns the project with members joined to their accounts.
func (s *ProjectService) GetDetails(ctx context.Context, projectID primitive.ObjectID) (*models.ProjectDetail, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	accounts := map[primitive.ObjectID]models.Account{}
	if ids := models.MemberIDs(project.Members); len(ids) > 0 {
		opts := options.Find().SetProjection(bson.M{"password": 0})
		cursor, err := s.AccountsCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch project members: %w", err)
		}
		var found []models.Account
		if err := cursor.All(ctx, &found); err != nil {
			return nil, fmt.Errorf("failed to decode project members: %w", err)
		}
		for _, a := range found {
			accounts[a.ID] = a
		}
	}

	detail := &models.ProjectDetail{Project: *project, Members: make([]models.MemberDetail, 0, len(project.Members))}
	for _, m := range project.Members {
		md := models.MemberDetail{ID: m.ID, Role: m.Role}
		if a, ok := accounts[m.ID]; ok {
			md.FirstName = a.FirstName
			md.LastName = a.LastName
			md.Email = a.Email
			md.Avatar = a.Avatar
			md.Department = a.Department
			md.Position = a.Position
		}
		detail.Members = append(detail.Members, md)
	}
	return detail, nil
}

func (s *ProjectService) GetFavoriteStatus(ctx context.Context, bucketID, projectID primitive.ObjectID) (bool, error) {
	n, err := s.BucketsCollection.CountDocuments(ctx, bson.M{"_id": bucketID, "favorites": projectID})
	if err != nil {
		return false, fmt.Errorf("failed to check favorite status: %w", err)
	}
	return n > 0, nil
}

func (s *ProjectService) GetFavoriteList(ctx context.Context, bucketID primitive.ObjectID, page models.Page) (*models.PageResult[models.Project], error) {
	bucket, err := loadBucket(ctx, s.BucketsCollection, bucketID)
	if err != nil {
		return nil, err
	}
	return s.findProjectsPage(ctx, bucket.Favorites, page)
}

func (s *ProjectService) AddToFavorite(ctx context.Context, bucketID, projectID primitive.ObjectID) error {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return err
	}
	result, err := s.BucketsCollection.UpdateOne(ctx, bson.M{"_id": bucketID}, bson.M{"$addToSet": bson.M{"favorites": projectID}})
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("bucket %w", ErrNotFound)
	}
	s.Activities.Record(ctx, projectID, models.ActivityAddFavorite, nil, nil, bucketID.Hex())
	return nil
}

func (s *ProjectService) RemoveFromFavorite(ctx context.Context, bucketID, projectID primitive.ObjectID) error {
	result, err := s.BucketsCollection.UpdateOne(ctx, bson.M{"_id": bucketID}, bson.M{"$pull": bson.M{"favorites": projectID}})
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("bucket %w", ErrNotFound)
	}
	s.Activities.Record(ctx, projectID, models.ActivityRemoveFavorite, nil, nil, bucketID.Hex())
	return nil
}

// GetTasks lists the tasks that reference the project.
func (s *ProjectService) GetTasks(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createTime", Value: 1}})
	cursor, err := s.TasksCollection.Find(ctx, bson.M{"project": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project tasks: %w", err)
	}
	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode project tasks: %w", err)
	}
	return tasks, nil
}

func (s *ProjectService) UploadAttachments(ctx context.Context, projectID, uploader primitive.ObjectID, uploads []models.Upload) ([]models.Attachment, error) {
	attachments, err := storeAttachments(ctx, s.Files, s.ProjectsCollection, projectID, uploader, uploads)
	if err != nil {
		return nil, err
	}
	for _, a := range attachments {
		s.Activities.Record(ctx, projectID, models.ActivityAddAttachment, objectIDPtr(uploader), nil, a.Name)
	}
	return attachments, nil
}

func (s *ProjectService) GetAttachments(ctx context.Context, projectID primitive.ObjectID) ([]models.Attachment, error) {
	return loadAttachments(ctx, s.ProjectsCollection, projectID, "project")
}

// OpenAttachment returns the metadata and content of one project attachment.
func (s *ProjectService) OpenAttachment(ctx context.Context, projectID primitive.ObjectID, attachmentID string) (*models.Attachment, io.ReadCloser, error) {
	return openAttachment(ctx, s.Files, s.ProjectsCollection, projectID, attachmentID, "project")
}

// DoneCheck reports whether every task of the project is done.
func (s *ProjectService) DoneCheck(ctx context.Context, projectID primitive.ObjectID) (*models.DoneCheck, error) {
	total, err := s.TasksCollection.CountDocuments(ctx, bson.M{"project": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to count project tasks: %w", err)
	}
	unfinished, err := s.TasksCollection.CountDocuments(ctx, bson.M{"project": projectID, "status": bson.M{"$ne": models.StatusDone}})
	if err != nil {
		return nil, fmt.Errorf("failed to count unfinished tasks: %w", err)
	}
	return &models.DoneCheck{Done: unfinished == 0, Total: total, Unfinished: unfinished}, nil
}

// SetDone marks a project of the caller's bucket as done.
func (s *ProjectService) SetDone(ctx context.Context, projectID, bucketID primitive.ObjectID) error {
	n, err := s.BucketsCollection.CountDocuments(ctx, bson.M{"_id": bucketID, "projects": projectID})
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if n == 0 {
		return ErrNotInBucket
	}

	update := bson.M{"$set": bson.M{
		"status":   models.StatusDone,
		"done":     true,
		"doneTime": time.Now().UnixMilli(),
	}}
	result, err := s.ProjectsCollection.UpdateOne(ctx, bson.M{"_id": projectID}, update)
	if err != nil {
		return fmt.Errorf("failed to set project as done: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("project %w", ErrNotFound)
	}
	s.Activities.Record(ctx, projectID, models.ActivitySetDone, nil, nil, "")
	return nil
}

func (s *ProjectService) GetStatus(ctx context.Context, projectID primitive.ObjectID) (string, error) {
	var doc struct {
		Status string `bson:"status"`
	}
	opts := options.FindOne().SetProjection(bson.M{"status": 1})
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}, opts).Decode(&doc); err != nil {
		return "", notFound(err, "project")
	}
	return doc.Status, nil
}

func (s *ProjectService) GetActivities(ctx context.Context, projectID primitive.ObjectID, page models.Page) (*models.PageResult[models.ProjectActivity], error) {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.Activities.List(ctx, projectID, page)
}

func (s *ProjectService) findProject(ctx context.Context, projectID primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		return nil, notFound(err, "project")
	}
	return &project, nil
}

func (s *ProjectService) ensureProject(ctx context.Context, projectID primitive.ObjectID) error {
	n, err := s.ProjectsCollection.CountDocuments(ctx, bson.M{"_id": projectID})
	if err != nil {
		return fmt.Errorf("failed to look up project: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("project %w", ErrNotFound)
	}
	return nil
}

func (s *ProjectService) findProjectsPage(ctx context.Context, ids []primitive.ObjectID, page models.Page) (*models.PageResult[models.Project], error) {
	if len(ids) == 0 {
		return &models.PageResult[models.Project]{Total: 0, List: []models.Project{}}, nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}}

	total, err := s.ProjectsCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createTime", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Size))
	cursor, err := s.ProjectsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}
	list := []models.Project{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return &models.PageResult[models.Project]{Total: total, List: list}, nil
}

func loadBucket(ctx context.Context, buckets *mongo.Collection, bucketID primitive.ObjectID) (*models.Bucket, error) {
	var bucket models.Bucket
	if err := buckets.FindOne(ctx, bson.M{"_id": bucketID}).Decode(&bucket); err != nil {
		return nil, notFound(err, "bucket")
	}
	return &bucket, nil
}

// countByStatus groups the documents with the given ids by status, zero filling known statuses.
func countByStatus(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (models.StatusStatistic, error) {
	stats := models.NewStatusStatistic()
	if len(ids) == 0 {
		return stats, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s statistic: %w", coll.Name(), err)
	}
	var groups []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode %s statistic: %w", coll.Name(), err)
	}
	for _, g := range groups {
		stats[g.Status] += g.Count
	}
	return stats, nil
}
