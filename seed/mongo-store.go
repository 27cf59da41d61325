package seed

import (
	"context"
	"fmt"

	"taskoo-project/backend/database"
	"taskoo-project/backend/models"
	"taskoo-project/backend/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoStore writes plans through the same services the API uses, so buckets are bound the same way.
type MongoStore struct {
	cols     *database.Collections
	projects *services.ProjectService
	tasks    *services.TaskService
}

func NewMongoStore(cols *database.Collections) *MongoStore {
	activities := services.NewActivityService(cols.Activities)
	return &MongoStore{
		cols:     cols,
		projects: services.NewProjectService(cols.Projects, cols.Tasks, cols.Accounts, cols.Buckets, nil, activities),
		tasks:    services.NewTaskService(cols.Tasks, cols.Projects, cols.Buckets, nil, activities),
	}
}

func (s *MongoStore) Drop(ctx context.Context) error {
	return s.cols.DB.Drop(ctx)
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	return s.cols.EnsureIndexes(ctx)
}

func (s *MongoStore) InsertStatic(ctx context.Context, collection string, entries []models.StaticEntry) error {
	coll, err := s.cols.Static(collection)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e)
	}
	_, err = coll.InsertMany(ctx, docs)
	return err
}

func (s *MongoStore) InsertAccounts(ctx context.Context, accounts []*models.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(accounts))
	for _, a := range accounts {
		docs = append(docs, a)
	}
	_, err := s.cols.Accounts.InsertMany(ctx, docs)
	return err
}

func (s *MongoStore) InsertBuckets(ctx context.Context, buckets []*models.Bucket) error {
	if len(buckets) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(buckets))
	for _, b := range buckets {
		docs = append(docs, b)
	}
	_, err := s.cols.Buckets.InsertMany(ctx, docs)
	return err
}

func (s *MongoStore) CreateProject(ctx context.Context, p *models.Project) error {
	if _, err := s.projects.CreateProject(ctx, p); err != nil {
		return fmt.Errorf("failed to seed project %s: %w", p.Name, err)
	}
	return nil
}

func (s *MongoStore) CreateTask(ctx context.Context, t *models.Task, bucketID primitive.ObjectID) error {
	if _, err := s.tasks.CreateTask(ctx, t, bucketID); err != nil {
		return fmt.Errorf("failed to seed task %s: %w", t.Name, err)
	}
	return nil
}
