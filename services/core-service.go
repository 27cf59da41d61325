package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"taskoo-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const searchLimit = 50

// CoreService answers queries that span projects and tasks.
type CoreService struct {
	ProjectsCollection *mongo.Collection
	TasksCollection    *mongo.Collection
	BucketsCollection  *mongo.Collection
}

func NewCoreService(projects, tasks, buckets *mongo.Collection) *CoreService {
	return &CoreService{
		ProjectsCollection: projects,
		TasksCollection:    tasks,
		BucketsCollection:  buckets,
	}
}

// Search matches term literally and case-insensitively against the name and
// description of the projects and tasks in the bucket.
func (s *CoreService) Search(ctx context.Context, term string, bucketID primitive.ObjectID) (*models.SearchResult, error) {
	result := &models.SearchResult{Projects: []models.Project{}, Tasks: []models.Task{}}
	term = strings.TrimSpace(term)
	if term == "" {
		return result, nil
	}

	bucket, err := loadBucket(ctx, s.BucketsCollection, bucketID)
	if err != nil {
		return nil, err
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	match := func(ids []primitive.ObjectID) bson.M {
		return bson.M{
			"_id": bson.M{"$in": ids},
			"$or": bson.A{
				bson.M{"name": pattern},
				bson.M{"description": pattern},
			},
		}
	}
	opts := options.Find().SetLimit(searchLimit).SetSort(bson.D{{Key: "createTime", Value: -1}})

	if len(bucket.Projects) > 0 {
		cursor, err := s.ProjectsCollection.Find(ctx, match(bucket.Projects), opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search projects: %w", err)
		}
		if err := cursor.All(ctx, &result.Projects); err != nil {
			return nil, fmt.Errorf("failed to decode projects: %w", err)
		}
	}
	if len(bucket.Tasks) > 0 {
		cursor, err := s.TasksCollection.Find(ctx, match(bucket.Tasks), opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search tasks: %w", err)
		}
		if err := cursor.All(ctx, &result.Tasks); err != nil {
			return nil, fmt.Errorf("failed to decode tasks: %w", err)
		}
	}
	return result, nil
}
