package services

import (
	"context"
	"fmt"
	"time"

	"taskoo-project/backend/logging"
	"taskoo-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityService keeps the per-project activity log.
type ActivityService struct {
	ActivitiesCollection *mongo.Collection
}

func NewActivityService(activities *mongo.Collection) *ActivityService {
	return &ActivityService{ActivitiesCollection: activities}
}

// Record appends an entry. The log is best effort: failures are logged, never returned.
func (s *ActivityService) Record(ctx context.Context, projectID primitive.ObjectID, kind models.ActivityType, accountID, taskID *primitive.ObjectID, details string) {
	if s == nil || s.ActivitiesCollection == nil {
		return
	}
	activity := models.ProjectActivity{
		ProjectID:    projectID,
		ActivityType: kind,
		TaskID:       taskID,
		AccountID:    accountID,
		Timestamp:    time.Now().UTC(),
		Details:      details,
	}
	if _, err := s.ActivitiesCollection.InsertOne(ctx, activity); err != nil {
		logging.Logger.Warnf("Event ID: ACTIVITY_RECORD_FAILED, Description: Failed to record %s for project %s: %v", kind, projectID.Hex(), err)
	}
}

// List returns a page of a project's activities, newest first.
func (s *ActivityService) List(ctx context.Context, projectID primitive.ObjectID, page models.Page) (*models.PageResult[models.ProjectActivity], error) {
	filter := bson.M{"projectId": projectID}

	total, err := s.ActivitiesCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count activities: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Size))
	cursor, err := s.ActivitiesCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}
	defer cursor.Close(ctx)

	list := []models.ProjectActivity{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return &models.PageResult[models.ProjectActivity]{Total: total, List: list}, nil
}

func objectIDPtr(id primitive.ObjectID) *primitive.ObjectID {
	if id.IsZero() {
		return nil
	}
	return &id
}
