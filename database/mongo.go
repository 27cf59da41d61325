package database

import (
	"context"
	"fmt"
	"time"

	"taskoo-project/backend/logging"
	"taskoo-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionAccounts   = "accounts"
	CollectionBuckets    = "buckets"
	CollectionProjects   = "projects"
	CollectionTasks      = "tasks"
	CollectionActivities = "activities"
	AttachmentsBucket    = "attachments"
)

// Collections are the handles every service works with.
type Collections struct {
	DB          *mongo.Database
	Accounts    *mongo.Collection
	Buckets     *mongo.Collection
	Projects    *mongo.Collection
	Tasks       *mongo.Collection
	Activities  *mongo.Collection
	Departments *mongo.Collection
	Positions   *mongo.Collection
	Roles       *mongo.Collection
	Status      *mongo.Collection
}

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s", uri)
	return client, nil
}

func NewCollections(db *mongo.Database) *Collections {
	return &Collections{
		DB:          db,
		Accounts:    db.Collection(CollectionAccounts),
		Buckets:     db.Collection(CollectionBuckets),
		Projects:    db.Collection(CollectionProjects),
		Tasks:       db.Collection(CollectionTasks),
		Activities:  db.Collection(CollectionActivities),
		Departments: db.Collection(models.CollectionDepartments),
		Positions:   db.Collection(models.CollectionPositions),
		Roles:       db.Collection(models.CollectionRoles),
		Status:      db.Collection(models.CollectionStatus),
	}
}

// Static returns the reference collection called name.
func (c *Collections) Static(name string) (*mongo.Collection, error) {
	switch name {
	case models.CollectionDepartments:
		return c.Departments, nil
	case models.CollectionPositions:
		return c.Positions, nil
	case models.CollectionRoles:
		return c.Roles, nil
	case models.CollectionStatus:
		return c.Status, nil
	}
	return nil, fmt.Errorf("unknown static collection %q", name)
}

// EnsureIndexes creates the indexes the queries rely on. It is idempotent.
func (c *Collections) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{c.Accounts, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{c.Buckets, mongo.IndexModel{Keys: bson.D{{Key: "owner", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{c.Tasks, mongo.IndexModel{Keys: bson.D{{Key: "project", Value: 1}}}},
		{c.Activities, mongo.IndexModel{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "timestamp", Value: -1}}}},
	}
	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.coll.Name(), err)
		}
	}
	logging.Logger.Info("Event ID: DB_INDEXES_READY, Description: Indexes created successfully")
	return nil
}
