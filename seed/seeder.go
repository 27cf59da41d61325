package seed

import (
	"context"
	"fmt"

	"taskoo-project/backend/logging"
	"taskoo-project/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// Store is where a plan is written.
type Store interface {
	Drop(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error
	InsertStatic(ctx context.Context, collection string, entries []models.StaticEntry) error
	InsertAccounts(ctx context.Context, accounts []*models.Account) error
	InsertBuckets(ctx context.Context, buckets []*models.Bucket) error
	CreateProject(ctx context.Context, p *models.Project) error
	CreateTask(ctx context.Context, t *models.Task, bucketID primitive.ObjectID) error
}

type Seeder struct {
	store   Store
	cost    int
	workers int
}

// NewSeeder hashes passwords with the bcrypt cost using up to workers goroutines.
func NewSeeder(store Store, cost, workers int) *Seeder {
	if workers < 1 {
		workers = 1
	}
	return &Seeder{store: store, cost: cost, workers: workers}
}

// Run empties the database and writes plan. Any failure empties the database again.
func (s *Seeder) Run(ctx context.Context, plan *Plan) error {
	logging.Logger.Info("Event ID: SEED_START, Description: Running seeds, this may take a moment...")

	if err := s.store.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}
	if err := s.populate(ctx, plan); err != nil {
		logging.Logger.Errorf("Event ID: SEED_FAILED, Description: %v", err)
		if dropErr := s.store.Drop(context.Background()); dropErr != nil {
			logging.Logger.Errorf("Event ID: SEED_CLEANUP_FAILED, Description: Failed to drop database: %v", dropErr)
		}
		return err
	}

	logging.Logger.Infof("Event ID: SEED_DONE, Description: Seeded %d accounts, %d projects and %d tasks",
		len(plan.Accounts), len(plan.Projects), len(plan.Tasks))
	return nil
}

func (s *Seeder) populate(ctx context.Context, plan *Plan) error {
	if err := s.store.EnsureIndexes(ctx); err != nil {
		return err
	}
	for _, name := range models.StaticCollections {
		if err := s.store.InsertStatic(ctx, name, plan.Static[name]); err != nil {
			return fmt.Errorf("failed to insert %s: %w", name, err)
		}
	}

	if err := s.hashPasswords(ctx, plan.Accounts); err != nil {
		return err
	}
	if err := s.store.InsertAccounts(ctx, plan.Accounts); err != nil {
		return fmt.Errorf("failed to insert accounts: %w", err)
	}
	if err := s.store.InsertBuckets(ctx, plan.Buckets); err != nil {
		return fmt.Errorf("failed to insert buckets: %w", err)
	}

	for _, p := range plan.Projects {
		if err := s.store.CreateProject(ctx, p); err != nil {
			return err
		}
	}
	for _, t := range plan.Tasks {
		if err := s.store.CreateTask(ctx, t.Task, t.Bucket); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) hashPasswords(ctx context.Context, accounts []*models.Account) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, a := range accounts {
		a := a
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := a.HashPassword(s.cost); err != nil {
				return fmt.Errorf("failed to hash password of %s: %w", a.Email, err)
			}
			return nil
		})
	}
	return g.Wait()
}
