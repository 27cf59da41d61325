package services

import (
	"context"
	"testing"

	"taskoo-project/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestSearch(t *testing.T) {
	mt := newMock(t)

	mt.Run("blank term", func(mt *mtest.T) {
		s := NewCoreService(mt.DB.Collection("projects"), mt.DB.Collection("tasks"), mt.DB.Collection("buckets"))

		result, err := s.Search(context.Background(), "   ", primitive.NewObjectID())
		require.NoError(mt, err)
		assert.Empty(mt, result.Projects)
		assert.Empty(mt, result.Tasks)
	})

	mt.Run("projects and tasks of the bucket", func(mt *mtest.T) {
		project := testProject()
		task := testTask(project.ID, models.StatusPending)
		bucket := models.Bucket{ID: primitive.NewObjectID(), Projects: []primitive.ObjectID{project.ID}, Tasks: []primitive.ObjectID{task.ID}}
		mt.AddMockResponses(
			cursorOf(toDoc(mt, bucket)),
			cursorOf(toDoc(mt, project)),
			cursorOf(toDoc(mt, task)),
		)
		s := NewCoreService(mt.DB.Collection("projects"), mt.DB.Collection("tasks"), mt.DB.Collection("buckets"))

		result, err := s.Search(context.Background(), "web.site(", bucket.ID)
		require.NoError(mt, err)
		require.Len(mt, result.Projects, 1)
		require.Len(mt, result.Tasks, 1)
		assert.Equal(mt, task.ID, result.Tasks[0].ID)
	})

	mt.Run("empty bucket", func(mt *mtest.T) {
		bucket := models.Bucket{ID: primitive.NewObjectID()}
		mt.AddMockResponses(cursorOf(toDoc(mt, bucket)))
		s := NewCoreService(mt.DB.Collection("projects"), mt.DB.Collection("tasks"), mt.DB.Collection("buckets"))

		result, err := s.Search(context.Background(), "anything", bucket.ID)
		require.NoError(mt, err)
		assert.NotNil(mt, result.Projects)
		assert.Empty(mt, result.Tasks)
	})
}
