package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityType string

const (
	ActivityCreateProject  ActivityType = "CreateProject"
	ActivityCreateTask     ActivityType = "CreateTask"
	ActivityDeleteTask     ActivityType = "DeleteTask"
	ActivityAddAttachment  ActivityType = "AddAttachment"
	ActivitySetDone        ActivityType = "SetDone"
	ActivityAddFavorite    ActivityType = "AddFavorite"
	ActivityRemoveFavorite ActivityType = "RemoveFavorite"
)

type ProjectActivity struct {
	ID           primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	ProjectID    primitive.ObjectID  `json:"projectId" bson:"projectId"`
	ActivityType ActivityType        `json:"activityType" bson:"activityType"`
	TaskID       *primitive.ObjectID `json:"taskId,omitempty" bson:"taskId,omitempty"`
	AccountID    *primitive.ObjectID `json:"accountId,omitempty" bson:"accountId,omitempty"`
	Timestamp    time.Time           `json:"timestamp" bson:"timestamp"`
	Details      string              `json:"details" bson:"details"`
}
