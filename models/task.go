package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Task struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Project     primitive.ObjectID `json:"project" bson:"project"`
	Members     []Member           `json:"members" bson:"members"`
	DueTime     int64              `json:"dueTime" bson:"dueTime"`
	Status      string             `json:"status" bson:"status"`
	Attachments []Attachment       `json:"attachments" bson:"attachments"`
	CreateTime  int64              `json:"createTime" bson:"createTime"`
}

// Millis is a Unix millisecond timestamp that also decodes from numeric or RFC 3339 strings.
type Millis int64

func (m *Millis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	if len(data) > 0 && data[0] != '"' {
		var n int64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*m = Millis(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*m = Millis(n)
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return &ValidationError{Field: "dueTime", Reason: "must be a millisecond timestamp or an RFC 3339 time"}
	}
	*m = Millis(t.UnixMilli())
	return nil
}

// TaskInput is the request body of a task creation.
type TaskInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Project     string     `json:"project"`
	Members     MemberList `json:"members"`
	DueTime     Millis     `json:"dueTime"`
	Status      string     `json:"status"`
}

// NewTask validates input and returns a task ready to insert.
func NewTask(in TaskInput) (*Task, error) {
	name, err := CheckString(in.Name, "name")
	if err != nil {
		return nil, err
	}
	project, err := CheckID(in.Project, "project")
	if err != nil {
		return nil, err
	}
	members, err := normalizeMembers(in.Members, false)
	if err != nil {
		return nil, err
	}
	if in.DueTime <= 0 {
		return nil, &ValidationError{Field: "dueTime", Reason: "is required"}
	}
	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !IsStatus(status) {
		return nil, &ValidationError{Field: "status", Reason: "is not a known status"}
	}

	return &Task{
		Name:        name,
		Description: in.Description,
		Project:     project,
		Members:     members,
		DueTime:     int64(in.DueTime),
		Status:      status,
		Attachments: []Attachment{},
		CreateTime:  time.Now().UnixMilli(),
	}, nil
}

// FilterTodo keeps the tasks that are not done, preserving order.
func FilterTodo(tasks []Task) []Task {
	todo := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != StatusDone {
			todo = append(todo, t)
		}
	}
	return todo
}
