package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "inProgress"
	StatusReview     = "review"
	StatusDone       = "done"
)

// Statuses lists every status a project or task can be in.
var Statuses = []string{StatusPending, StatusInProgress, StatusReview, StatusDone}

// IsStatus reports whether s is a known status.
func IsStatus(s string) bool {
	for _, status := range Statuses {
		if status == s {
			return true
		}
	}
	return false
}

type Project struct {
	ID          primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	Members     []Member             `json:"members" bson:"members"`
	Status      string               `json:"status" bson:"status"`
	Tasks       []primitive.ObjectID `json:"tasks" bson:"tasks"`
	Attachments []Attachment         `json:"attachments" bson:"attachments"`
	Done        bool                 `json:"done" bson:"done"`
	DoneTime    int64                `json:"doneTime,omitempty" bson:"doneTime,omitempty"`
	CreateTime  int64                `json:"createTime" bson:"createTime"`
}

// ProjectInput is the request body of a project creation.
type ProjectInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Members     MemberList `json:"members"`
	Status      string     `json:"status"`
}

// NewProject validates input and returns a project ready to insert.
func NewProject(in ProjectInput) (*Project, error) {
	name, err := CheckString(in.Name, "name")
	if err != nil {
		return nil, err
	}
	members, err := normalizeMembers(in.Members, true)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, &ValidationError{Field: "members", Reason: "must contain at least one member"}
	}
	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !IsStatus(status) {
		return nil, &ValidationError{Field: "status", Reason: "is not a known status"}
	}

	return &Project{
		Name:        name,
		Description: in.Description,
		Members:     members,
		Status:      status,
		Tasks:       []primitive.ObjectID{},
		Attachments: []Attachment{},
		CreateTime:  time.Now().UnixMilli(),
	}, nil
}

// MemberDetail is a project member joined with its account.
type MemberDetail struct {
	ID         primitive.ObjectID `json:"_id"`
	Role       Role               `json:"role"`
	FirstName  string             `json:"firstName"`
	LastName   string             `json:"lastName"`
	Email      string             `json:"email"`
	Avatar     *string            `json:"avatar"`
	Department string             `json:"department"`
	Position   string             `json:"position"`
}

// ProjectDetail is a project whose members carry account details.
type ProjectDetail struct {
	Project
	Members []MemberDetail `json:"members"`
}

// DoneCheck summarizes how far a project's tasks are from completion.
type DoneCheck struct {
	Done       bool  `json:"done"`
	Total      int64 `json:"total"`
	Unfinished int64 `json:"unfinished"`
}

// SearchResult groups the projects and tasks matching a search term.
type SearchResult struct {
	Projects []Project `json:"projects"`
	Tasks    []Task    `json:"tasks"`
}

// StatusStatistic counts items per status.
type StatusStatistic map[string]int64

// NewStatusStatistic returns a statistic with every known status at zero.
func NewStatusStatistic() StatusStatistic {
	s := make(StatusStatistic, len(Statuses))
	for _, status := range Statuses {
		s[status] = 0
	}
	return s
}
