package models

import (
	"github.com/google/uuid"
)

// Static reference collections.
const (
	CollectionDepartments = "departments"
	CollectionPositions   = "positions"
	CollectionRoles       = "roles"
	CollectionStatus      = "status"
)

// StaticCollections is the order the reference collections are seeded in.
var StaticCollections = []string{CollectionDepartments, CollectionPositions, CollectionRoles, CollectionStatus}

// StaticEntry is a row of a reference collection. Positions also carry permissions.
type StaticEntry struct {
	ID          string   `json:"_id" bson:"_id"`
	Name        string   `json:"name" bson:"name"`
	Permissions []string `json:"permissions,omitempty" bson:"permissions,omitempty"`
}

// NewStaticEntry validates e and assigns a UUID when it has no id.
func NewStaticEntry(e StaticEntry) (*StaticEntry, error) {
	name, err := CheckString(e.Name, "name")
	if err != nil {
		return nil, err
	}
	id := e.ID
	if id == "" {
		id = uuid.New().String()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, &ValidationError{Field: "_id", Reason: "is not a valid UUID"}
	}
	return &StaticEntry{ID: id, Name: name, Permissions: e.Permissions}, nil
}

// HasPermission reports whether the entry grants permission.
func (e *StaticEntry) HasPermission(permission string) bool {
	for _, p := range e.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
