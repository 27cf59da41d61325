package models

import (
	"bytes"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ManagerRoleID     = "584b21b7-57b5-4394-825c-f488c53c7d51"
	ManagerRoleName   = "Manager"
	ManagerPositionID = "01bcb711-f5c4-44bc-a0fe-949b1a4e1273"
)

type Role struct {
	ID   string `json:"_id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}

// ManagerRole is the role given to the account that creates a project.
func ManagerRole() Role {
	return Role{ID: ManagerRoleID, Name: ManagerRoleName}
}

type Member struct {
	ID   primitive.ObjectID `json:"_id" bson:"_id"`
	Role Role               `json:"role" bson:"role"`
}

// MemberList decodes from either a single member object or an array of members.
type MemberList []Member

func (l *MemberList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = MemberList{}
		return nil
	}
	if data[0] == '[' {
		var members []Member
		if err := json.Unmarshal(data, &members); err != nil {
			return err
		}
		*l = members
		return nil
	}
	var m Member
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*l = MemberList{m}
	return nil
}

// WithCreator puts creator first with the Manager role.
func WithCreator(members MemberList, creator primitive.ObjectID) MemberList {
	out := make(MemberList, 0, len(members)+1)
	out = append(out, Member{ID: creator, Role: ManagerRole()})
	return append(out, members...)
}

// normalizeMembers validates each member and drops repeated accounts, keeping the first.
func normalizeMembers(members MemberList, requireRole bool) ([]Member, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(members))
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if m.ID.IsZero() {
			return nil, &ValidationError{Field: "members._id", Reason: "is required"}
		}
		if requireRole && m.Role.ID == "" {
			return nil, &ValidationError{Field: "members.role._id", Reason: "is required"}
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}

// MemberIDs lists the account ids of members in order.
func MemberIDs(members []Member) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	return ids
}
