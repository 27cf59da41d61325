package models

import (
	"net/mail"
	"strings"

	"taskoo-project/backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Account struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email      string             `json:"email" bson:"email"`
	Password   string             `json:"-" bson:"password"`
	FirstName  string             `json:"firstName" bson:"firstName"`
	LastName   string             `json:"lastName" bson:"lastName"`
	Department string             `json:"department" bson:"department"`
	Position   string             `json:"position" bson:"position"`
	Avatar     *string            `json:"avatar" bson:"avatar"`
	Disabled   bool               `json:"disabled" bson:"disabled"`
	Bucket     primitive.ObjectID `json:"bucket" bson:"bucket,omitempty"`
}

type AccountInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Department string
	Position   string
	Avatar     *string
	Disabled   bool
}

// NewAccount validates input; the password stays in plain text until HashPassword.
func NewAccount(in AccountInput) (*Account, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	if len(in.Password) < 6 {
		return nil, &ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	first, err := CheckString(in.FirstName, "firstName")
	if err != nil {
		return nil, err
	}
	last, err := CheckString(in.LastName, "lastName")
	if err != nil {
		return nil, err
	}
	department, err := CheckString(in.Department, "department")
	if err != nil {
		return nil, err
	}
	position, err := CheckString(in.Position, "position")
	if err != nil {
		return nil, err
	}

	return &Account{
		Email:      email,
		Password:   in.Password,
		FirstName:  first,
		LastName:   last,
		Department: department,
		Position:   position,
		Avatar:     in.Avatar,
		Disabled:   in.Disabled,
	}, nil
}

// HashPassword replaces the plain password with its bcrypt hash.
func (a *Account) HashPassword(cost int) error {
	hashed, err := utils.HashPassword(a.Password, cost)
	if err != nil {
		return err
	}
	a.Password = hashed
	return nil
}

// AccountInfo identifies the caller of a request.
type AccountInfo struct {
	ID       primitive.ObjectID `json:"_id"`
	Bucket   primitive.ObjectID `json:"bucket"`
	Position string             `json:"position"`
	Email    string             `json:"email"`
}

// Info returns the request identity of the account.
func (a *Account) Info() AccountInfo {
	return AccountInfo{ID: a.ID, Bucket: a.Bucket, Position: a.Position, Email: a.Email}
}
