package services

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrNotInBucket        = errors.New("project is not in your bucket")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrNoFiles            = errors.New("no files uploaded")
)

// notFound converts a missing document into ErrNotFound naming what was looked up.
func notFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to fetch %s: %w", what, err)
}
