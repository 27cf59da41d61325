package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPageNum  = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ValidationError marks input that failed a shape check; handlers answer it with 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// CheckID parses a hex ObjectID named field.
func CheckID(id, field string) (primitive.ObjectID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return primitive.NilObjectID, &ValidationError{Field: field, Reason: "is required"}
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &ValidationError{Field: field, Reason: fmt.Sprintf("is not a valid ObjectId: %q", id)}
	}
	return oid, nil
}

// CheckString trims s and rejects it when empty.
func CheckString(s, field string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Field: field, Reason: "must be a non-empty string"}
	}
	return s, nil
}

// Page is a 1-based page request.
type Page struct {
	Num  int `json:"pageNum"`
	Size int `json:"pageSize"`
}

// ParsePage reads pageNum and pageSize query values, applying defaults for empty ones.
func ParsePage(num, size string) (Page, error) {
	p := Page{Num: DefaultPageNum, Size: DefaultPageSize}
	if num != "" {
		n, err := strconv.Atoi(num)
		if err != nil || n < 1 {
			return Page{}, &ValidationError{Field: "pageNum", Reason: "must be a positive integer"}
		}
		p.Num = n
	}
	if size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 1 || n > MaxPageSize {
			return Page{}, &ValidationError{Field: "pageSize", Reason: fmt.Sprintf("must be an integer between 1 and %d", MaxPageSize)}
		}
		p.Size = n
	}
	return p, nil
}

// Skip is the number of items before the page.
func (p Page) Skip() int {
	return (p.Num - 1) * p.Size
}

// Bounds returns the [start, end) window of the page over total items, clamped.
func (p Page) Bounds(total int) (int, int) {
	start := p.Skip()
	if start > total {
		start = total
	}
	end := start + p.Size
	if end > total {
		end = total
	}
	return start, end
}

// Paginate returns the page's slice of items, never nil.
func Paginate[T any](items []T, p Page) []T {
	start, end := p.Bounds(len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// PageResult is a page of list items with the total count before paging.
type PageResult[T any] struct {
	Total int64 `json:"total"`
	List  []T   `json:"list"`
}
