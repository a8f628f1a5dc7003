package models

import (
	"strings"
	"time"

	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
)

// Type classifies entries (e.g. "skill", "state", "question_type").
type Type struct {
	ID          id.TypeID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewType(typeID id.TypeID, name, description string, now time.Time) (*Type, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "type name cannot be empty")
	}
	if len(name) > 64 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "type name must be 64 characters or less")
	}
	return &Type{
		ID:          typeID,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
	}, nil
}
