package models

import (
	"strings"
	"time"

	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
)

type ReleaseType string

const (
	ReleaseMinor ReleaseType = "Minor"
	ReleaseMajor ReleaseType = "Major"
)

// ParseReleaseType accepts "minor"/"major" in any case.
func ParseReleaseType(s string) (ReleaseType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minor":
		return ReleaseMinor, nil
	case "major":
		return ReleaseMajor, nil
	default:
		return "", dErrors.New(dErrors.CodeInvariantViolation, "release type must be Minor or Major")
	}
}

// Release is a published platform version. PolicyUpdated marks the release
// whose version became the terms-and-conditions version users must accept.
type Release struct {
	ID            id.ReleaseID     `json:"id"`
	Version       id.PolicyVersion `json:"version"`
	Type          ReleaseType      `json:"type"`
	ReleaseDate   time.Time        `json:"release_date"`
	Notes         string           `json:"notes,omitempty"`
	PolicyUpdated bool             `json:"policy_updated"`
	CreatedAt     time.Time        `json:"created_at"`
}

func NewRelease(releaseID id.ReleaseID, version id.PolicyVersion, releaseType ReleaseType, notes string, now time.Time) (*Release, error) {
	if releaseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "release id is required")
	}
	if version.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "version is required")
	}
	if releaseType != ReleaseMinor && releaseType != ReleaseMajor {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "release type must be Minor or Major")
	}
	return &Release{
		ID:          releaseID,
		Version:     version,
		Type:        releaseType,
		ReleaseDate: now,
		Notes:       strings.TrimSpace(notes),
		CreatedAt:   now,
	}, nil
}

// ApplyPolicyUpdate marks the release as carrying a policy change. Marking
// twice is a no-op.
func (r *Release) ApplyPolicyUpdate() {
	r.PolicyUpdated = true
}

// CreateReleaseRequest is the input of release creation.
type CreateReleaseRequest struct {
	Version string `json:"version"`
	Type    string `json:"type"`
	Notes   string `json:"notes,omitempty"`
}

// PolicyVersionResponse reports the version consent is checked against.
type PolicyVersionResponse struct {
	Version id.PolicyVersion `json:"version"`
	Source  string           `json:"source"`
}
