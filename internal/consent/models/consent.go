package models

import (
	"time"

	id "clms/pkg/domain"
)

// AcceptedAtLayout is the persisted acceptance timestamp format: UTC with
// millisecond precision, space separated.
const AcceptedAtLayout = "2006-01-02 15:04:05.000"

// Record is the persisted consent state of one user. Both fields are null
// until the user accepts a policy version.
type Record struct {
	LastAcceptedVersion *string `json:"lastAcceptedVersion"`
	AcceptedAt          *string `json:"acceptedAt"`
}

// NewAcceptance records acceptance of version at now.
func NewAcceptance(version id.PolicyVersion, now time.Time) Record {
	v := version.String()
	at := now.UTC().Format(AcceptedAtLayout)
	return Record{LastAcceptedVersion: &v, AcceptedAt: &at}
}

// NeedsConsent reports whether the user must (re)accept. A missing record, a
// record without a version, or any version string other than current all
// require consent.
func (r *Record) NeedsConsent(current id.PolicyVersion) bool {
	if r == nil || r.LastAcceptedVersion == nil {
		return true
	}
	return *r.LastAcceptedVersion != current.String()
}

// Status is what the consent prompt needs to decide whether to show itself.
type Status struct {
	UserID         id.UserID        `json:"user_id"`
	CurrentVersion id.PolicyVersion `json:"current_version"`
	NeedsConsent   bool             `json:"needs_consent"`
	Record         *Record          `json:"record"`
}
