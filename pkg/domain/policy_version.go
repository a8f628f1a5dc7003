package domain

import (
	"regexp"
	"strings"

	dErrors "clms/pkg/domain-errors"
)

// PolicyVersion is the textual version a release is published under, e.g.
// "v2.0.0". It is validated on release creation but compared as an opaque
// string everywhere else: any change of the canonical string is a new policy.
type PolicyVersion string

var policyVersionPattern = regexp.MustCompile(`^v\d+\.\d+\.\d+$`)

// ParsePolicyVersion validates the vMAJOR.MINOR.PATCH convention.
func ParsePolicyVersion(s string) (PolicyVersion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "version is required")
	}
	if !policyVersionPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "version must look like vMAJOR.MINOR.PATCH")
	}
	return PolicyVersion(s), nil
}

func (v PolicyVersion) String() string {
	return string(v)
}

func (v PolicyVersion) IsNil() bool {
	return v == ""
}
