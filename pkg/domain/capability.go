package domain

import (
	pstrings "clms/pkg/platform/strings"
)

// Capability is a single permission checked by route middleware.
type Capability string

const (
	CapabilityGraphsWrite       Capability = "graphs:write"
	CapabilityMasterDataWrite   Capability = "masterdata:write"
	CapabilityMasterDataPublish Capability = "masterdata:publish"
	CapabilityReleasesManage    Capability = "releases:manage"
)

// Role is a coarse grant carried in the bearer token.
type Role string

const (
	RoleAdmin     Role = "admin"
	RolePublisher Role = "publisher"
	RoleEditor    Role = "editor"
	RoleViewer    Role = "viewer"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {
		CapabilityGraphsWrite,
		CapabilityMasterDataWrite,
		CapabilityMasterDataPublish,
		CapabilityReleasesManage,
	},
	RolePublisher: {CapabilityMasterDataWrite, CapabilityMasterDataPublish},
	RoleEditor:    {CapabilityGraphsWrite, CapabilityMasterDataWrite},
	RoleViewer:    nil,
}

// Capabilities is the resolved permission set for one session.
type Capabilities map[Capability]struct{}

// ResolveCapabilities unions the grants of every known role. Role names are
// matched case-insensitively; unknown roles grant nothing.
func ResolveCapabilities(roles []string) Capabilities {
	caps := Capabilities{}
	for _, r := range pstrings.DedupeAndTrimLower(roles) {
		for _, c := range roleCapabilities[Role(r)] {
			caps[c] = struct{}{}
		}
	}
	return caps
}

// Has reports whether the set grants c.
func (c Capabilities) Has(capability Capability) bool {
	_, ok := c[capability]
	return ok
}

// IsKnownRole reports whether role names one of the grants above.
func IsKnownRole(role string) bool {
	_, ok := roleCapabilities[Role(role)]
	return ok
}
