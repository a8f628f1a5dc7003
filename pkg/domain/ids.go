package domain

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	dErrors "clms/pkg/domain-errors"
)

// Typed identifiers keep entry, type, release and publication ids from being
// passed where another kind is expected. Construct them with the Parse
// functions at trust boundaries.
type (
	EntryID       uuid.UUID
	TypeID        uuid.UUID
	ReleaseID     uuid.UUID
	PublicationID uuid.UUID
)

// GraphID identifies a knowledge graph. Graph ids are authored by curriculum
// teams (e.g. "g1", "cbse-grade-6"), so they are free-form rather than UUIDs.
type GraphID string

// UserID is the subject of the bearer token that authenticated the request.
type UserID string

const maxGraphIDLength = 128

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return u, nil
}

func ParseEntryID(s string) (EntryID, error) {
	u, err := parseUUID(s, "entry id")
	return EntryID(u), err
}

func ParseTypeID(s string) (TypeID, error) {
	u, err := parseUUID(s, "type id")
	return TypeID(u), err
}

func ParseReleaseID(s string) (ReleaseID, error) {
	u, err := parseUUID(s, "release id")
	return ReleaseID(u), err
}

func ParsePublicationID(s string) (PublicationID, error) {
	u, err := parseUUID(s, "publication id")
	return PublicationID(u), err
}

// ParseGraphID trims and validates an authored graph id. Only letters, digits,
// '-', '_' and '.' are accepted.
func ParseGraphID(s string) (GraphID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "graph id is required")
	}
	if len(s) > maxGraphIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "graph id is too long")
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.') {
			return "", dErrors.New(dErrors.CodeInvalidInput, "invalid graph id")
		}
	}
	return GraphID(s), nil
}

func ParseUserID(s string) (UserID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	return UserID(s), nil
}

func (id EntryID) String() string       { return uuid.UUID(id).String() }
func (id TypeID) String() string        { return uuid.UUID(id).String() }
func (id ReleaseID) String() string     { return uuid.UUID(id).String() }
func (id PublicationID) String() string { return uuid.UUID(id).String() }
func (id GraphID) String() string       { return string(id) }
func (id UserID) String() string        { return string(id) }

func (id EntryID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id TypeID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id ReleaseID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id PublicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id GraphID) IsNil() bool       { return id == "" }
func (id UserID) IsNil() bool        { return id == "" }

func (id EntryID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id TypeID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id ReleaseID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id PublicationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *EntryID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = EntryID(u)
	return nil
}

func (id *TypeID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = TypeID(u)
	return nil
}

func (id *ReleaseID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = ReleaseID(u)
	return nil
}

func (id *PublicationID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = PublicationID(u)
	return nil
}
