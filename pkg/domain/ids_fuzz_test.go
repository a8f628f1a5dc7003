//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseEntryID tests that parsing never panics on arbitrary input
// and always returns either a valid ID or an error.
func FuzzParseEntryID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE master_data_entries;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseEntryID(input)
		if err == nil {
			roundTrip, err2 := ParseEntryID(id.String())
			if err2 != nil {
				t.Errorf("Valid ID failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("Round-trip changed ID value")
			}
		}
		if !utf8.ValidString(input) && err == nil {
			t.Error("Non-UTF8 input was accepted")
		}
	})
}

// FuzzParseGraphID checks that accepted graph ids are stable under re-parsing.
func FuzzParseGraphID(f *testing.F) {
	f.Add("g1")
	f.Add("")
	f.Add("../g1")
	f.Add(" cbse-grade-6 ")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseGraphID(input)
		if err != nil {
			return
		}
		again, err := ParseGraphID(id.String())
		if err != nil || again != id {
			t.Errorf("graph id %q not stable: %q, %v", id, again, err)
		}
	})
}
