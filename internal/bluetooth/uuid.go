package bluetooth

import (
	"fmt"
	"strings"

	"tinygo.org/x/bluetooth"
)

// UUID identifies a GATT service or characteristic.
type UUID = bluetooth.UUID

// ParseUUID parses a service or characteristic identifier. It accepts the
// canonical 128-bit form and the 16/32-bit short forms ("180f", "0x2A19",
// "0000180F"), which are expanded on the Bluetooth base UUID.
func ParseUUID(s string) (UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return UUID{}, fmt.Errorf("empty uuid")
	}
	if len(s) == 6 || len(s) == 10 {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	}

	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid uuid %q: %w", s, err)
	}
	return u, nil
}

// MustParseUUID is like ParseUUID but panics on error.
func MustParseUUID(s string) UUID {
	u, err := ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}
