package bluetooth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/bluetooth"
)

func TestParseUUID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"180f", "0000180f-0000-1000-8000-00805f9b34fb"},
		{"0x2A19", "00002a19-0000-1000-8000-00805f9b34fb"},
		{"0000180F", "0000180f-0000-1000-8000-00805f9b34fb"},
		{"12345678", "12345678-0000-1000-8000-00805f9b34fb"},
		{" 6E400001-B5A3-F393-E0A9-E50E24DCCA9E ", "6e400001-b5a3-f393-e0a9-e50e24dcca9e"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := ParseUUID(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestParseUUIDMatchesHostStack(t *testing.T) {
	assert.Equal(t, bluetooth.New16BitUUID(0x180f), MustParseUUID("180f"))
	assert.Equal(t, bluetooth.New16BitUUID(0x2a19), MustParseUUID("0x2A19"))
	assert.Equal(t, bluetooth.New16BitUUID(0x180a), MustParseUUID("0000180A"))
	assert.True(t, MustParseUUID("2a19").Is16Bit())
	assert.Panics(t, func() { MustParseUUID("battery") })
}

func TestParseUUIDErrors(t *testing.T) {
	for _, in := range []string{"", "   ", "xyz1", "battery", "6e400001-b5a3-f393"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseUUID(in)
			assert.Error(t, err)
		})
	}
}

func TestLookupManufacturer(t *testing.T) {
	assert.Equal(t, "Apple", LookupManufacturer(0x004C))
	assert.Empty(t, LookupManufacturer(0xFFFF))
	assert.Equal(t, "EE:FF", addressSuffix("AA:BB:CC:DD:EE:FF"))
	assert.Equal(t, "nocolon", addressSuffix("nocolon"))
}
