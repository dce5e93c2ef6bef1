package connection

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Reading is the value of one characteristic read.
type Reading struct {
	Raw  []byte
	Text string // UTF-8 decoding of Raw, invalid sequences replaced by U+FFFD
}

// NewReading decodes a raw characteristic value.
func NewReading(raw []byte) Reading {
	text, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		text = []byte(strings.ToValidUTF8(string(raw), "�"))
	}
	return Reading{Raw: raw, Text: string(text)}
}

// String renders the value the way the detail panel shows it: a single byte
// as its decimal value, anything else as text followed by the raw bytes.
func (r Reading) String() string {
	if len(r.Raw) == 1 {
		return strconv.Itoa(int(r.Raw[0])) + " (single byte)"
	}
	return r.Text + " (raw: " + FormatBytes(r.Raw) + ")"
}

// FormatBytes renders bytes as space separated decimal values.
func FormatBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, " ")
}
