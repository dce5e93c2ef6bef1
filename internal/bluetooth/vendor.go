package bluetooth

import "strings"

// LookupManufacturer returns a short vendor name for a Bluetooth SIG company
// identifier, or "" when the company is not in the table.
// See: https://www.bluetooth.com/specifications/assigned-numbers/
func LookupManufacturer(companyID uint16) string {
	return vendors[companyID]
}

// addressSuffix returns the last two octets of an address ("EE:FF"), used to
// tell apart unnamed devices of the same vendor.
func addressSuffix(addr string) string {
	parts := strings.Split(addr, ":")
	if len(parts) < 2 {
		return addr
	}
	return strings.Join(parts[len(parts)-2:], ":")
}

var vendors = map[uint16]string{
	0x0002: "Intel",
	0x0006: "Microsoft",
	0x000D: "Texas Inst.",
	0x000F: "Broadcom",
	0x004C: "Apple",
	0x0059: "Nordic",
	0x0075: "Samsung",
	0x00E0: "Google",
	0x0171: "Amazon",
	0x02E5: "Espressif",
	0x0499: "Ruuvi",
}
