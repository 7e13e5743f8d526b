package lldpreport

import "github.com/pkg/errors"

// bitLabel maps one bit of a capability mask to its label. Tables are walked
// in order, which fixes the order of the rendered list.
type bitLabel struct {
	bit   uint16
	label string
}

func maskLabels(mask uint16, table []bitLabel) []string {
	labels := []string{}
	for _, b := range table {
		if mask&b.bit != 0 {
			labels = append(labels, b.label)
		}
	}
	return labels
}

// System capabilities, IEEE 802.1AB-2009 section 8.5.8.1. Bit 0x01 ("Other")
// is not reported.
var systemCapabilities = []bitLabel{
	{0x0002, "Repeater"},
	{0x0004, "Bridge"},
	{0x0008, "WLAN"},
	{0x0010, "Router"},
	{0x0020, "Telephone"},
	{0x0040, "DOCSIS cable device"},
	{0x0080, "Station"},
	{0x0100, "C-Vlan"},
	{0x0200, "S-Vlan"},
	{0x0400, "TPMR"},
}

// PMD auto-negotiation advertised capability, BITS pseudo-type encoding
// (IEEE 802.1AB-2009 section 8.1 and Interpretation Request #1).
var pmdAutonegCapabilities = []bitLabel{
	{0x4000, "10BASE-T hdx"},
	{0x2000, "10BASE-T fdx"},
	{0x1000, "10BASE-T4"},
	{0x0800, "100Base-TX hdx"},
	{0x0400, "100BASE-TX fdx"},
	{0x0200, "100Base-T2 hdx"},
	{0x0100, "100BASE-T2 fdx"},
	{0x0080, "PAUSE fdx"},
	{0x0040, "Asymmetric PAUSE fdx"},
	{0x0020, "Symmetric PAUSE fdx"},
	{0x0010, "Asymmetric and Symmetric PAUSE fdx"},
	{0x0008, "1000Base-T hdx"},
	{0x0004, "1000BASE-T fdx"},
	{0x0002, "1000Base-T hdx"},
	{0x0001, "1000BASE-T fdx"},
}

// LLDP-MED capabilities, ANSI/TIA-1057 section 10.2.2.
var medCapabilities = []bitLabel{
	{0x20, "inventory"},
	{0x10, "extended power via MDI-PD"},
	{0x08, "extended power via MDI-PSE"},
	{0x04, "location"},
	{0x02, "network policy"},
	{0x01, "LLDP_MED capabilities"},
}

// Unmapped device type codes render as empty text.
var medDeviceTypes = map[byte]string{
	0: "Not defined",
	1: "Endpoint class I",
	2: "Endpoint class II",
	3: "Endpoint class III",
	4: "Network connectivity",
}

// MAU types, RFC 4836 dot3MauType.
var mauTypes = [...]string{
	"Unknown",
	"AUI",
	"10BASE - 5",
	"FOIRL",
	"10BASE - 2",
	"10BASE - T duplex mode unknown",
	"10BASE - FP",
	"10BASE - FB",
	"10BASE - FL duplex mode unknown",
	"10BROAD36",
	"10BASE - T half duplex",
	"10BASE - T full duplex",
	"10BASE - FL half duplex",
	"10BASE - FL full duplex",
	"100 BASE - T4",
	"100BASE - TX half duplex",
	"100BASE - TX full duplex",
	"100BASE - FX half duplex",
	"100BASE - FX full duplex",
	"100BASE - T2 half duplex",
	"100BASE - T2 full duplex",
	"1000BASE - X half duplex",
	"1000BASE - X full duplex",
	"1000BASE - LX half duplex",
	"1000BASE - LX full duplex",
	"1000BASE - SX half duplex",
	"1000BASE - SX full duplex",
	"1000BASE - CX half duplex",
	"1000BASE - CX full duplex",
	"1000BASE - T half duplex",
	"1000BASE - T full duplex",
	"10GBASE - X",
	"10GBASE - LX4",
	"10GBASE - R",
	"10GBASE - ER",
	"10GBASE - LR",
	"10GBASE - SR",
	"10GBASE - W",
	"10GBASE - EW",
	"10GBASE - LW",
	"10GBASE - SW",
	"10GBASE - CX4",
	"2BASE - TL",
	"10PASS - TS",
	"100BASE - BX10D",
	"100BASE - BX10U",
	"100BASE - LX10",
	"1000BASE - BX10D",
	"1000BASE - BX10U",
	"1000BASE - LX10",
	"1000BASE - PX10D",
	"1000BASE - PX10U",
	"1000BASE - PX20D",
	"1000BASE - PX20U",
}

func mauType(idx int) (string, error) {
	if idx < 0 || idx >= len(mauTypes) {
		return "", errors.Wrapf(ErrTableLookup, "MAU type %d not in table of %d entries", idx, len(mauTypes))
	}
	return mauTypes[idx], nil
}
