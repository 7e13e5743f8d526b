package lldpreport

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"github.com/google/gopacket/layers"
	"github.com/pkg/errors"
)

// Organizationally unique identifiers with decoders. The 802.1, 802.3 and
// LLDP-MED OUIs come from gopacket; Juniper is the vendor example.
const (
	ouiIEEE8021 = layers.IEEEOUI8021
	ouiIEEE8023 = layers.IEEEOUI8023
	ouiMED      = layers.IEEEOUIMedia
	ouiJuniper  = layers.IEEEOUI(0x009069)
)

// IEEE 802.1 subtypes, Annex E of IEEE Std 802.1AB-2009.
const (
	dot1PortVLANID       uint8 = 1
	dot1VLANName         uint8 = 3
	dot1ProtocolIdentity uint8 = 4
	dot1ManagementVID    uint8 = 6
	dot1LinkAggregation  uint8 = 7
)

// IEEE 802.3 subtypes, Annex F of IEEE Std 802.1AB-2009.
const (
	dot3MACPHYConfigStatus uint8 = 1
	// Deprecated in favour of the 802.1 TLV but still sent by switches.
	dot3LinkAggregation uint8 = 3
	dot3MTU             uint8 = 4
)

const (
	medCapabilitiesSubtype uint8 = 1
	juniperChassisSubtype  uint8 = 1
)

// tlvHandler decodes one TLV value into the attributes it contributes. A
// handler either returns all of its attributes or an error.
type tlvHandler func(b []byte) ([]Attribute, error)

type orgKey struct {
	oui     layers.IEEEOUI
	subtype uint8
}

var orgHandlers = map[orgKey]tlvHandler{
	{ouiIEEE8021, dot1PortVLANID}:         decodeUint16(KindPortVLANID),
	{ouiIEEE8021, dot1VLANName}:           decodeVLANName,
	{ouiIEEE8021, dot1ProtocolIdentity}:   decodeProtocolIdentity,
	{ouiIEEE8021, dot1ManagementVID}:      decodeUint16(KindManagementVLANID),
	{ouiIEEE8021, dot1LinkAggregation}:    decodeLinkAggregation,
	{ouiIEEE8023, dot3MACPHYConfigStatus}: decodeMACPHYConfigStatus,
	{ouiIEEE8023, dot3LinkAggregation}:    decodeLinkAggregation,
	{ouiIEEE8023, dot3MTU}:                decodeUint16(KindMTU),
	{ouiMED, medCapabilitiesSubtype}:      decodeMEDCapabilities,
	{ouiJuniper, juniperChassisSubtype}:   decodeText(KindVendorChassisID),
}

var ouiNames = map[layers.IEEEOUI]string{
	ouiIEEE8021: "802.1",
	ouiIEEE8023: "802.3",
	ouiMED:      "LLDP_MED",
	ouiJuniper:  "Juniper",
}

func need(b []byte, n int) error {
	if len(b) < n {
		return errors.Wrapf(ErrTruncated, "need %d bytes, got %d", n, len(b))
	}
	return nil
}

func single(k Kind, text string) []Attribute {
	return []Attribute{{Kind: k, Text: text}}
}

func decodeText(k Kind) tlvHandler {
	return func(b []byte) ([]Attribute, error) {
		s, err := utf8Text(b)
		if err != nil {
			return nil, err
		}
		return single(k, s), nil
	}
}

func decodeUint16(k Kind) tlvHandler {
	return func(b []byte) ([]Attribute, error) {
		if err := need(b, 2); err != nil {
			return nil, err
		}
		return single(k, fmt.Sprintf("%d", binary.BigEndian.Uint16(b))), nil
	}
}

// Chassis ID: subtype byte, then the ID. MAC addresses are formatted, every
// other subtype is treated as text.
func decodeChassisID(b []byte) ([]Attribute, error) {
	if err := need(b, 1); err != nil {
		return nil, err
	}
	if layers.LLDPChassisIDSubType(b[0]) == layers.LLDPChassisIDSubTypeMACAddr {
		return single(KindChassisID, formatMAC(b[1:])), nil
	}
	return decodeText(KindChassisID)(b[1:])
}

// Port ID: subtype byte, then the ID.
func decodePortID(b []byte) ([]Attribute, error) {
	if err := need(b, 1); err != nil {
		return nil, err
	}
	switch layers.LLDPPortIDSubType(b[0]) {
	case layers.LLDPPortIDSubtypeMACAddr:
		return single(KindPortID, formatMAC(b[1:])), nil
	case layers.LLDPPortIDSubtypeNetworkAddr:
		// The address family byte is not interpreted; the remaining bytes
		// must be a bare IPv4 or IPv6 address.
		addr, ok := netip.AddrFromSlice(b[1:])
		if !ok {
			return nil, errors.Wrapf(ErrMalformedValue, "network address of %d bytes", len(b)-1)
		}
		return single(KindPortID, addr.String()), nil
	default:
		return decodeText(KindPortID)(b[1:])
	}
}

// System capabilities: 2 bytes of supported capabilities followed by 2 bytes
// of enabled capabilities. Only the supported set is reported.
func decodeSystemCapabilities(b []byte) ([]Attribute, error) {
	if err := need(b, 2); err != nil {
		return nil, err
	}
	mask := binary.BigEndian.Uint16(b[0:2])
	return []Attribute{{Kind: KindSystemCapabilities, List: maskLabels(mask, systemCapabilities)}}, nil
}

// lengthPrefixed returns the n bytes following the length byte at b[0].
func lengthPrefixed(b []byte) ([]byte, error) {
	n := int(b[0])
	if len(b)-1 < n {
		return nil, errors.Wrapf(ErrTruncated, "length byte says %d, %d bytes left", n, len(b)-1)
	}
	return b[1 : 1+n], nil
}

// VLAN name: 2 byte VLAN ID, 1 byte name length, name.
func decodeVLANName(b []byte) ([]Attribute, error) {
	if err := need(b, 3); err != nil {
		return nil, err
	}
	id := binary.BigEndian.Uint16(b[0:2])
	raw, err := lengthPrefixed(b[2:])
	if err != nil {
		return nil, err
	}
	name, err := utf8Text(raw)
	if err != nil {
		return nil, err
	}
	return single(KindVLANName, fmt.Sprintf("%s (%d)", name, id)), nil
}

// Protocol identity: 1 byte length, protocol identity bytes.
func decodeProtocolIdentity(b []byte) ([]Attribute, error) {
	if err := need(b, 1); err != nil {
		return nil, err
	}
	raw, err := lengthPrefixed(b)
	if err != nil {
		return nil, err
	}
	return decodeText(KindProtocolIdentity)(raw)
}

// Link aggregation: status byte (bit 0 capability, bit 1 status) followed by
// the aggregated port ID. Only the low 24 bits of the port ID are read.
func decodeLinkAggregation(b []byte) ([]Attribute, error) {
	if err := need(b, 4); err != nil {
		return nil, err
	}
	id := uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	return []Attribute{
		{Kind: KindLinkAggregationSupport, Text: formatBool(b[0]&0x01 != 0)},
		{Kind: KindLinkAggregationEnabled, Text: formatBool(b[0]&0x02 != 0)},
		{Kind: KindLinkAggregationID, Text: fmt.Sprintf("%d", id)},
	}, nil
}

// MAC/PHY configuration/status: auto-negotiation byte, 2 byte PMD capability
// mask, MAU type. The MAU type is 16 bits on the wire; a 4-byte value carries
// only its low byte.
func decodeMACPHYConfigStatus(b []byte) ([]Attribute, error) {
	if err := need(b, 4); err != nil {
		return nil, err
	}
	idx := int(b[3])
	if len(b) >= 5 {
		idx = int(binary.BigEndian.Uint16(b[3:5]))
	}
	mau, err := mauType(idx)
	if err != nil {
		return nil, err
	}
	return []Attribute{
		{Kind: KindAutonegSupport, Text: formatBool(b[0]&0x01 != 0)},
		{Kind: KindAutonegEnabled, Text: formatBool(b[0]&0x02 != 0)},
		{Kind: KindPhysicalCapabilities, List: maskLabels(binary.BigEndian.Uint16(b[1:3]), pmdAutonegCapabilities)},
		{Kind: KindMAUType, Text: mau},
	}, nil
}

// LLDP-MED capabilities: 2 byte capability mask (only the low 6 bits are
// defined), device type byte.
func decodeMEDCapabilities(b []byte) ([]Attribute, error) {
	if err := need(b, 3); err != nil {
		return nil, err
	}
	return []Attribute{
		{Kind: KindMEDCapabilities, List: maskLabels(uint16(b[1]), medCapabilities)},
		{Kind: KindMEDDeviceType, Text: medDeviceTypes[b[2]]},
	}, nil
}

// decodeOrgSpecific splits an organizationally specific TLV into OUI,
// subtype and information string and hands the latter to the matching
// handler.
func decodeOrgSpecific(b []byte, tlvErr *TLVError) ([]Attribute, error) {
	if err := need(b, 4); err != nil {
		return nil, err
	}
	oui := layers.IEEEOUI(uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]))
	subtype := b[3]
	tlvErr.OUI = fmt.Sprintf("%06x", uint32(oui))
	tlvErr.Subtype = int(subtype)

	h, ok := orgHandlers[orgKey{oui, subtype}]
	if !ok {
		if name, known := ouiNames[oui]; known {
			return nil, errors.Wrapf(ErrUnrecognizedSubtype, "unexpected %s subtype %d", name, subtype)
		}
		return nil, errors.Wrapf(ErrUnrecognizedSubtype, "unknown OUI %s", tlvErr.OUI)
	}
	return h(b[4:])
}
