// type.go defines the core data structures used by the lldpreport decoder.
//
// An Interface carries the raw LLDP TLVs recorded for one NIC of a bare-metal
// node, exactly as the introspection inventory delivers them. Decoding turns
// it into an InterfaceReport: an ordered list of Attributes, each tagged with
// a Kind that fixes its report field name and human label.
package lldpreport

import (
	"strings"

	"github.com/google/gopacket/layers"
)

// HexTLV is one [tlv_type, tlv_value] pair from the inventory, with the value
// still hex encoded.
type HexTLV struct {
	Type  int
	Value string
}

// RawTLV is a TLV whose value has been hex decoded.
type RawTLV struct {
	Type  layers.LLDPTLVType
	Value []byte
}

// Interface is a single NIC as reported by introspection.
type Interface struct {
	// Name is the kernel interface name on the node (e.g. "eth0").
	Name string

	// MACAddress is the NIC's own hardware address. It is reported as-is and
	// never derived from an LLDP TLV.
	MACAddress string

	// TLVs holds the LLDP records in the order they were captured. A nil
	// slice means the interface had no LLDP data.
	TLVs []HexTLV
}

// Node groups the interfaces of one bare-metal node.
type Node struct {
	UUID       string
	Interfaces []Interface
}

// Kind tags a decoded Attribute. The set is closed: every attribute the
// decoder can produce has exactly one Kind.
type Kind int

const (
	KindInterfaceMAC Kind = iota
	KindChassisID
	KindPortID
	KindPortDescription
	KindSystemName
	KindSystemDescription
	KindSystemCapabilities
	// KindManagementAddress reports under switch_management_address, a field
	// name only this tool emits. Consumers keyed on the established field
	// names will not know it.
	KindManagementAddress
	KindPortVLANID
	KindVLANName
	KindVLANNameList
	KindProtocolIdentity
	KindManagementVLANID
	KindLinkAggregationSupport
	KindLinkAggregationEnabled
	KindLinkAggregationID
	KindAutonegSupport
	KindAutonegEnabled
	KindPhysicalCapabilities
	KindMAUType
	KindMTU
	KindMEDCapabilities
	KindMEDDeviceType
	KindVendorChassisID
)

type kindInfo struct {
	field string
	label string
	list  bool
}

// Field names are consumed by downstream tooling and must not change.
var kinds = [...]kindInfo{
	KindInterfaceMAC:           {"interface_mac_address", "Interface MAC Address", false},
	KindChassisID:              {"switch_chassis_id", "Chassis ID", false},
	KindPortID:                 {"switch_port_id", "Port ID", false},
	KindPortDescription:        {"switch_port_description", "Port Description", false},
	KindSystemName:             {"switch_system_name", "System Name", false},
	KindSystemDescription:      {"switch_system_description", "System Description", false},
	KindSystemCapabilities:     {"switch_system_capabilities", "System Capabilities", true},
	KindManagementAddress:      {"switch_management_address", "Management Address", false},
	KindPortVLANID:             {"switch_port_untagged_vlan_id", "Port Untagged Vlan ID", false},
	KindVLANName:               {"switch_port_vlan_name_and_id", "Port Vlan Name (ID)", false},
	KindVLANNameList:           {"switch_port_vlans", "Port Vlans", true},
	KindProtocolIdentity:       {"switch_protocol_identify", "Protocol Identity", false},
	KindManagementVLANID:       {"switch_port_management_vlanid", "Port Management Vlan ID", false},
	KindLinkAggregationSupport: {"switch_port_link_aggregation_support", "Port Link Aggregation Support", false},
	KindLinkAggregationEnabled: {"switch_port_link_aggregation_enabled", "Port Link Aggregation Enabled", false},
	KindLinkAggregationID:      {"switch_port_link_aggregation_id", "Port Link Aggregation ID", false},
	KindAutonegSupport:         {"switch_port_autonegotiation_support", "Port Autonegotiation Support", false},
	KindAutonegEnabled:         {"switch_port_autonegotiation_enabled", "Port Autonegotiation Enabled", false},
	KindPhysicalCapabilities:   {"switch_port_physical_capabilities", "Port Physical Media Capabilities", true},
	KindMAUType:                {"switch_port_mau_type", "Port Media Attachment Unit Type", false},
	KindMTU:                    {"switch_port_mtu", "Port MTU", false},
	KindMEDCapabilities:        {"switch_port_med_capabilities", "Port MED Capabilities", true},
	KindMEDDeviceType:          {"switch_port_med_device_type", "Port MED Device Type", false},
	KindVendorChassisID:        {"switch_vendor_chassis_identifier", "VendorChassis Identifier", false},
}

// Field returns the stable report key for k.
func (k Kind) Field() string { return kinds[k].field }

// DisplayName returns the human readable label for k.
func (k Kind) DisplayName() string { return kinds[k].label }

// IsList reports whether attributes of this kind carry a list value.
func (k Kind) IsList() bool { return kinds[k].list }

// Attribute is one decoded value. Scalar kinds use Text, list kinds use List.
type Attribute struct {
	Kind Kind
	Text string
	List []string
}

// Field returns the report key of the attribute.
func (a Attribute) Field() string { return a.Kind.Field() }

// DisplayName returns the human readable label of the attribute.
func (a Attribute) DisplayName() string { return a.Kind.DisplayName() }

// Value returns the attribute value as a string or a []string. List values
// are copies and never nil, so they serialize as an empty JSON array and
// callers may modify them.
func (a Attribute) Value() any {
	if !a.Kind.IsList() {
		return a.Text
	}
	return append([]string{}, a.List...)
}

// String renders the value for tabular output.
func (a Attribute) String() string {
	if a.Kind.IsList() {
		return "[" + strings.Join(a.List, ", ") + "]"
	}
	return a.Text
}

// InterfaceReport is the decoded form of one Interface. Attributes are in
// decode order, starting with the interface's own MAC address.
type InterfaceReport struct {
	Name       string
	Attributes []Attribute

	// Errors lists the TLVs that were skipped, in the order they were seen.
	Errors []*TLVError
}

// Lookup returns the first attribute of the given kind.
func (r InterfaceReport) Lookup(k Kind) (Attribute, bool) {
	for _, a := range r.Attributes {
		if a.Kind == k {
			return a, true
		}
	}
	return Attribute{}, false
}
