// decode.go provides the top-level TLV dispatch for lldpreport.
//
// It receives the TLV list recorded for one interface, hex-decodes each value
// and routes it by TLV type to a handler in lldp_parser.go. Organizationally
// specific TLVs (type 127) are routed a second time by OUI and subtype. The
// TLV layout is defined in IEEE 802.1AB:
// https://standards.ieee.org/ieee/802.1AB/6812/
package lldpreport

import (
	"encoding/hex"

	"github.com/google/gopacket/layers"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Decoder turns interface TLV lists into InterfaceReports. It holds no
// per-decode state and is safe for concurrent use.
type Decoder struct {
	log logrus.FieldLogger
}

// NewDecoder returns a Decoder that logs skipped TLVs to log. A nil log uses
// the logrus standard logger.
func NewDecoder(log logrus.FieldLogger) *Decoder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Decoder{log: log}
}

// Decode decodes a single interface with a default Decoder.
func Decode(name, mac string, tlvs []HexTLV) InterfaceReport {
	return NewDecoder(nil).DecodeInterface(Interface{Name: name, MACAddress: mac, TLVs: tlvs})
}

// decodeState is the fold carried through one interface's TLV list.
type decodeState struct {
	report InterfaceReport

	// vlanSlot is the index of the VLAN list attribute in report.Attributes,
	// or -1 until the first VLAN name TLV is seen.
	vlanSlot int
	vlans    []string
}

func (s *decodeState) emit(attrs ...Attribute) {
	for _, a := range attrs {
		s.report.Attributes = append(s.report.Attributes, a)
		if a.Kind != KindVLANName {
			continue
		}
		if s.vlanSlot < 0 {
			s.report.Attributes = append(s.report.Attributes, Attribute{Kind: KindVLANNameList})
			s.vlanSlot = len(s.report.Attributes) - 1
		}
		s.vlans = append(s.vlans, a.Text)
	}
}

func (s *decodeState) finish() InterfaceReport {
	if s.vlanSlot >= 0 {
		s.report.Attributes[s.vlanSlot].List = s.vlans
	}
	return s.report
}

// DecodeInterface decodes every TLV of iface. It never fails: a TLV that
// cannot be decoded is logged, recorded in the report's Errors and skipped.
func (d *Decoder) DecodeInterface(iface Interface) InterfaceReport {
	st := decodeState{
		report:   InterfaceReport{Name: iface.Name},
		vlanSlot: -1,
	}
	st.emit(Attribute{Kind: KindInterfaceMAC, Text: iface.MACAddress})

	for i, t := range iface.TLVs {
		attrs, tlvErr := d.decodeTLV(i, t)
		if tlvErr != nil {
			d.log.WithFields(logrus.Fields{
				"interface": iface.Name,
				"tlv_index": tlvErr.Index,
				"tlv_type":  tlvErr.Type,
			}).Warn(tlvErr.Error())
			st.report.Errors = append(st.report.Errors, tlvErr)
			continue
		}
		st.emit(attrs...)
	}
	return st.finish()
}

func (d *Decoder) decodeTLV(idx int, t HexTLV) ([]Attribute, *TLVError) {
	tlvErr := &TLVError{Index: idx, Type: t.Type, Subtype: -1}

	if t.Type < 0 || t.Type > int(layers.LLDPTLVOrgSpecific) {
		tlvErr.Err = errors.Wrapf(ErrUnrecognizedSubtype, "TLV type %d out of range", t.Type)
		return nil, tlvErr
	}

	value, err := hex.DecodeString(t.Value)
	if err != nil {
		tlvErr.Err = errors.Wrapf(ErrMalformedValue, "TLV value must be hexadecimal: %v", err)
		return nil, tlvErr
	}
	raw := RawTLV{Type: layers.LLDPTLVType(t.Type), Value: value}

	var attrs []Attribute
	switch raw.Type {
	case layers.LLDPTLVChassisID:
		attrs, err = decodeChassisID(raw.Value)
	case layers.LLDPTLVPortID:
		attrs, err = decodePortID(raw.Value)
	case layers.LLDPTLVPortDescription:
		attrs, err = decodeText(KindPortDescription)(raw.Value)
	case layers.LLDPTLVSysName:
		attrs, err = decodeText(KindSystemName)(raw.Value)
	case layers.LLDPTLVSysDescription:
		attrs, err = decodeText(KindSystemDescription)(raw.Value)
	case layers.LLDPTLVSysCapabilities:
		attrs, err = decodeSystemCapabilities(raw.Value)
	case layers.LLDPTLVMgmtAddress:
		// TODO: decode address subtype, interface numbering and OID instead
		// of rendering the whole value as text.
		attrs, err = decodeText(KindManagementAddress)(raw.Value)
	case layers.LLDPTLVOrgSpecific:
		attrs, err = decodeOrgSpecific(raw.Value, tlvErr)
	default:
		// TTL, end of LLDPDU and reserved types are not reported.
		d.log.WithField("tlv_type", t.Type).Debug("ignoring TLV")
		return nil, nil
	}
	if err != nil {
		tlvErr.Err = err
		return nil, tlvErr
	}
	return attrs, nil
}
