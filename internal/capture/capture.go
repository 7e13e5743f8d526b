// Package capture extracts LLDP TLVs from a saved packet capture (pcap
// file), so that frames recorded with tcpdump on a node can be decoded the
// same way as introspection data.
//
// Frames are decoded by gopacket. An LLDPDU that gopacket rejects (missing
// chassis ID, port ID, TTL or End TLV, or a TLV running past the frame) does
// not count as an LLDP frame.
package capture

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/pkg/errors"

	"github.com/javadmohebbi/lldpreport"
)

// ErrNoLLDP is returned when a capture contains no LLDP frame.
var ErrNoLLDP = errors.New("no LLDP frame in capture")

// ReadFile opens a pcap file and returns the TLVs of its last LLDP frame as
// an interface named iface with hardware address mac.
func ReadFile(path, iface, mac string) (lldpreport.Interface, error) {
	f, err := os.Open(path)
	if err != nil {
		return lldpreport.Interface{}, errors.Wrap(err, "opening capture")
	}
	defer f.Close()

	out, err := Read(f, iface, mac)
	if err != nil {
		return lldpreport.Interface{}, errors.Wrapf(err, "reading %s", path)
	}
	return out, nil
}

// Read is ReadFile for an already open pcap stream. Later LLDP frames
// replace earlier ones, as a neighbour's newest advertisement supersedes the
// previous one.
func Read(r io.Reader, iface, mac string) (lldpreport.Interface, error) {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return lldpreport.Interface{}, errors.Wrap(err, "reading pcap header")
	}

	out := lldpreport.Interface{Name: iface, MACAddress: mac}
	found := false
	src := gopacket.NewPacketSource(pr, pr.LinkType())
	for {
		pkt, err := src.NextPacket()
		if err == io.EOF {
			break
		}
		if err != nil {
			return lldpreport.Interface{}, errors.Wrap(err, "reading packet")
		}
		if tlvs, ok := DecodeFrame(pkt); ok {
			out.TLVs = tlvs
			found = true
		}
	}
	if !found {
		return lldpreport.Interface{}, ErrNoLLDP
	}
	return out, nil
}

// DecodeFrame returns the TLVs of pkt if it carries an LLDPDU, with or
// without an 802.1Q tag. Chassis ID, port ID and TTL come first, then the
// remaining TLVs in frame order. The End TLV is not returned.
func DecodeFrame(pkt gopacket.Packet) ([]lldpreport.HexTLV, bool) {
	l := pkt.Layer(layers.LayerTypeLinkLayerDiscovery)
	if l == nil {
		return nil, false
	}
	lldp := l.(*layers.LinkLayerDiscovery)

	ttl := make([]byte, 2)
	binary.BigEndian.PutUint16(ttl, lldp.TTL)
	tlvs := []lldpreport.HexTLV{
		hexTLV(layers.LLDPTLVChassisID, append([]byte{byte(lldp.ChassisID.Subtype)}, lldp.ChassisID.ID...)),
		hexTLV(layers.LLDPTLVPortID, append([]byte{byte(lldp.PortID.Subtype)}, lldp.PortID.ID...)),
		hexTLV(layers.LLDPTLVTTL, ttl),
	}
	for _, v := range lldp.Values {
		tlvs = append(tlvs, hexTLV(v.Type, v.Value))
	}
	return tlvs, true
}

func hexTLV(t layers.LLDPTLVType, v []byte) lldpreport.HexTLV {
	return lldpreport.HexTLV{Type: int(t), Value: hex.EncodeToString(v)}
}
