// Package introspection reads the interface inventory stored by the
// bare-metal introspection service and turns it into lldpreport interfaces.
//
// The document layout is:
//
//	{"inventory": {"interfaces": [
//	    {"name": "eth0", "mac_address": "...", "lldp": [[1, "04..."], ...]}
//	]}}
package introspection

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/javadmohebbi/lldpreport"
)

// ErrInvalidDocument is returned for data that is not introspection JSON.
var ErrInvalidDocument = errors.New("invalid introspection document")

// ParseInterfaces extracts inventory.interfaces from an introspection
// document, keeping the document order. An interface without an lldp field
// gets no TLVs. A TLV entry that is not a [type, "hex"] pair is kept with its
// raw JSON as value, so the decoder reports it as malformed.
func ParseInterfaces(data []byte) ([]lldpreport.Interface, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrInvalidDocument, "not valid JSON")
	}
	list := gjson.GetBytes(data, "inventory.interfaces")
	if !list.IsArray() {
		return nil, errors.Wrap(ErrInvalidDocument, "inventory.interfaces is missing or not a list")
	}

	var ifaces []lldpreport.Interface
	list.ForEach(func(_, v gjson.Result) bool {
		iface := lldpreport.Interface{
			Name:       v.Get("name").String(),
			MACAddress: v.Get("mac_address").String(),
		}
		if lldp := v.Get("lldp"); lldp.IsArray() {
			for _, pair := range lldp.Array() {
				iface.TLVs = append(iface.TLVs, parseTLV(pair))
			}
		}
		ifaces = append(ifaces, iface)
		return true
	})
	return ifaces, nil
}

func parseTLV(pair gjson.Result) lldpreport.HexTLV {
	elems := pair.Array()
	if !pair.IsArray() || len(elems) != 2 || elems[1].Type != gjson.String {
		return lldpreport.HexTLV{Type: int(pair.Get("0").Int()), Value: pair.Raw}
	}
	return lldpreport.HexTLV{Type: int(elems[0].Int()), Value: elems[1].String()}
}

// Source provides introspection data per node.
type Source interface {
	// Nodes returns the UUIDs of all known nodes.
	Nodes() ([]string, error)
	// Interfaces returns the interface inventory of one node.
	Interfaces(node string) ([]lldpreport.Interface, error)
}

// DirSource serves introspection documents saved as <Dir>/<node uuid>.json,
// the layout written by "openstack baremetal introspection data save".
type DirSource struct {
	Dir string
}

const docSuffix = ".json"

func (s DirSource) Nodes() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading introspection directory %s", s.Dir)
	}
	var nodes []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), docSuffix) {
			continue
		}
		nodes = append(nodes, strings.TrimSuffix(e.Name(), docSuffix))
	}
	sort.Strings(nodes)
	return nodes, nil
}

func (s DirSource) Interfaces(node string) ([]lldpreport.Interface, error) {
	path := filepath.Join(s.Dir, node+docSuffix)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading introspection data for node %s", node)
	}
	ifaces, err := ParseInterfaces(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return ifaces, nil
}

// Load reads every node of src, or only node when it is not empty. A node
// whose data cannot be read is logged and skipped.
func Load(src Source, node string, log logrus.FieldLogger) ([]lldpreport.Node, error) {
	uuids, err := src.Nodes()
	if err != nil {
		return nil, err
	}

	var nodes []lldpreport.Node
	for _, uuid := range uuids {
		if node != "" && uuid != node {
			continue
		}
		ifaces, err := src.Interfaces(uuid)
		if err != nil {
			log.WithField("node", uuid).Warn(err)
			continue
		}
		nodes = append(nodes, lldpreport.Node{UUID: uuid, Interfaces: ifaces})
	}
	return nodes, nil
}
