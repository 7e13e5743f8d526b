package lldpreport

import (
	"sort"

	"github.com/pkg/errors"
)

// NodeReport maps interface name to its decoded report.
type NodeReport map[string]InterfaceReport

// Report maps node UUID to the node's interface reports.
type Report map[string]NodeReport

// FieldValue is one row of the flat field view.
type FieldValue struct {
	Field       string
	DisplayName string
	Value       any
}

// VLANPorts lists where a VLAN was seen: node UUID to sorted interface names.
type VLANPorts struct {
	VLAN  string
	Ports map[string][]string
}

// NodeInterfaces is one row of the interface list view.
type NodeInterfaces struct {
	Node       string
	Interfaces []string
}

// InterfaceValue is one row of the field view across all nodes. Interface is
// "node:interface".
type InterfaceValue struct {
	Interface string
	Value     any
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Nodes returns the node UUIDs of r in sorted order.
func (r Report) Nodes() []string { return sortedKeys(r) }

// Fields returns the field view of one interface in decode order. Individual
// VLAN name attributes are left out; the VLAN list attribute carries them.
func (r Report) Fields(node, iface string) ([]FieldValue, error) {
	ir, ok := r[node][iface]
	if !ok {
		return nil, errors.Wrapf(ErrInterfaceNotFound, "interface %s on node %s", iface, node)
	}
	fields := make([]FieldValue, 0, len(ir.Attributes))
	for _, a := range ir.Attributes {
		if a.Kind == KindVLANName {
			continue
		}
		fields = append(fields, FieldValue{Field: a.Field(), DisplayName: a.DisplayName(), Value: a.Value()})
	}
	return fields, nil
}

// VLANs groups interfaces by the VLAN name attributes seen on them, sorted by
// VLAN label.
func (r Report) VLANs() []VLANPorts {
	byVLAN := map[string]map[string][]string{}
	for _, node := range r.Nodes() {
		for _, iface := range sortedKeys(r[node]) {
			for _, a := range r[node][iface].Attributes {
				if a.Kind != KindVLANName {
					continue
				}
				ports, ok := byVLAN[a.Text]
				if !ok {
					ports = map[string][]string{}
					byVLAN[a.Text] = ports
				}
				ports[node] = appendUnique(ports[node], iface)
			}
		}
	}

	vlans := make([]VLANPorts, 0, len(byVLAN))
	for _, vlan := range sortedKeys(byVLAN) {
		vlans = append(vlans, VLANPorts{VLAN: vlan, Ports: byVLAN[vlan]})
	}
	return vlans
}

// FieldValues returns the value of field on every interface that has it,
// sorted by node and interface.
func (r Report) FieldValues(field string) []InterfaceValue {
	var values []InterfaceValue
	for _, node := range r.Nodes() {
		for _, iface := range sortedKeys(r[node]) {
			for _, a := range r[node][iface].Attributes {
				if a.Field() == field {
					values = append(values, InterfaceValue{Interface: node + ":" + iface, Value: a.Value()})
				}
			}
		}
	}
	return values
}

// Bindings returns node -> interface -> field -> value. When a field occurs
// more than once on an interface the last value wins. encoding/json writes map
// keys sorted, so the marshalled form is stable.
func (r Report) Bindings() map[string]map[string]map[string]any {
	out := make(map[string]map[string]map[string]any, len(r))
	for node, nr := range r {
		intfs := make(map[string]map[string]any, len(nr))
		for iface, ir := range nr {
			bindings := make(map[string]any, len(ir.Attributes))
			for _, a := range ir.Attributes {
				bindings[a.Field()] = a.Value()
			}
			intfs[iface] = bindings
		}
		out[node] = intfs
	}
	return out
}

// Filter returns the part of r matching node and iface. Empty arguments
// match everything. Nodes left without interfaces are dropped.
func (r Report) Filter(node, iface string) Report {
	out := Report{}
	for n, nr := range r {
		if node != "" && n != node {
			continue
		}
		sub := NodeReport{}
		for i, ir := range nr {
			if iface != "" && i != iface {
				continue
			}
			sub[i] = ir
		}
		if len(sub) > 0 {
			out[n] = sub
		}
	}
	return out
}

// InterfaceLists returns the sorted interface names of every node, sorted by
// node. No TLVs are decoded.
func InterfaceLists(nodes []Node) []NodeInterfaces {
	lists := make([]NodeInterfaces, 0, len(nodes))
	for _, n := range nodes {
		names := make([]string, 0, len(n.Interfaces))
		for _, i := range n.Interfaces {
			names = append(names, i.Name)
		}
		sort.Strings(names)
		lists = append(lists, NodeInterfaces{Node: n.UUID, Interfaces: names})
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].Node < lists[j].Node })
	return lists
}
