package lldpreport

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tlvProd = HexTLV{Type: 127, Value: "0080c203000a04" + hexOf("prod")}
	tlvMgmt = HexTLV{Type: 127, Value: "0080c203001404" + hexOf("mgmt")}
)

func testReport() Report {
	return Report{
		"node-b": NodeReport{
			"eth1": Decode("eth1", "52:54:00:00:00:02", []HexTLV{tlvMgmt, {Type: 7, Value: "00040004"}}),
		},
		"node-a": NodeReport{
			"eth0": Decode("eth0", "aa:bb:cc:dd:ee:ff", []HexTLV{
				{Type: 1, Value: "04a1b2c3d4e5"},
				tlvProd,
				tlvMgmt,
			}),
			"eth1": Decode("eth1", "aa:bb:cc:dd:ee:00", []HexTLV{tlvProd}),
			"eth2": Decode("eth2", "aa:bb:cc:dd:ee:01", nil),
		},
	}
}

func TestReport_Fields(t *testing.T) {
	fields, err := testReport().Fields("node-a", "eth0")
	require.NoError(t, err)

	assert.Equal(t, []FieldValue{
		{Field: "interface_mac_address", DisplayName: "Interface MAC Address", Value: "aa:bb:cc:dd:ee:ff"},
		{Field: "switch_chassis_id", DisplayName: "Chassis ID", Value: "a1:b2:c3:d4:e5"},
		{Field: "switch_port_vlans", DisplayName: "Port Vlans", Value: []string{"prod (10)", "mgmt (20)"}},
	}, fields)
}

func TestReport_FieldsNotFound(t *testing.T) {
	r := testReport()

	_, err := r.Fields("node-a", "eth9")
	assert.ErrorIs(t, err, ErrInterfaceNotFound)

	_, err = r.Fields("node-z", "eth0")
	assert.ErrorIs(t, err, ErrInterfaceNotFound)
}

func TestReport_VLANs(t *testing.T) {
	vlans := testReport().VLANs()

	assert.Equal(t, []VLANPorts{
		{VLAN: "mgmt (20)", Ports: map[string][]string{"node-a": {"eth0"}, "node-b": {"eth1"}}},
		{VLAN: "prod (10)", Ports: map[string][]string{"node-a": {"eth0", "eth1"}}},
	}, vlans)
}

func TestReport_VLANsEmpty(t *testing.T) {
	r := Report{"node-a": NodeReport{}, "node-b": nil}

	assert.Empty(t, r.VLANs())
	assert.Empty(t, r.FieldValues("switch_chassis_id"))
}

func TestReport_FieldValues(t *testing.T) {
	values := testReport().FieldValues("interface_mac_address")

	assert.Equal(t, []InterfaceValue{
		{Interface: "node-a:eth0", Value: "aa:bb:cc:dd:ee:ff"},
		{Interface: "node-a:eth1", Value: "aa:bb:cc:dd:ee:00"},
		{Interface: "node-a:eth2", Value: "aa:bb:cc:dd:ee:01"},
		{Interface: "node-b:eth1", Value: "52:54:00:00:00:02"},
	}, values)
}

func TestReport_BindingsJSON(t *testing.T) {
	r := testReport().Filter("node-b", "")

	bs, err := json.Marshal(r.Bindings())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"node-b": {
			"eth1": {
				"interface_mac_address": "52:54:00:00:00:02",
				"switch_port_vlan_name_and_id": "mgmt (20)",
				"switch_port_vlans": ["mgmt (20)"],
				"switch_system_capabilities": ["Bridge"]
			}
		}
	}`, string(bs))

	// map keys are written sorted
	again, err := json.Marshal(r.Bindings())
	require.NoError(t, err)
	assert.Equal(t, string(bs), string(again))
	assert.Less(t,
		strings.Index(string(bs), "interface_mac_address"),
		strings.Index(string(bs), "switch_system_capabilities"))
}

func TestReport_Filter(t *testing.T) {
	r := testReport()

	assert.Len(t, r.Filter("", ""), 2)
	assert.Equal(t, []string{"node-a"}, r.Filter("node-a", "").Nodes())

	byIface := r.Filter("", "eth1")
	assert.Len(t, byIface["node-a"], 1)
	assert.Len(t, byIface["node-b"], 1)
}

func TestReport_FilterDropsEmptyNodes(t *testing.T) {
	r := testReport().Filter("", "eth2")

	assert.Equal(t, []string{"node-a"}, r.Nodes())
	bs, err := json.Marshal(r.Bindings())
	require.NoError(t, err)
	assert.NotContains(t, string(bs), "node-b")

	assert.Empty(t, testReport().Filter("node-b", "eth0"))
	assert.Empty(t, testReport().Filter("node-z", ""))
}

func TestInterfaceLists(t *testing.T) {
	lists := InterfaceLists([]Node{
		{UUID: "node-b", Interfaces: []Interface{{Name: "eth1"}, {Name: "eth0"}}},
		{UUID: "node-a", Interfaces: []Interface{{Name: "ens3"}}},
		{UUID: "node-c"},
	})

	assert.Equal(t, []NodeInterfaces{
		{Node: "node-a", Interfaces: []string{"ens3"}},
		{Node: "node-b", Interfaces: []string{"eth0", "eth1"}},
		{Node: "node-c", Interfaces: []string{}},
	}, lists)
}
