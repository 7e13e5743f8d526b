package introspection

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javadmohebbi/lldpreport"
)

var (
	dataNode1, _  = os.ReadFile("testdata/node-1.json")
	dataNode2, _  = os.ReadFile("testdata/node-2.json")
	dataBroken, _ = os.ReadFile("testdata/broken.json")
)

func Test_testDataIsValid(t *testing.T) {
	for name, data := range map[string][]byte{
		"dataNode1":  dataNode1,
		"dataNode2":  dataNode2,
		"dataBroken": dataBroken,
	} {
		require.NotNil(t, data, name)
	}
}

func TestParseInterfaces(t *testing.T) {
	ifaces, err := ParseInterfaces(dataNode1)
	require.NoError(t, err)
	require.Len(t, ifaces, 3)

	assert.Equal(t, "eth0", ifaces[0].Name)
	assert.Equal(t, "52:54:00:1a:2b:3c", ifaces[0].MACAddress)
	assert.Len(t, ifaces[0].TLVs, 15)
	assert.Equal(t, lldpreport.HexTLV{Type: 1, Value: "0464649a32b280"}, ifaces[0].TLVs[0])

	assert.Equal(t, lldpreport.HexTLV{Type: 5, Value: "not-hex"}, ifaces[1].TLVs[3])

	assert.Equal(t, "eth2", ifaces[2].Name)
	assert.Nil(t, ifaces[2].TLVs)
}

func TestParseInterfaces_MalformedPairs(t *testing.T) {
	ifaces, err := ParseInterfaces(dataNode2)
	require.NoError(t, err)
	require.Len(t, ifaces, 1)

	tlvs := ifaces[0].TLVs
	require.Len(t, tlvs, 6)
	// a number value is not hex, even when its digits would decode as hex
	assert.Equal(t, 127, tlvs[4].Type)
	assert.JSONEq(t, `[127, 17]`, tlvs[4].Value)
	assert.Equal(t, 127, tlvs[5].Type)
	assert.JSONEq(t, `[127]`, tlvs[5].Value)

	r := lldpreport.Decode(ifaces[0].Name, ifaces[0].MACAddress, tlvs)
	assert.Len(t, r.Errors, 2)
}

func TestParseInterfaces_NonStringValues(t *testing.T) {
	ifaces, err := ParseInterfaces([]byte(`{"inventory": {"interfaces": [
		{"name": "eth0", "mac_address": "m", "lldp": [[5, 7430], [5, null], [5, ["74"]], [5, "7430"]]}
	]}}`))
	require.NoError(t, err)
	require.Len(t, ifaces, 1)

	r := lldpreport.Decode(ifaces[0].Name, ifaces[0].MACAddress, ifaces[0].TLVs)
	require.Len(t, r.Errors, 3)
	for i, e := range r.Errors {
		assert.True(t, errors.Is(e, lldpreport.ErrMalformedValue), e.Error())
		assert.Equal(t, i, e.Index)
		assert.Equal(t, 5, e.Type)
	}
	// only the string value is decoded
	require.Len(t, r.Attributes, 2)
	assert.Equal(t, "t0", r.Attributes[1].Value())
}

func TestParseInterfaces_Invalid(t *testing.T) {
	tests := map[string][]byte{
		"truncated":           dataBroken,
		"empty":               []byte(""),
		"no inventory":        []byte(`{"cpu": {}}`),
		"interfaces not list": []byte(`{"inventory": {"interfaces": {}}}`),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseInterfaces(data)
			assert.True(t, errors.Is(err, ErrInvalidDocument), "%v", err)
		})
	}
}

func TestDirSource(t *testing.T) {
	src := DirSource{Dir: "testdata"}

	nodes, err := src.Nodes()
	require.NoError(t, err)
	assert.Equal(t, []string{"broken", "node-1", "node-2"}, nodes)

	_, err = src.Interfaces("node-9")
	assert.Error(t, err)

	_, err = DirSource{Dir: "testdata/missing"}.Nodes()
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	log, hook := logtest.NewNullLogger()

	nodes, err := Load(DirSource{Dir: "testdata"}, "", log)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "node-1", nodes[0].UUID)
	assert.Equal(t, "node-2", nodes[1].UUID)

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "broken", hook.LastEntry().Data["node"])

	nodes, err = Load(DirSource{Dir: "testdata"}, "node-2", log)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "ens3", nodes[0].Interfaces[0].Name)
}
