package store

import (
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javadmohebbi/lldpreport"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "report.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testReport(sysName string) lldpreport.Report {
	return lldpreport.Report{
		"node-1": lldpreport.NodeReport{
			"eth0": lldpreport.Decode("eth0", "52:54:00:1a:2b:3c", []lldpreport.HexTLV{
				{Type: 5, Value: hex.EncodeToString([]byte(sysName))},
				{Type: 7, Value: "00040004"},
			}),
		},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveReport(testReport("tor-01")))

	got, err := s.Bindings()
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]map[string]any{
		"node-1": {
			"eth0": {
				"interface_mac_address":      "52:54:00:1a:2b:3c",
				"switch_system_name":         "tor-01",
				"switch_system_capabilities": []any{"Bridge"},
			},
		},
	}, got)
}

func TestStore_SaveReplacesNode(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveReport(testReport("tor-01")))
	require.NoError(t, s.SaveReport(testReport("tor-02")))
	require.NoError(t, s.SaveReport(lldpreport.Report{
		"node-2": lldpreport.NodeReport{"ens3": lldpreport.Decode("ens3", "fa:16:3e:00:00:01", nil)},
	}))

	got, err := s.Bindings()
	require.NoError(t, err)
	assert.Equal(t, "tor-02", got["node-1"]["eth0"]["switch_system_name"])
	assert.Equal(t, "fa:16:3e:00:00:01", got["node-2"]["ens3"]["interface_mac_address"])

	nodes, err := s.Nodes()
	require.NoError(t, err)
	assert.Equal(t, []string{"node-1", "node-2"}, nodes)
}

func TestStore_Empty(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveReport(lldpreport.Report{"node-1": nil}))

	got, err := s.Bindings()
	require.NoError(t, err)
	assert.Empty(t, got)
}
