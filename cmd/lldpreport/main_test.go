package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `{"inventory": {"interfaces": [
	{"name": "eth0", "mac_address": "52:54:00:1a:2b:3c", "lldp": [
		[1, "0464649a32b280"],
		[2, "0578652d302f302f39"],
		[127, "0080c203000a0470726f64"],
		[127, "0080c2030014046d676d74"]
	]},
	{"name": "eth1", "mac_address": "52:54:00:1a:2b:3d", "lldp": [
		[127, "0080c203000a0470726f64"]
	]}
]}}`

func run(t *testing.T, args ...string) string {
	t.Helper()
	for _, k := range []string{"LLDPREPORT_DATA_DIR", "LLDPREPORT_DB_PATH", "LLDPREPORT_LOG_LEVEL", "LLDPREPORT_WORKERS"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node-1.json"), []byte(fixture), 0o600))

	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetArgs(append([]string{"--data-dir", dir, "--log-level", "error"}, args...))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestInterfaceList(t *testing.T) {
	out := run(t, "interface", "list")
	assert.Contains(t, out, "node-1")
	assert.Contains(t, out, "eth0, eth1")
}

func TestInterfaceShow(t *testing.T) {
	out := run(t, "interface", "show", "node-1", "eth0")
	assert.Regexp(t, `switch_chassis_id\s+64:64:9a:32:b2:80`, out)
	assert.Regexp(t, `switch_port_id\s+xe-0/0/9`, out)
	assert.Regexp(t, `switch_port_vlans\s+prod \(10\), mgmt \(20\)`, out)
	assert.NotContains(t, out, "switch_port_vlan_name_and_id")
}

func TestInterfaceShow_NotFound(t *testing.T) {
	out := run(t, "interface", "show", "node-1", "eth9")
	assert.Equal(t, "Interface eth9 not found on node node-1\n", out)
}

func TestVLANList(t *testing.T) {
	out := run(t, "vlan", "list")
	assert.Regexp(t, `mgmt \(20\)\s+node-1:eth0\n`, out)
	assert.Regexp(t, `prod \(10\)\s+node-1:eth0, node-1:eth1\n`, out)

	out = run(t, "vlan", "list", "--interface", "eth1")
	assert.NotContains(t, out, "mgmt")
}

func TestFieldShow(t *testing.T) {
	out := run(t, "field", "show", "switch_chassis_id")
	assert.Regexp(t, `node-1:eth0\s+64:64:9a:32:b2:80`, out)
	assert.NotContains(t, out, "node-1:eth1")
}

func TestSave(t *testing.T) {
	file := filepath.Join(t.TempDir(), "report.json")
	assert.Empty(t, run(t, "save", "--file", file))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var report map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "64:64:9a:32:b2:80", report["node-1"]["eth0"]["switch_chassis_id"])
	assert.Equal(t, []any{"prod (10)"}, report["node-1"]["eth1"]["switch_port_vlans"])
}

func TestSave_Stdout(t *testing.T) {
	out := run(t, "save", "--node", "node-1", "--interface", "eth1")

	var report map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report["node-1"], 1)
	assert.Contains(t, report["node-1"], "eth1")
}

func TestSave_DB(t *testing.T) {
	t.Setenv("LLDPREPORT_WORKERS", "")
	t.Setenv("LLDPREPORT_DB_PATH", filepath.Join(t.TempDir(), "report.db"))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node-1.json"), []byte(fixture), 0o600))

	exec := func(args ...string) string {
		var out bytes.Buffer
		cmd := newRootCommand(&out)
		cmd.SetArgs(append([]string{"--data-dir", dir, "--log-level", "error"}, args...))
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	saved := exec("save", "--db")
	assert.Equal(t, "node-1\n", exec("db", "nodes"))
	assert.JSONEq(t, saved, exec("db", "show"))
	assert.JSONEq(t, saved, exec("db", "show", "--node", "node-1"))
	assert.JSONEq(t, `{}`, exec("db", "show", "--node", "node-9"))
}

func TestInvalidLogLevel(t *testing.T) {
	cmd := newRootCommand(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log-level", "chatty", "interface", "list"})
	assert.Error(t, cmd.Execute())
}
