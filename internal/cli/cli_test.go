// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/loom/internal/config"
)

const snapshotLDIF = `version: 1
dn: cn=Alice,ou=people,dc=example,dc=com
objectClass: person
cn: Alice
mail: alice@example.com
mail: a.smith@example.com

dn: cn=Bob,ou=people,dc=example,dc=com
objectClass: person
cn: Bob
sn: Builder
`

const profilesTOML = `[[profiles]]
name = "corp"
host = "ldap.example.com"
base_dn = "dc=example,dc=com"
bind_dn = "cn=reader,dc=example,dc=com"

[[profiles]]
name = "lab"
host = "lab.local"
port = 1389
base_dn = "dc=lab"
`

// testEnv isolates HOME and the config file for one test.
type testEnv struct {
	t       *testing.T
	home    string
	cfgPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, name := range []string{"LOOM_LOG_LEVEL", "LOOM_THEME", "LOOM_CSV_SEPARATOR", "LOOM_PROFILE", "LOOM_BIND_PASSWORD"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return &testEnv{t: t, home: home, cfgPath: filepath.Join(home, ".loom", "config.toml")}
}

// file writes content under the temp home and returns its path.
func (e *testEnv) file(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.home, name)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// run executes loom with args and returns stdout and stderr.
func (e *testEnv) run(args ...string) (string, string, error) {
	e.t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.cfgPath, "--env-file", "", "--log-level", "off"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// =============================================================================
// EXPORT AND PREVIEW
// =============================================================================

func TestExportFromSnapshot(t *testing.T) {
	e := newTestEnv(t)
	snap := e.file("dump.ldif", snapshotLDIF)
	out := filepath.Join(e.home, "out", "people.csv")

	stdout, _, err := e.run("export", out, "--snapshot", snap, "-a", "cn,mail")
	require.NoError(t, err)
	assert.Equal(t, "Exported 2 entries to "+out+"\n", stdout)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"dn", "cn", "mail"}, rows[0])
	assert.Equal(t, "alice@example.com|a.smith@example.com", rows[1][2])
	assert.Equal(t, "", rows[2][2])

	stdout, _, err = e.run("history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "CSV")
	assert.Contains(t, stdout, "people.csv")
	assert.Contains(t, stdout, "ok")
}

func TestExport_JSONOutput(t *testing.T) {
	e := newTestEnv(t)
	snap := e.file("dump.ldif", snapshotLDIF)
	out := filepath.Join(e.home, "dump.json")

	stdout, _, err := e.run("export", out, "--snapshot", snap, "--json")
	require.NoError(t, err)

	var resp struct {
		Success bool       `json:"success"`
		Data    ExportData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, ExportData{Path: out, Format: "JSON", Count: 2}, resp.Data)
}

func TestExport_FailureIsRecorded(t *testing.T) {
	e := newTestEnv(t)
	snap := e.file("dump.ldif", snapshotLDIF)

	_, _, err := e.run("export", filepath.Join(e.home, "out.txt"), "--snapshot", snap)
	require.Error(t, err)
	assert.Equal(t, ExitExportError, ExitCode(err))

	stdout, _, err := e.run("history", "--json")
	require.NoError(t, err)
	var resp struct {
		Data []HistoryData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 1)
	assert.Zero(t, resp.Data[0].Count)
	assert.NotEmpty(t, resp.Data[0].Error)
	assert.Equal(t, []string{"*"}, resp.Data[0].Attributes)
}

func TestExport_HistoryDisabled(t *testing.T) {
	e := newTestEnv(t)
	e.file(".loom/config.toml", "[export]\nhistory_enabled = false\n")
	snap := e.file("dump.ldif", snapshotLDIF)

	_, _, err := e.run("export", filepath.Join(e.home, "x.ldif"), "--snapshot", snap)
	require.NoError(t, err)

	stdout, _, err := e.run("history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No exports recorded.")
}

func TestHistoryClear(t *testing.T) {
	e := newTestEnv(t)
	snap := e.file("dump.ldif", snapshotLDIF)
	_, _, err := e.run("export", filepath.Join(e.home, "a.json"), "--snapshot", snap)
	require.NoError(t, err)

	stdout, _, err := e.run("history", "--clear")
	require.NoError(t, err)
	assert.Equal(t, "Removed 1 history record(s)\n", stdout)
}

func TestExport_NoSource(t *testing.T) {
	e := newTestEnv(t)
	_, _, err := e.run("export", filepath.Join(e.home, "x.csv"))
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestExport_UnknownProfile(t *testing.T) {
	e := newTestEnv(t)
	_, _, err := e.run("export", filepath.Join(e.home, "x.csv"), "-p", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitNotFoundError, ExitCode(err))
	assert.EqualError(t, err, "profile not found: nope")
}

func TestExport_RequiresOutput(t *testing.T) {
	e := newTestEnv(t)
	_, _, err := e.run("export")
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestPreview(t *testing.T) {
	e := newTestEnv(t)
	snap := e.file("dump.ldif", snapshotLDIF)

	stdout, _, err := e.run("preview", "--snapshot", snap, "-n", "1")
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "cn=Alice,ou=people,dc=example,dc=com", got[0]["dn"])

	stdout, _, err = e.run("preview", "--snapshot", snap, "--format", "ldif", "-a", "sn")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dn: cn=Bob,ou=people,dc=example,dc=com\nsn: Builder\n")
	assert.NotContains(t, stdout, "mail:")
}

func TestPreview_RejectsBadFormats(t *testing.T) {
	e := newTestEnv(t)
	snap := e.file("dump.ldif", snapshotLDIF)

	_, _, err := e.run("preview", "--snapshot", snap, "--format", "xlsx")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))

	_, _, err = e.run("preview", "--snapshot", snap, "--format", "yaml")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestDotEnvOverridesConfig(t *testing.T) {
	e := newTestEnv(t)
	snap := e.file("dump.ldif", snapshotLDIF)
	envFile := e.file("loom.env", "LOOM_CSV_SEPARATOR=;\n")
	out := filepath.Join(e.home, "people.csv")

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", e.cfgPath, "--env-file", envFile, "--log-level", "off",
		"export", out, "--snapshot", snap, "-a", "mail"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "alice@example.com;a.smith@example.com")
}

func TestInvalidConfig(t *testing.T) {
	e := newTestEnv(t)
	e.file(".loom/config.toml", "[ui]\ntheme = \"neon\"\n")
	_, _, err := e.run("profiles", "list")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, ExitCode(err))
	assert.Contains(t, err.Error(), "ui.theme")
}

// =============================================================================
// PROFILES
// =============================================================================

func TestProfilesImportListExport(t *testing.T) {
	e := newTestEnv(t)
	src := e.file("team.toml", profilesTOML)

	stdout, _, err := e.run("profiles", "import", src)
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 profile(s) (2 new, 0 replaced)\n", stdout)

	cfg, err := config.LoadFromPath(e.cfgPath)
	require.NoError(t, err)
	require.Len(t, cfg.Profiles, 2)
	assert.Equal(t, 389, cfg.Profiles[0].Port)

	stdout, _, err = e.run("profiles", "import", src, "--name", "lab")
	require.NoError(t, err)
	assert.Equal(t, "Imported 1 profile(s) (0 new, 1 replaced)\n", stdout)

	stdout, _, err = e.run("profiles", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "* corp")
	assert.Contains(t, stdout, "ldap://lab.local:1389")

	out := filepath.Join(e.home, "lab.toml")
	stdout, _, err = e.run("profiles", "export", out, "--name", "lab")
	require.NoError(t, err)
	assert.Equal(t, "Exported 1 profile(s) to "+out+"\n", stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	got, err := config.ImportProfiles(string(data))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "lab", got[0].Name)

	_, _, err = e.run("profiles", "export", out, "--name", "missing")
	assert.Equal(t, ExitNotFoundError, ExitCode(err))
}

func TestProfilesList_JSON(t *testing.T) {
	e := newTestEnv(t)
	_, _, err := e.run("profiles", "import", e.file("team.toml", profilesTOML))
	require.NoError(t, err)

	stdout, _, err := e.run("profiles", "list", "--json")
	require.NoError(t, err)
	var resp struct {
		Data []ProfileData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 2)
	assert.True(t, resp.Data[0].Default)
	assert.False(t, resp.Data[1].Default)
	assert.Equal(t, "cn=reader,dc=example,dc=com", resp.Data[0].BindDN)
}

func TestProfiles_EmptyAndMissing(t *testing.T) {
	e := newTestEnv(t)

	stdout, _, err := e.run("profiles", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No profiles configured")

	_, _, err = e.run("profiles", "export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no profiles configured")

	_, _, err = e.run("profiles", "import", filepath.Join(e.home, "nope.toml"))
	assert.Equal(t, ExitNotFoundError, ExitCode(err))

	_, _, err = e.run("profiles", "import", e.file("bad.toml", "[[profiles]]\nhost = \"x\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile name is required")
}

// =============================================================================
// DIFF
// =============================================================================

const changedLDIF = `version: 1
dn: cn=Alice,ou=people,dc=example,dc=com
objectClass: person
cn: Alice
mail: alice@example.com
title: Engineer

dn: cn=Carol,ou=people,dc=example,dc=com
objectClass: person
cn: Carol
`

func TestDiff(t *testing.T) {
	e := newTestEnv(t)
	before := e.file("before.ldif", snapshotLDIF)
	after := e.file("after.ldif", changedLDIF)

	stdout, _, err := e.run("diff", before, after)
	require.NoError(t, err)
	assert.Contains(t, stdout, "~dn: cn=Alice,ou=people,dc=example,dc=com\n")
	assert.Contains(t, stdout, "-mail: a.smith@example.com\n")
	assert.Contains(t, stdout, "+title: Engineer\n")
	assert.Contains(t, stdout, "+dn: cn=Carol,ou=people,dc=example,dc=com\n")
	assert.Contains(t, stdout, "-dn: cn=Bob,ou=people,dc=example,dc=com\n")
	assert.True(t, strings.HasSuffix(stdout, "1 added, 1 removed, 1 modified\n"))

	stdout, _, err = e.run("diff", before, before)
	require.NoError(t, err)
	assert.Equal(t, "No changes (2 entries compared)\n", stdout)
}

func TestDiff_AttributesAndJSON(t *testing.T) {
	e := newTestEnv(t)
	before := e.file("before.ldif", snapshotLDIF)
	after := e.file("after.ldif", changedLDIF)

	stdout, _, err := e.run("diff", before, after, "-a", "cn", "--json")
	require.NoError(t, err)
	var resp struct {
		Data DiffData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, 1, resp.Data.Added)
	assert.Equal(t, 1, resp.Data.Removed)
	assert.Equal(t, 0, resp.Data.Modified, "mail and title are not compared")
	assert.Equal(t, 1, resp.Data.Unchanged)
	require.Len(t, resp.Data.Changes, 2)
	assert.Equal(t, "added", resp.Data.Changes[0].Type)
	assert.Equal(t, []DiffAttribute{{Name: "cn", New: []string{"Carol"}}}, resp.Data.Changes[0].Attributes)
}

func TestDiff_BadInputs(t *testing.T) {
	e := newTestEnv(t)
	before := e.file("before.ldif", snapshotLDIF)

	_, _, err := e.run("diff", before, filepath.Join(e.home, "missing.ldif"))
	assert.Equal(t, ExitNotFoundError, ExitCode(err))

	_, _, err = e.run("diff", before, e.file("sheet.csv", "dn\n"))
	assert.Equal(t, ExitUsageError, ExitCode(err))

	_, _, err = e.run("diff", before)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestVersion(t *testing.T) {
	e := newTestEnv(t)
	e.file(".loom/config.toml", "not toml at all [[[")
	stdout, _, err := e.run("version")
	require.NoError(t, err, "version does not load the config")
	assert.True(t, strings.HasPrefix(stdout, "loom "+Version+"\n"))
	assert.Contains(t, stdout, "Go Version:")
}
