// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfiles() []Profile {
	return []Profile{
		{Name: "corp", Host: "ldap.corp.example", Port: 389, Security: SecurityStartTLS, BindDN: "cn=reader,dc=corp,dc=example", BaseDN: "dc=corp,dc=example", PageSize: 200, TimeoutSecs: 5},
		{Name: "lab", Host: "10.0.0.5", Port: 636, Security: SecurityLDAPS, BaseDN: "dc=lab", PageSize: 500, TimeoutSecs: 10},
	}
}

func TestProfile_URL(t *testing.T) {
	tests := []struct {
		p    Profile
		want string
	}{
		{Profile{Host: "ldap.example.com"}, "ldap://ldap.example.com:389"},
		{Profile{Host: "ldap.example.com", Security: SecurityLDAPS}, "ldaps://ldap.example.com:636"},
		{Profile{Host: "ldap.example.com", Port: 3389, Security: SecurityStartTLS}, "ldap://ldap.example.com:3389"},
		{Profile{Host: "::1", Port: 389}, "ldap://[::1]:389"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.p.URL())
	}
}

func TestProfile_SetDefaults(t *testing.T) {
	p := Profile{Name: "x", Host: "h", Security: "LDAPS"}
	p.SetDefaults()
	assert.Equal(t, SecurityLDAPS, p.Security)
	assert.Equal(t, 636, p.Port)
	assert.Equal(t, 500, p.PageSize)
	assert.Equal(t, 10*time.Second, p.Timeout())

	q := Profile{Name: "y", Host: "h"}
	q.SetDefaults()
	assert.Equal(t, SecurityNone, q.Security)
	assert.Equal(t, 389, q.Port)
}

func TestProfile_Validate(t *testing.T) {
	assert.NoError(t, Profile{Name: "ok", Host: "h"}.Validate())
	assert.Error(t, Profile{Host: "h"}.Validate())
	assert.Error(t, Profile{Name: "x"}.Validate())
	assert.Error(t, Profile{Name: "x", Host: "h", Port: 70000}.Validate())
	assert.Error(t, Profile{Name: "x", Host: "h", Security: "tls1.3"}.Validate())
}

func TestProfile_Label(t *testing.T) {
	assert.Equal(t, "corp (ldap.corp.example:389)", sampleProfiles()[0].Label())
}

func TestExportImportProfiles_RoundTrip(t *testing.T) {
	text, err := ExportProfiles(sampleProfiles())
	require.NoError(t, err)
	assert.Contains(t, text, "[[profiles]]")
	assert.Contains(t, text, `name = "corp"`)

	back, err := ImportProfiles(text)
	require.NoError(t, err)
	assert.Equal(t, sampleProfiles(), back)
}

func TestExportProfiles_Empty(t *testing.T) {
	_, err := ExportProfiles(nil)
	assert.Error(t, err)
}

func TestImportProfiles_Errors(t *testing.T) {
	tests := map[string]string{
		"not toml":    "[[profiles]\nname=",
		"no profiles": "title = \"x\"\n",
		"no name":     "[[profiles]]\nhost = \"h\"\n",
		"no host":     "[[profiles]]\nname = \"x\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ImportProfiles(content)
			assert.Error(t, err)
		})
	}
}

func TestImportProfiles_FillsDefaults(t *testing.T) {
	got, err := ImportProfiles("[[profiles]]\nname = \"min\"\nhost = \"h\"\nsecurity = \"ldaps\"\n")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 636, got[0].Port)
	assert.Equal(t, "ldaps://h:636", got[0].URL())
}

func TestMergeProfiles(t *testing.T) {
	existing := sampleProfiles()
	imported := []Profile{
		{Name: "lab", Host: "10.0.0.6"},
		{Name: "new", Host: "n"},
	}
	merged, added, replaced := MergeProfiles(existing, imported)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, replaced)
	require.Len(t, merged, 3)
	assert.Equal(t, "corp", merged[0].Name)
	assert.Equal(t, "10.0.0.6", merged[1].Host)
	assert.Equal(t, "new", merged[2].Name)

	assert.Equal(t, "10.0.0.5", existing[1].Host, "input slice untouched")
}
