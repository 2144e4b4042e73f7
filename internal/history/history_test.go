// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAddAndRecent(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, path := range []string{"a.csv", "b.ldif", "c.json"} {
		_, err := s.Add(ctx, Record{
			At:         base.Add(time.Duration(i) * time.Minute),
			Path:       path,
			Format:     "CSV",
			Count:      i + 1,
			Attributes: []string{"cn", "mail"},
		})
		require.NoError(t, err)
	}

	got, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c.json", got[0].Path)
	assert.Equal(t, "b.ldif", got[1].Path)
	assert.Equal(t, 3, got[0].Count)
	assert.Equal(t, []string{"cn", "mail"}, got[0].Attributes)
	assert.True(t, got[0].At.Equal(base.Add(2*time.Minute)))
	assert.True(t, got[0].Succeeded())

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAdd_AssignsIDAndTime(t *testing.T) {
	s := openMemory(t)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	r, err := s.Add(context.Background(), Record{Path: "x.xlsx", Format: "XLSX", Err: "disk full"})
	require.NoError(t, err)
	_, parseErr := uuid.Parse(r.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, fixed, r.At)
	assert.False(t, r.Succeeded())

	got, err := s.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r.ID, got[0].ID)
	assert.Equal(t, "disk full", got[0].Err)
	assert.Nil(t, got[0].Attributes)
}

func TestRecent_Empty(t *testing.T) {
	got, err := openMemory(t).Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClear(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	_, err := s.Add(ctx, Record{Path: "a.csv", Format: "CSV"})
	require.NoError(t, err)

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Add(context.Background(), Record{Path: "kept.ldif", Format: "LDIF", Count: 7})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].Count)
}

func TestClosedStore(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Add(context.Background(), Record{})
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Recent(context.Background(), 1)
	assert.ErrorIs(t, err, ErrClosed)
}
