package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"fleetcheck/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSyncID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: " BPMP-OKTOBER-2026 ", want: "BPMP-OKTOBER-2026"},
		{in: "team-a", want: "team-a"},
		{in: "Tim A", want: "Tim A"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "a/b", wantErr: true},
		{in: "a?b", wantErr: true},
		{in: "a#b", wantErr: true},
		{in: strings.Repeat("x", 101), wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeSyncID(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidSyncID, "input %q", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDefaultSyncID(t *testing.T) {
	assert.Equal(t, "BPMP-OKTOBER-2026", DefaultSyncID(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "BPMP-JANUARI-2027", DefaultSyncID(time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestResolveSyncIDPrecedence(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemoryKV()
	now := func() time.Time { return time.Date(2026, 10, 17, 3, 0, 0, 0, time.UTC) }

	s := NewReportStore(kv, Options{Now: now})
	require.NoError(t, s.Load(ctx))

	id, err := s.ResolveSyncID(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "BPMP-OKTOBER-2026", id, "falls back to default")

	_, err = s.SetSyncID(ctx, "stored-team")
	require.NoError(t, err)
	id, err = s.ResolveSyncID(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "stored-team", id, "stored id beats default")

	id, err = s.ResolveSyncID(ctx, "link-team")
	require.NoError(t, err)
	assert.Equal(t, "link-team", id, "link wins and keeps its case")

	reloaded := NewReportStore(kv, Options{Now: now})
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, "link-team", reloaded.SyncID(), "link id is persisted")

	_, err = s.ResolveSyncID(ctx, "bad/id")
	assert.ErrorIs(t, err, ErrInvalidSyncID)
	assert.Equal(t, "link-team", s.SyncID())
}

func TestShareLink(t *testing.T) {
	ctx := context.Background()
	s := NewReportStore(db.NewMemoryKV(), Options{})

	_, err := s.ShareLink("https://cek.example.org/")
	assert.ErrorIs(t, err, ErrNoSyncID)

	_, err = s.SetSyncID(ctx, "tim a&b")
	require.NoError(t, err)
	link, err := s.ShareLink("https://cek.example.org/app")
	require.NoError(t, err)
	assert.Equal(t, "https://cek.example.org/app?sync=tim+a%26b", link)
}
