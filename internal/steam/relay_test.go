package steam

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ─── Fake fetcher ─────────────────────────────────────────────────────────────

type fakeFetcher struct {
	calls atomic.Int32
	fn    func(ctx context.Context, apiKey, steamID string) ([]byte, error)
}

func (f *fakeFetcher) GetPlayerAchievements(ctx context.Context, apiKey, steamID string) ([]byte, error) {
	f.calls.Add(1)
	return f.fn(ctx, apiKey, steamID)
}

func bodyFetcher(body string) *fakeFetcher {
	return &fakeFetcher{fn: func(context.Context, string, string) ([]byte, error) {
		return []byte(body), nil
	}}
}

func requireFault(t *testing.T, err error, kind FaultKind) *Fault {
	t.Helper()
	var f *Fault
	require.True(t, errors.As(err, &f), "expected *Fault, got %v", err)
	assert.Equal(t, kind, f.Kind)
	return f
}

// ─── Configuration ────────────────────────────────────────────────────────────

func TestFetchAchievements_MissingKeySkipsUpstream(t *testing.T) {
	fetcher := bodyFetcher(`{"playerstats":{"achievements":[]}}`)
	relay := NewRelay(zap.NewNop(), fetcher, "")

	_, err := relay.FetchAchievements(context.Background(), "76561197960287930")

	f := requireFault(t, err, KindConfiguration)
	assert.Equal(t, http.StatusInternalServerError, f.Status)
	assert.Equal(t, MsgMissingKey, f.Message)
	assert.EqualValues(t, 0, fetcher.calls.Load())
	assert.False(t, relay.Configured())
}

// ─── Success ──────────────────────────────────────────────────────────────────

func TestFetchAchievements_ReturnsRecordVerbatim(t *testing.T) {
	record := `{"steamID":"76561197960287930","gameName":"The Witcher 3: Wild Hunt","achievements":[{"apiname":"ACH_1","achieved":1,"unlocktime":1432166400}],"success":true}`
	fetcher := &fakeFetcher{fn: func(_ context.Context, apiKey, steamID string) ([]byte, error) {
		assert.Equal(t, "secret", apiKey)
		assert.Equal(t, "76561197960287930", steamID)
		return []byte(`{"playerstats":` + record + `}`), nil
	}}
	relay := NewRelay(zap.NewNop(), fetcher, "secret")

	out, err := relay.FetchAchievements(context.Background(), "76561197960287930")
	require.NoError(t, err)
	assert.Equal(t, record, string(out))
	assert.EqualValues(t, 1, fetcher.calls.Load())
}

func TestFetchAchievements_PassesPlayerIDUnvalidated(t *testing.T) {
	var got string
	fetcher := &fakeFetcher{fn: func(_ context.Context, _, steamID string) ([]byte, error) {
		got = steamID
		return []byte(`{"playerstats":{"achievements":[1]}}`), nil
	}}

	_, err := NewRelay(zap.NewNop(), fetcher, "k").FetchAchievements(context.Background(), "not-a-steam-id")
	require.NoError(t, err)
	assert.Equal(t, "not-a-steam-id", got)
}

// ─── Missing / empty record ───────────────────────────────────────────────────

func TestFetchAchievements_EmptyRecordIsNotFound(t *testing.T) {
	bodies := map[string]string{
		"absent":       `{"other":1}`,
		"null":         `{"playerstats":null}`,
		"empty object": `{"playerstats":{}}`,
		"empty array":  `{"playerstats":[]}`,
		"empty string": `{"playerstats":""}`,
		"zero":         `{"playerstats":0}`,
		"false":        `{"playerstats":false}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			_, err := NewRelay(zap.NewNop(), bodyFetcher(body), "k").FetchAchievements(context.Background(), "1")
			f := requireFault(t, err, KindNotFound)
			assert.Equal(t, http.StatusNotFound, f.Status)
			assert.Equal(t, MsgNotFound, f.Message)
		})
	}
}

func TestFetchAchievements_DuplicateKeyLastWins(t *testing.T) {
	_, err := NewRelay(zap.NewNop(), bodyFetcher(`{"playerstats":{"achievements":[1]},"playerstats":{}}`), "k").
		FetchAchievements(context.Background(), "1")
	requireFault(t, err, KindNotFound)

	out, err := NewRelay(zap.NewNop(), bodyFetcher(`{"playerstats":{},"playerstats":{"achievements":[1]}}`), "k").
		FetchAchievements(context.Background(), "1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"achievements":[1]}`, string(out))
}

// ─── Malformed responses ──────────────────────────────────────────────────────

func TestFetchAchievements_MalformedBodyIsInternal(t *testing.T) {
	for name, body := range map[string]string{
		"not json":   `<html>oops</html>`,
		"empty":      ``,
		"array root": `[{"playerstats":{"a":1}}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewRelay(zap.NewNop(), bodyFetcher(body), "k").FetchAchievements(context.Background(), "1")
			f := requireFault(t, err, KindInternal)
			assert.Equal(t, http.StatusInternalServerError, f.Status)
			assert.Contains(t, f.Message, "malformed Steam API response")
		})
	}
}

// ─── Upstream errors ──────────────────────────────────────────────────────────

func TestFetchAchievements_FaultsFromFetcherPassThrough(t *testing.T) {
	fetcher := &fakeFetcher{fn: func(context.Context, string, string) ([]byte, error) {
		return nil, UpstreamFault(http.StatusBadGateway)
	}}

	_, err := NewRelay(zap.NewNop(), fetcher, "k").FetchAchievements(context.Background(), "1")
	f := requireFault(t, err, KindUpstream)
	assert.Equal(t, http.StatusBadGateway, f.Status)
}

func TestFetchAchievements_PlainErrorBecomesInternal(t *testing.T) {
	fetcher := &fakeFetcher{fn: func(context.Context, string, string) ([]byte, error) {
		return nil, errors.New("dial tcp 127.0.0.1:1: connect: connection refused")
	}}

	_, err := NewRelay(zap.NewNop(), fetcher, "k").FetchAchievements(context.Background(), "1")
	f := requireFault(t, err, KindInternal)
	assert.Equal(t, "dial tcp 127.0.0.1:1: connect: connection refused", f.Message)
}

// ─── End to end against a fake Steam API ─────────────────────────────────────

func TestRelay_WithClient(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   FaultKind
		want   string
	}{
		{name: "ok", status: http.StatusOK, body: `{"playerstats":{"achievements":[{"apiname":"X"}]}}`, want: `{"achievements":[{"apiname":"X"}]}`},
		{name: "private", status: http.StatusForbidden, body: `{"error":"nope"}`, kind: KindPrivateProfile},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"nope"}`, kind: KindUpstream},
		{name: "empty record", status: http.StatusOK, body: `{"playerstats":{}}`, kind: KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			relay := NewRelay(zap.NewNop(), NewClient(zap.NewNop(), server.URL, "", time.Second), "k")
			out, err := relay.FetchAchievements(context.Background(), "1")
			if tt.kind == "" {
				require.NoError(t, err)
				assert.JSONEq(t, tt.want, string(out))
				return
			}
			requireFault(t, err, tt.kind)
		})
	}
}

func TestRelay_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := server.URL
	server.Close()

	relay := NewRelay(zap.NewNop(), NewClient(zap.NewNop(), addr, "", time.Second), "TOPSECRET")
	_, err := relay.FetchAchievements(context.Background(), "1")

	f := requireFault(t, err, KindInternal)
	assert.Contains(t, f.Message, "connection refused")
	assert.NotContains(t, f.Message, "TOPSECRET")
}
