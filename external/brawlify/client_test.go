package brawlify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/brawl-tracker/internal/domain/metatier"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchBrawlerWinrates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/brawlers", r.URL.Path)
		_, _ = w.Write([]byte(`{"list":[
			{"id":16000000,"name":"Shelly","winRate":50.456,"imageUrl":"https://img/shelly.png"},
			{"id":16000001,"name":"Colt","stats":{"win_rate":"58.1"},"image":"https://img/colt.png"},
			{"id":16000002,"name":"Bull"},
			{"id":16000003,"stats":{"winrate":53}}
		]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL + "/v1/", Logger: logging.NewNop()})
	got, err := client.FetchBrawlerWinrates(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Colt", got[0].Name)
	assert.Equal(t, metatier.TierS, got[0].Tier)
	require.NotNil(t, got[0].ImageURL)
	assert.Equal(t, "https://img/colt.png", *got[0].ImageURL)

	assert.Equal(t, "Unknown", got[1].Name)
	assert.Equal(t, metatier.TierA, got[1].Tier)
	assert.Nil(t, got[1].ImageURL)

	assert.Equal(t, 50.46, got[2].Winrate)
	assert.Equal(t, metatier.TierB, got[2].Tier)
}

func TestClient_FetchBrawlerWinrates_UpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Logger: logging.NewNop()})
	_, err := client.FetchBrawlerWinrates(context.Background())
	require.Error(t, err)
	assert.True(t, crerr.Is(err, ErrTierListUnavailable))
}

func TestRateBrawlers_CapsAtTierListSize(t *testing.T) {
	t.Parallel()

	items := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		items = append(items, fmt.Sprintf(`{"id":%d,"name":"B%d","winRate":%d}`, i, i, 40+i%20))
	}
	doc := jsonvalue.MustParse(`{"list":[` + strings.Join(items, ",") + `]}`)

	got := RateBrawlers(doc)
	require.Len(t, got, TierListSize)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Winrate, got[i].Winrate)
	}
	assert.Empty(t, RateBrawlers(jsonvalue.MustParse(`{"items":[]}`)))
}
