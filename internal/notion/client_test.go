package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cmoa-notion-sync/internal/components/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientOptions{
		Token:             "secret_test",
		BaseUrl:           server.URL,
		RequestsPerSecond: 1000,
	}, &telemetry.Recorder{})
}

func TestQueryAllFollowsCursor(t *testing.T) {
	var requests []QueryRequest

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/databases/db-id/query", r.URL.Path)
		assert.Equal(t, "Bearer secret_test", r.Header.Get("Authorization"))
		assert.Equal(t, DefaultVersion, r.Header.Get("Notion-Version"))

		var req QueryRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		w.Header().Set("Content-Type", "application/json")
		if req.StartCursor == "" {
			w.Write([]byte(`{"object":"list","results":[{"object":"page","id":"p1","properties":{}}],"next_cursor":"c2","has_more":true}`))
			return
		}
		w.Write([]byte(`{"object":"list","results":[{"object":"page","id":"p2","properties":{}}],"next_cursor":null,"has_more":false}`))
	}))

	filter := &Filter{And: []Filter{
		{Property: "URL", URL: &TextCondition{IsNotEmpty: true}},
		{Property: "あらすじ", RichText: &TextCondition{IsEmpty: true}},
	}}
	pages, err := client.QueryAll(context.Background(), "db-id", filter)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	require.Equal(t, "p1", pages[0].ID)
	require.Equal(t, "p2", pages[1].ID)

	require.Len(t, requests, 2)
	require.Equal(t, "c2", requests[1].StartCursor)
	require.Equal(t, maxPageSize, requests[0].PageSize)
	require.NotNil(t, requests[0].Filter)
	require.Len(t, requests[0].Filter.And, 2)
	require.True(t, requests[0].Filter.And[0].URL.IsNotEmpty)
	require.True(t, requests[0].Filter.And[1].RichText.IsEmpty)
}

func TestQueryDatabaseError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"object":"error","status":400,"code":"validation_error","message":"Could not find property with name or id: あらすじ"}`))
	}))

	_, err := client.QueryDatabase(context.Background(), "db-id", QueryRequest{})
	require.Error(t, err)
	require.True(t, IsCode(err, "validation_error"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 400, apiErr.Status)
}

func TestUpdatePage(t *testing.T) {
	var body map[string]map[string]any

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1/pages/page-id", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"page","id":"page-id"}`))
	}))

	err := client.UpdatePage(context.Background(), "page-id", map[string]any{
		"ジャンル": map[string]any{"multi_select": NamedOptions([]string{"少年"})},
	})
	require.NoError(t, err)
	require.Contains(t, body["properties"], "ジャンル")
}

func TestTextObjects(t *testing.T) {
	require.Empty(t, TextObjects(""))

	short := TextObjects("あらすじ")
	require.Len(t, short, 1)
	require.Equal(t, "あらすじ", short[0].Text.Content)

	long := make([]rune, MaxTextLength+10)
	for i := range long {
		long[i] = 'あ'
	}
	chunks := TextObjects(string(long))
	require.Len(t, chunks, 2)
	require.Len(t, []rune(chunks[0].Text.Content), MaxTextLength)
	require.Len(t, []rune(chunks[1].Text.Content), 10)
}

func TestPropertyValue(t *testing.T) {
	url := "https://www.cmoa.jp/title/1/"
	p := PropertyValue{
		Title:       []RichText{{PlainText: "先生は"}, {PlainText: "恋をした"}},
		URL:         &url,
		MultiSelect: []SelectOption{{Name: "少年"}, {Name: "青年"}},
	}
	require.Equal(t, "先生は恋をした", p.PlainText())
	require.Equal(t, url, p.URLValue())
	require.Equal(t, []string{"少年", "青年"}, p.Names())
	require.Equal(t, "", PropertyValue{}.URLValue())
	require.Equal(t, []string{}, PropertyValue{}.Names())
}
