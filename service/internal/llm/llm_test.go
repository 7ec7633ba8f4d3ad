// internal/llm/llm_test.go
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	engine "github.com/jason-s-yu/idiomchain/engine"
	"github.com/jason-s-yu/idiomchain/service/internal/battle"
	"github.com/jason-s-yu/idiomchain/service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roles(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Role
	}
	return out
}

func TestBuildMessages_SideA(t *testing.T) {
	msgs := BuildMessages([]string{"意气风发", "发人深省"}, engine.SideA, "一心一意", "")

	assert.Equal(t, []string{"system", "user", "assistant", "user"}, roles(msgs))
	assert.Equal(t, DefaultSystemPrompt, msgs[0].Content)
	assert.Equal(t, "一心一意", msgs[1].Content)
	assert.Equal(t, "意气风发", msgs[2].Content)
	assert.Equal(t, "发人深省", msgs[3].Content)
}

func TestBuildMessages_SideBFirstTurn(t *testing.T) {
	msgs := BuildMessages(nil, engine.SideB, "一心一意", "custom")

	require.Len(t, msgs, 2)
	assert.True(t, strings.HasPrefix(msgs[0].Content, "custom"))
	assert.Contains(t, msgs[0].Content, "「一心一意」")
	assert.Equal(t, Message{Role: RoleUser, Content: "一心一意"}, msgs[1])
}

func TestBuildMessages_SideBAlternates(t *testing.T) {
	msgs := BuildMessages([]string{"意气风发", "发人深省", "省吃俭用"}, engine.SideB, "一心一意", "")

	assert.Equal(t, []string{"system", "user", "assistant", "user"}, roles(msgs))
	assert.Equal(t, "意气风发", msgs[1].Content)
	assert.Contains(t, msgs[0].Content, "一心一意")
}

func completionServer(t *testing.T, status int, content string, seen *completionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
			return
		}
		resp := map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": content}}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func moveRequest(baseURL string) battle.MoveRequest {
	return battle.MoveRequest{
		Player:      models.ModelConfig{BaseURL: baseURL + "/v1/", APIKey: "sk-test", Model: "test-model"},
		Side:        engine.SideA,
		StartPhrase: "一心一意",
		Round:       1,
	}
}

func TestClient_NextMove(t *testing.T) {
	var seen completionRequest
	srv := completionServer(t, http.StatusOK, `好的：{"word":"意气风发","next_word":"发人深省","success":true}`, &seen)
	defer srv.Close()

	claim, err := NewClient(time.Second).NextMove(context.Background(), moveRequest(srv.URL))

	require.NoError(t, err)
	assert.Equal(t, engine.MoveClaim{Phrase: "意气风发", Witness: "发人深省", Success: true}, claim)
	assert.Equal(t, "test-model", seen.Model)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "一心一意", seen.Messages[1].Content)
}

func TestClient_UnparseableReply(t *testing.T) {
	srv := completionServer(t, http.StatusOK, "我认输了", nil)
	defer srv.Close()

	_, err := NewClient(time.Second).NextMove(context.Background(), moveRequest(srv.URL))
	assert.ErrorIs(t, err, ErrBadReply)
}

func TestClient_HTTPError(t *testing.T) {
	srv := completionServer(t, http.StatusTooManyRequests, "", nil)
	defer srv.Close()

	_, err := NewClient(time.Second).NextMove(context.Background(), moveRequest(srv.URL))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(50 * time.Millisecond)
	req := moveRequest(srv.URL)
	req.Player.APIKey = ""
	_, err := c.NextMove(context.Background(), req)
	assert.Error(t, err)
}
