package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillforge_backend/internal/config"
	"skillforge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newChatServer 伪造上游chat completions接口，返回给定的消息内容
func newChatServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}
		resp := ChatCompletionResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message AIChatMessage `json:"message"`
		}{Message: AIChatMessage{Role: "assistant", Content: content}})
		json.NewEncoder(w).Encode(resp)
	}))
}

func newAIClient(baseURL string) *AIService {
	return NewAIService(config.AIConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
	})
}

func TestGenerateChallenge(t *testing.T) {
	payload := `{"title":"实现布隆过滤器","difficulty":"hard","pointsReward":30,"tags":["go","hash"],"testCases":["空集合","误判率"]}`
	srv := newChatServer(t, payload, http.StatusOK)
	defer srv.Close()

	challenge, err := newAIClient(srv.URL).GenerateChallenge(context.Background(), GenerateChallengeRequest{Topic: "布隆过滤器"})
	require.NoError(t, err)
	assert.Equal(t, "实现布隆过滤器", challenge.Title)
	assert.Equal(t, 30, challenge.PointsReward)
	assert.Len(t, challenge.Tags, 2)
}

func TestGenerateChallenge_StripsMarkdownFence(t *testing.T) {
	payload := "```json\n{\"title\":\"围栏内的JSON\"}\n```"
	srv := newChatServer(t, payload, http.StatusOK)
	defer srv.Close()

	challenge, err := newAIClient(srv.URL).GenerateChallenge(context.Background(), GenerateChallengeRequest{Topic: "x"})
	require.NoError(t, err)
	assert.Equal(t, "围栏内的JSON", challenge.Title)
}

func TestGenerateFeedback(t *testing.T) {
	payload := `{"score":88,"feedback":"整体不错","strengths":["可读性好"],"suggestions":["补充测试"]}`
	srv := newChatServer(t, payload, http.StatusOK)
	defer srv.Close()

	feedback, err := newAIClient(srv.URL).GenerateFeedback(context.Background(), GenerateFeedbackRequest{
		ChallengeTitle:    "挑战",
		SubmissionContent: "代码",
	})
	require.NoError(t, err)
	assert.Equal(t, 88, feedback.Score)
	assert.Len(t, feedback.Strengths, 1)
}

func TestAIService_MissingAPIKey(t *testing.T) {
	s := NewAIService(config.AIConfig{BaseURL: "http://unused"})

	_, err := s.GenerateChallenge(context.Background(), GenerateChallengeRequest{Topic: "x"})
	assert.ErrorIs(t, err, util.ErrMissingAPIKey)
}

func TestAIService_UpstreamError(t *testing.T) {
	srv := newChatServer(t, "", http.StatusBadGateway)
	defer srv.Close()

	_, err := newAIClient(srv.URL).GenerateChallenge(context.Background(), GenerateChallengeRequest{Topic: "x"})
	assert.ErrorIs(t, err, util.ErrExternalService)
}

func TestAIService_MalformedJSON(t *testing.T) {
	srv := newChatServer(t, "这不是JSON", http.StatusOK)
	defer srv.Close()

	_, err := newAIClient(srv.URL).GenerateChallenge(context.Background(), GenerateChallengeRequest{Topic: "x"})
	assert.ErrorIs(t, err, util.ErrExternalService)
}
