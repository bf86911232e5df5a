package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"skillforge_backend/internal/config"
	"skillforge_backend/internal/util"
	"strings"
	"time"
)

// ChallengeGenerator 是AI能力的窄接口，调用方不感知具体上游
type ChallengeGenerator interface {
	GenerateChallenge(ctx context.Context, req GenerateChallengeRequest) (*GeneratedChallenge, error)
	GenerateFeedback(ctx context.Context, req GenerateFeedbackRequest) (*GeneratedFeedback, error)
}

type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateChallengeRequest 生成挑战的参数
type GenerateChallengeRequest struct {
	Topic      string `json:"topic" binding:"required"`
	Difficulty string `json:"difficulty"`
	Language   string `json:"language"`
}

// GeneratedChallenge AI生成的挑战内容
type GeneratedChallenge struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Instructions     string   `json:"instructions"`
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	PointsReward     int      `json:"pointsReward"`
	EstimatedMinutes int      `json:"estimatedMinutes"`
	Tags             []string `json:"tags"`
	TestCases        []string `json:"testCases"`
}

// GenerateFeedbackRequest 生成评语的参数
type GenerateFeedbackRequest struct {
	ChallengeTitle       string `json:"challengeTitle" binding:"required"`
	ChallengeDescription string `json:"challengeDescription"`
	SubmissionContent    string `json:"submissionContent" binding:"required"`
	Language             string `json:"language"`
}

// GeneratedFeedback AI生成的提交评语
type GeneratedFeedback struct {
	Score       int      `json:"score"`
	Feedback    string   `json:"feedback"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// GenerateChallenge 调用上游生成一个结构化挑战
func (s *AIService) GenerateChallenge(ctx context.Context, req GenerateChallengeRequest) (*GeneratedChallenge, error) {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	language := req.Language
	if language == "" {
		language = "any language"
	}

	prompt := fmt.Sprintf(`Generate a coding challenge about %q at %s difficulty for %s.
Reply with a single JSON object, no prose, with keys:
title, description, instructions, category, difficulty, pointsReward (int),
estimatedMinutes (int), tags (string array), testCases (string array).`,
		req.Topic, difficulty, language)

	content, err := s.chat(ctx, "You are a coding-challenge author. Always answer with valid JSON only.", prompt)
	if err != nil {
		return nil, err
	}

	var challenge GeneratedChallenge
	if err := json.Unmarshal(extractJSON(content), &challenge); err != nil {
		return nil, fmt.Errorf("%w: malformed challenge JSON from upstream: %v", util.ErrExternalService, err)
	}
	return &challenge, nil
}

// GenerateFeedback 调用上游为一次提交生成评语
func (s *AIService) GenerateFeedback(ctx context.Context, req GenerateFeedbackRequest) (*GeneratedFeedback, error) {
	prompt := fmt.Sprintf(`Review this submission for the challenge %q.
Challenge description: %s

Submission:
%s

Reply with a single JSON object, no prose, with keys:
score (int 0-100), feedback (string), strengths (string array),
weaknesses (string array), suggestions (string array).`,
		req.ChallengeTitle, req.ChallengeDescription, req.SubmissionContent)

	content, err := s.chat(ctx, "You are a strict but encouraging code reviewer. Always answer with valid JSON only.", prompt)
	if err != nil {
		return nil, err
	}

	var feedback GeneratedFeedback
	if err := json.Unmarshal(extractJSON(content), &feedback); err != nil {
		return nil, fmt.Errorf("%w: malformed feedback JSON from upstream: %v", util.ErrExternalService, err)
	}
	return &feedback, nil
}

func (s *AIService) chat(ctx context.Context, system, prompt string) (string, error) {
	// 缺少凭证时直接失败，不发起调用
	if s.config.APIKey == "" {
		return "", util.ErrMissingAPIKey
	}

	reqBody := ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrExternalService, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: AI API error (status %d): %s", util.ErrExternalService, resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrExternalService, err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("%w: %s", util.ErrExternalService, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: AI returned no choices", util.ErrExternalService)
	}

	return result.Choices[0].Message.Content, nil
}

// extractJSON 剥离模型偶尔包裹的markdown代码围栏
func extractJSON(content string) []byte {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}
	return []byte(content)
}
