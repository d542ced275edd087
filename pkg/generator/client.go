package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"google.golang.org/genai"
)

// Client はファッション画像生成の3操作を提供するクライアントです。
// 生成後のフィールドは不変なので、複数の goroutine から同時に利用できます。
type Client struct {
	gen                ContentGenerator
	model              string
	compressionQuality int
}

// New は APIキーから genai クライアントを組み立てて Client を返します。
// APIキーが空の場合は通信を行わずに ConfigError を返します。
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &domain.ConfigError{Reason: "APIキーが設定されていません (GEMINI_API_KEY)"}
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, &domain.ConfigError{Reason: fmt.Sprintf("Geminiクライアントの初期化に失敗しました: %v", err)}
	}

	return NewClient(gc.Models, append([]Option{WithModel(cfg.Model)}, opts...)...)
}

// NewClient は依存関係を注入して Client を初期化します。
func NewClient(gen ContentGenerator, opts ...Option) (*Client, error) {
	if gen == nil {
		return nil, &domain.ConfigError{Reason: "ContentGenerator is required"}
	}

	c := &Client{
		gen:   gen,
		model: DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model は使用中のモデル名を返します。
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

func (c *Client) ready() error {
	if c == nil || c.gen == nil {
		return &domain.ConfigError{Reason: "クライアントが初期化されていません"}
	}
	return nil
}
