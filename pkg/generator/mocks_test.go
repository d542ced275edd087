package generator

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

// --- Mocks ---

type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

// mockGenerator は ContentGenerator のテスト用モックなのだ。
type mockGenerator struct {
	mu    sync.Mutex
	calls []generateCall
	resp  *genai.GenerateContentResponse
	err   error
}

func (m *mockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, generateCall{model: model, contents: contents, config: config})
	return m.resp, m.err
}

func (m *mockGenerator) lastParts() []*genai.Part {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 || len(m.calls[len(m.calls)-1].contents) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1].contents[0].Parts
}

// imageResponse は1枚の画像を含む正常応答を作るヘルパーなのだ。
func imageResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}},
			},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}
