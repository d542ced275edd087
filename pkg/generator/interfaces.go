package generator

import (
	"context"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"google.golang.org/genai"
)

// ContentGenerator は Gemini へのコンテンツ生成呼び出しを抽象化する通信層です。
// *genai.Models がそのままこれを満たします。
// 実装は1回の呼び出しにつき1回だけ送信し、応答を加工せずに返す必要があります。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ImageGenerator は UI やビジネスロジック層が利用する統合窓口です。
type ImageGenerator interface {
	// GenerateModelImage は利用者の写真からスタジオ撮影風のモデル画像を生成します。
	GenerateModelImage(ctx context.Context, userImage domain.ImageFile) (domain.ImageRef, error)
	// GenerateVirtualTryOn はモデル画像に衣服画像を着せた合成画像を生成します。
	GenerateVirtualTryOn(ctx context.Context, modelImage domain.ImageRef, garment domain.ImageFile) (domain.ImageRef, error)
	// GeneratePoseVariation は合成画像を別のポーズ・視点で再生成します。
	GeneratePoseVariation(ctx context.Context, tryOnImage domain.ImageRef, poseInstruction string) (domain.ImageRef, error)
}

var _ ImageGenerator = (*Client)(nil)
