package generator

import (
	"net/http"

	"google.golang.org/genai"
)

const (
	// DefaultModel は画像生成に使う Gemini のマルチモーダルモデルです。
	DefaultModel = "gemini-2.5-flash-image"

	opModelImage    = "model_image"
	opVirtualTryOn  = "virtual_try_on"
	opPoseVariation = "pose_variation"
)

// 画像とテキストの両方を応答として要求する
var responseModalities = []string{
	string(genai.ModalityImage),
	string(genai.ModalityText),
}

// Config は New で genai クライアントを組み立てるための設定です。
type Config struct {
	APIKey string
	Model  string
	// BaseURL は空ならSDKのデフォルトエンドポイントを使います。
	BaseURL    string
	HTTPClient *http.Client
}

// Option は Client の生成オプションです。
type Option func(*Client)

// WithModel は使用するモデル名を上書きします。空文字は無視されます。
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithCompression は利用者がアップロードした画像を送信前に指定品質のJPEGへ再エンコードします。
// 0 以下なら圧縮しません。
func WithCompression(quality int) Option {
	return func(c *Client) {
		c.compressionQuality = quality
	}
}
