package domain

import (
	"errors"
	"fmt"
)

// errors.Is で種別を判定するためのセンチネルです。
var (
	ErrConfig      = errors.New("configuration error")
	ErrFormat      = errors.New("image reference format error")
	ErrBlocked     = errors.New("request blocked")
	ErrInterrupted = errors.New("generation interrupted")
	ErrNoImage     = errors.New("no image returned")
	ErrTransport   = errors.New("transport error")
)

// ConfigError は認証情報の欠落やクライアント未初期化を表します。通信前に返されます。
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("設定エラー: %s", e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// FormatError は不正な画像参照や画像として扱えない入力を表します。
type FormatError struct {
	Input  string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("画像参照の形式が不正です: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("画像参照の形式が不正です: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// BlockedError はサービスがリクエスト自体を拒否したことを表します。
type BlockedError struct {
	Reason  string
	Message string
}

func (e *BlockedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Request was blocked. Reason: %s.", e.Reason)
	}
	return fmt.Sprintf("Request was blocked. Reason: %s. %s", e.Reason, e.Message)
}

func (e *BlockedError) Is(target error) bool { return target == ErrBlocked }

// InterruptedError は STOP 以外の理由で生成が終了したことを表します。
type InterruptedError struct {
	FinishReason string
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("Image generation stopped unexpectedly. Reason: %s. This often relates to safety settings.", e.FinishReason)
}

func (e *InterruptedError) Is(target error) bool { return target == ErrInterrupted }

// NoImageError は応答は成功したが画像パートが含まれていなかったことを表します。
// Text にはモデルが代わりに返したテキストが入ります。
type NoImageError struct {
	Text string
}

func (e *NoImageError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("The AI model responded with text instead of an image: %q", e.Text)
	}
	return "The AI model did not return an image. This can happen due to safety filters or if the request is too complex. Please try a different image."
}

func (e *NoImageError) Is(target error) bool { return target == ErrNoImage }

// TransportError は通信層の失敗をラップします。元のエラーは Unwrap で取り出せます。
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }
