package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config はCLIが環境変数と .env から読み込む設定です。
type Config struct {
	APIKey             string        `env:"GEMINI_API_KEY"`                           // 未設定の場合は generator.New が ConfigError を返す
	Model              string        `env:"GEMINI_IMAGE_MODEL"`                       // 空なら generator.DefaultModel
	HTTPTimeout        time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`            // 入力画像ダウンロードのタイムアウト
	CompressionQuality int           `env:"IMAGE_COMPRESSION_QUALITY" envDefault:"0"` // 0 なら圧縮しない
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`              // debug|info|warn|error
}

// Load は .env（存在すれば）を読み込んだうえで環境変数から Config を組み立てます。
// envFiles を省略した場合はカレントディレクトリの .env を読みます。
func Load(envFiles ...string) (Config, error) {
	// ファイルが無くてもエラーにしない
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("環境変数の解析に失敗しました: %w", err)
	}
	if cfg.CompressionQuality < 0 || cfg.CompressionQuality > 100 {
		return Config{}, fmt.Errorf("IMAGE_COMPRESSION_QUALITY は 0〜100 で指定してください: %d", cfg.CompressionQuality)
	}
	return cfg, nil
}

// SlogLevel は LogLevel を slog.Level に変換します。不明な値は info 扱いです。
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}
