package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"google.golang.org/genai"
)

// GenerateModelImage は利用者の写真から、本人らしさを保ったスタジオ背景のモデル画像を生成するのだ。
func (c *Client) GenerateModelImage(ctx context.Context, userImage domain.ImageFile) (domain.ImageRef, error) {
	if err := c.ready(); err != nil {
		return "", err
	}

	userPart, err := c.filePart(ctx, userImage)
	if err != nil {
		return "", fmt.Errorf("利用者画像の変換に失敗しました: %w", err)
	}

	parts := []*genai.Part{
		userPart,
		genai.NewPartFromText(modelImagePrompt),
	}
	return c.executeRequest(ctx, opModelImage, parts)
}

// GenerateVirtualTryOn はモデル画像の衣服を衣服画像のものに置き換えるのだ。
// パーツの順序は [モデル画像, 衣服画像, 指示文] で固定なのだ。
func (c *Client) GenerateVirtualTryOn(ctx context.Context, modelImage domain.ImageRef, garment domain.ImageFile) (domain.ImageRef, error) {
	if err := c.ready(); err != nil {
		return "", err
	}

	modelPart, err := RefPart(modelImage)
	if err != nil {
		return "", fmt.Errorf("モデル画像の変換に失敗しました: %w", err)
	}
	garmentPart, err := c.filePart(ctx, garment)
	if err != nil {
		return "", fmt.Errorf("衣服画像の変換に失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "試着画像の生成を準備中", "garment", garment.Name)
	parts := []*genai.Part{
		modelPart,
		garmentPart,
		genai.NewPartFromText(virtualTryOnPrompt),
	}
	return c.executeRequest(ctx, opVirtualTryOn, parts)
}

// GeneratePoseVariation は合成画像を別の視点から再生成するのだ。
// poseInstruction はそのままプロンプトに埋め込まれるので、呼び出し側で内容を管理してほしいのだ。
func (c *Client) GeneratePoseVariation(ctx context.Context, tryOnImage domain.ImageRef, poseInstruction string) (domain.ImageRef, error) {
	if err := c.ready(); err != nil {
		return "", err
	}

	imgPart, err := RefPart(tryOnImage)
	if err != nil {
		return "", fmt.Errorf("試着画像の変換に失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "ポーズ変更画像の生成を準備中", "pose", poseInstruction)
	parts := []*genai.Part{
		imgPart,
		genai.NewPartFromText(buildPosePrompt(poseInstruction)),
	}
	return c.executeRequest(ctx, opPoseVariation, parts)
}
