package generator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"
	"google.golang.org/genai"
)

// FilePart は画像バイナリを一度 ImageRef に変換し、埋め込み画像パートにします。
// メディアタイプが空の場合は内容から判定します。
func FilePart(file domain.ImageFile) (*genai.Part, error) {
	if len(file.Data) == 0 {
		return nil, &domain.FormatError{Input: file.Name, Reason: "画像データが空です"}
	}

	mediaType := file.MediaType
	if mediaType == "" {
		sniffed, ok := imgutil.SniffImageType(file.Data)
		if !ok {
			return nil, &domain.FormatError{Input: file.Name, Reason: "メディアタイプを判定できません (" + sniffed + ")"}
		}
		mediaType = sniffed
	}

	return RefPart(domain.NewImageRef(mediaType, file.Data))
}

// RefPart は ImageRef を解析して埋め込み画像パートにします。
func RefPart(ref domain.ImageRef) (*genai.Part, error) {
	img, err := ref.Parse()
	if err != nil {
		return nil, err
	}
	data, err := img.Bytes()
	if err != nil {
		return nil, err
	}
	return genai.NewPartFromBytes(data, img.MediaType), nil
}

// filePart は圧縮オプションを適用してから FilePart を呼び出します。
// 圧縮に失敗した場合は元の画像をそのまま使います。
func (c *Client) filePart(ctx context.Context, file domain.ImageFile) (*genai.Part, error) {
	if c.compressionQuality > 0 && len(file.Data) > 0 {
		compressed, err := imgutil.CompressToJPEG(file.Data, c.compressionQuality)
		if err != nil {
			slog.WarnContext(ctx, "画像の圧縮に失敗したため元データで続行します", "name", file.Name, "error", err)
		} else {
			file = domain.ImageFile{Name: file.Name, MediaType: "image/jpeg", Data: compressed}
		}
	}
	return FilePart(file)
}

// executeRequest はパーツ群を1件のユーザーコンテンツとして送信し、応答を ImageRef に変換します。
func (c *Client) executeRequest(ctx context.Context, op string, parts []*genai.Part) (domain.ImageRef, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		ResponseModalities: responseModalities,
	}

	slog.InfoContext(ctx, "Geminiに画像生成をリクエストします", "operation", op, "model", c.model, "parts", len(parts))
	resp, err := c.gen.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", &domain.TransportError{Op: "Gemini画像生成エラー (" + op + ")", Err: err}
	}

	ref, err := decodeResponse(ctx, resp)
	if err != nil {
		slog.WarnContext(ctx, "Geminiの応答から画像を取得できませんでした", "operation", op, "error", err)
		return "", err
	}
	return ref, nil
}

// decodeResponse は Gemini の応答を ImageRef に変換します。
//
//  1. プロンプト自体がブロックされていれば BlockedError
//  2. 全候補・全パートを順に走査し、最初の画像パートを返す
//  3. 画像が無く、最初の候補の FinishReason が STOP 以外なら InterruptedError
//  4. それ以外は NoImageError（テキストがあれば添える）
func decodeResponse(ctx context.Context, resp *genai.GenerateContentResponse) (domain.ImageRef, error) {
	if resp == nil {
		return "", &domain.NoImageError{}
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", &domain.BlockedError{Reason: string(fb.BlockReason), Message: fb.BlockReasonMessage}
	}

	for i, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil {
				continue
			}
			blob := part.InlineData
			if blob.MIMEType == "" || len(blob.Data) == 0 {
				slog.WarnContext(ctx, "メディアタイプまたはデータが欠けた画像パートを無視しました", "candidate", i, "mime_type", blob.MIMEType, "bytes", len(blob.Data))
				continue
			}
			return domain.NewImageRef(blob.MIMEType, blob.Data), nil
		}
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		reason := resp.Candidates[0].FinishReason
		if reason != "" && reason != genai.FinishReasonStop {
			return "", &domain.InterruptedError{FinishReason: string(reason)}
		}
	}

	if text := responseText(resp); text != "" {
		return "", &domain.NoImageError{Text: text}
	}
	return "", &domain.NoImageError{}
}

// responseText は最初の候補に含まれるテキストパートを連結します。思考パートは除外します。
func responseText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	var texts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		texts = append(texts, part.Text)
	}
	return strings.TrimSpace(strings.Join(texts, ""))
}
