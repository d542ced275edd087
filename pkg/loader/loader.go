package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const dataRefPrefix = "data:"

// Loader はローカルパス・http(s) URL・gs:// URI から入力画像を読み込みます。
type Loader struct {
	httpClient httpkit.ClientInterface
	reader     remoteio.InputReader
}

// New は Loader を生成します。httpClient と reader は nil を許容し、
// その場合は対応するスキームの読み込みがエラーになります。
func New(httpClient httpkit.ClientInterface, reader remoteio.InputReader) *Loader {
	return &Loader{
		httpClient: httpClient,
		reader:     reader,
	}
}

// LoadFile は location の画像を読み込み domain.ImageFile を返します。
// メディアタイプは拡張子から推定し、判定できない場合は内容から判定します。
func (l *Loader) LoadFile(ctx context.Context, location string) (domain.ImageFile, error) {
	data, err := l.fetch(ctx, location)
	if err != nil {
		return domain.ImageFile{}, err
	}
	return toImageFile(ctx, location, data)
}

func toImageFile(ctx context.Context, location string, data []byte) (domain.ImageFile, error) {
	mediaType := mediaTypeFromName(location)
	if mediaType == "" {
		sniffed, ok := imgutil.SniffImageType(data)
		if !ok {
			return domain.ImageFile{}, &domain.FormatError{Input: location, Reason: fmt.Sprintf("画像ではないデータです (%s)", sniffed)}
		}
		mediaType = sniffed
	}

	slog.DebugContext(ctx, "入力画像を読み込みました", "location", location, "media_type", mediaType, "bytes", len(data))
	return domain.ImageFile{
		Name:      path.Base(filepath.ToSlash(location)),
		MediaType: mediaType,
		Data:      data,
	}, nil
}

// LoadRef は location から画像参照を読み込みます。
// 中身が "data:" で始まるテキストならそのまま ImageRef として扱い、
// それ以外は画像バイナリとして読み込んで ImageRef に変換します。
func (l *Loader) LoadRef(ctx context.Context, location string) (domain.ImageRef, error) {
	if strings.HasPrefix(location, dataRefPrefix) {
		return domain.ImageRef(location), nil
	}

	data, err := l.fetch(ctx, location)
	if err != nil {
		return "", err
	}
	if trimmed := bytes.TrimSpace(data); bytes.HasPrefix(trimmed, []byte(dataRefPrefix)) {
		ref := domain.ImageRef(trimmed)
		if _, err := ref.Parse(); err != nil {
			return "", err
		}
		return ref, nil
	}

	file, err := toImageFile(ctx, location, data)
	if err != nil {
		return "", err
	}
	return domain.NewImageRef(file.MediaType, file.Data), nil
}

func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	switch {
	case strings.HasPrefix(location, "gs://"):
		if l.reader == nil {
			return nil, fmt.Errorf("gs:// の読み込みは設定されていません: %s", location)
		}
		rc, err := l.reader.Open(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("GCSオブジェクトを開けませんでした: %w", err)
		}
		defer rc.Close()
		return io.ReadAll(rc)

	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		if l.httpClient == nil {
			return nil, fmt.Errorf("HTTPクライアントが設定されていません: %s", location)
		}
		if safe, err := IsSafeURL(location); err != nil || !safe {
			slog.WarnContext(ctx, "SSRFの可能性がある、または不正なURLをブロックしました", "url", location, "error", err)
			return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
		}
		return l.httpClient.FetchBytes(ctx, location)

	default:
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("ファイルを読み込めませんでした: %w", err)
		}
		return data, nil
	}
}

func mediaTypeFromName(location string) string {
	// URL のクエリ部分は拡張子判定から除外する
	name, _, _ := strings.Cut(location, "?")
	mt := mime.TypeByExtension(strings.ToLower(path.Ext(name)))
	mt, _, _ = strings.Cut(mt, ";")
	if !strings.HasPrefix(mt, "image/") {
		return ""
	}
	return mt
}
