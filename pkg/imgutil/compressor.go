package imgutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
)

// CompressToJPEG は画像データ（PNG, GIF, JPEG等）を指定品質のJPEGに再エンコードします。
// quality は 1〜100 の範囲に丸められます。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: clampQuality(quality)}); err != nil {
		return nil, fmt.Errorf("JPEGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// SniffImageType はバイト列の先頭からメディアタイプを判定します。
// 画像として判定できなかった場合は ok=false を返します。
func SniffImageType(data []byte) (mediaType string, ok bool) {
	mediaType = http.DetectContentType(data)
	return mediaType, strings.HasPrefix(mediaType, "image/")
}

func clampQuality(q int) int {
	switch {
	case q < 1:
		return 1
	case q > 100:
		return 100
	}
	return q
}
