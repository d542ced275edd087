package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ImageFile は利用者から渡された画像バイナリと、そのメディアタイプです。
// 生成リクエストに使う前に一度だけ ImageRef に変換されます。
type ImageFile struct {
	Name      string
	MediaType string
	Data      []byte
}

// ImageRef は `data:<mediaType>;base64,<payload>` 形式の画像参照文字列です。
// 生成結果として返され、そのまま次の操作の入力になります。
//
// 文法:
//
//	ref    = [scheme ":"] mediaType ";" "base64" "," payload
//	header = ref の最初の "," より前
//
// mediaType は header 内の最初の ":" から次の ";" までの文字列です。
type ImageRef string

// InlineImage は ImageRef を分解した構造化表現です。
type InlineImage struct {
	MediaType string
	Payload   string // base64 エンコード済み
}

// NewImageRef はメディアタイプと生バイト列から ImageRef を作ります。
func NewImageRef(mediaType string, data []byte) ImageRef {
	return InlineImage{
		MediaType: mediaType,
		Payload:   base64.StdEncoding.EncodeToString(data),
	}.Ref()
}

// ParseImageRef は画像参照文字列を InlineImage に分解します。
// 区切りの "," が無い場合、または header 内にメディアタイプが見つからない場合は FormatError を返します。
func ParseImageRef(s string) (InlineImage, error) {
	header, payload, ok := strings.Cut(s, ",")
	if !ok {
		return InlineImage{}, &FormatError{Input: s, Reason: "区切り文字 ',' がありません"}
	}

	_, afterColon, ok := strings.Cut(header, ":")
	if !ok {
		return InlineImage{}, &FormatError{Input: s, Reason: "メディアタイプを特定できません"}
	}
	mediaType, _, ok := strings.Cut(afterColon, ";")
	if !ok || mediaType == "" {
		return InlineImage{}, &FormatError{Input: s, Reason: "メディアタイプを特定できません"}
	}

	return InlineImage{MediaType: mediaType, Payload: payload}, nil
}

// Parse は ParseImageRef のメソッド版です。
func (r ImageRef) Parse() (InlineImage, error) {
	return ParseImageRef(string(r))
}

// String は ImageRef をそのまま文字列として返します。
func (r ImageRef) String() string { return string(r) }

// Ref は InlineImage を ImageRef にシリアライズします。
func (i InlineImage) Ref() ImageRef {
	return ImageRef(i.String())
}

func (i InlineImage) String() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MediaType, i.Payload)
}

// Bytes はペイロードを base64 デコードして返します。
func (i InlineImage) Bytes() ([]byte, error) {
	if i.Payload == "" {
		return nil, &FormatError{Input: i.MediaType, Reason: "ペイロードが空です"}
	}
	data, err := base64.StdEncoding.DecodeString(i.Payload)
	if err != nil {
		return nil, &FormatError{Input: i.MediaType, Reason: "ペイロードを base64 デコードできません", Err: err}
	}
	return data, nil
}
