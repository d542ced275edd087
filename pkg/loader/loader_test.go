package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PNGの最小構成バイナリ（シグネチャ含む）
var validPng = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90w\x53\xde")

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func TestNew(t *testing.T) {
	t.Run("go-http-kit のクライアントをそのまま渡せるのだ", func(t *testing.T) {
		l := New(httpkit.New(time.Second), &mockReader{})

		require.NotNil(t, l)
		assert.NotNil(t, l.httpClient)
		assert.NotNil(t, l.reader)
	})
}

func TestLoader_LoadFile(t *testing.T) {
	ctx := context.Background()

	t.Run("ローカルファイルを拡張子からメディアタイプ付きで読み込むのだ", func(t *testing.T) {
		p := writeTemp(t, "person.jpg", []byte("not really a jpeg"))

		file, err := New(nil, nil).LoadFile(ctx, p)

		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", file.MediaType)
		assert.Equal(t, "person.jpg", file.Name)
		assert.Equal(t, []byte("not really a jpeg"), file.Data)
	})

	t.Run("拡張子が無い場合は内容から判定するのだ", func(t *testing.T) {
		p := writeTemp(t, "garment", validPng)

		file, err := New(nil, nil).LoadFile(ctx, p)

		require.NoError(t, err)
		assert.Equal(t, "image/png", file.MediaType)
	})

	t.Run("画像でないデータは FormatError", func(t *testing.T) {
		p := writeTemp(t, "notes", []byte("hello"))

		_, err := New(nil, nil).LoadFile(ctx, p)

		assert.ErrorIs(t, err, domain.ErrFormat)
	})

	t.Run("存在しないファイルはエラー", func(t *testing.T) {
		_, err := New(nil, nil).LoadFile(ctx, filepath.Join(t.TempDir(), "missing.png"))
		assert.Error(t, err)
	})

	t.Run("パブリックなURLはHTTPクライアントで取得するのだ", func(t *testing.T) {
		httpMock := &mockHTTPClient{data: validPng}
		url := "https://93.184.216.34/images/shirt.png?size=large"

		file, err := New(httpMock, nil).LoadFile(ctx, url)

		require.NoError(t, err)
		assert.Equal(t, []string{url}, httpMock.fetched)
		assert.Equal(t, "image/png", file.MediaType)
	})

	t.Run("プライベートIPのURLは取得前にブロックされるのだ", func(t *testing.T) {
		httpMock := &mockHTTPClient{data: validPng}

		_, err := New(httpMock, nil).LoadFile(ctx, "http://10.0.0.5/metadata.png")

		assert.Error(t, err)
		assert.Empty(t, httpMock.fetched, "unsafe URL must not be fetched")
	})

	t.Run("HTTPクライアント未設定ならエラー", func(t *testing.T) {
		_, err := New(nil, nil).LoadFile(ctx, "https://93.184.216.34/a.png")
		assert.Error(t, err)
	})

	t.Run("HTTP取得エラーはそのまま返るのだ", func(t *testing.T) {
		cause := errors.New("503 service unavailable")
		httpMock := &mockHTTPClient{err: cause}

		_, err := New(httpMock, nil).LoadFile(ctx, "https://93.184.216.34/a.png")

		assert.ErrorIs(t, err, cause)
	})

	t.Run("gs:// は remoteio の Reader で読むのだ", func(t *testing.T) {
		reader := &mockReader{objects: map[string][]byte{"gs://bucket/model.png": validPng}}

		file, err := New(nil, reader).LoadFile(ctx, "gs://bucket/model.png")

		require.NoError(t, err)
		assert.Equal(t, validPng, file.Data)
		assert.Equal(t, "model.png", file.Name)
	})

	t.Run("Reader 未設定の gs:// はエラー", func(t *testing.T) {
		_, err := New(nil, nil).LoadFile(ctx, "gs://bucket/model.png")
		assert.Error(t, err)
	})
}

func TestLoader_LoadRef(t *testing.T) {
	ctx := context.Background()

	t.Run("data: で始まる文字列はそのまま画像参照になるのだ", func(t *testing.T) {
		ref, err := New(nil, nil).LoadRef(ctx, "data:image/png;base64,AAAA")
		require.NoError(t, err)
		assert.Equal(t, domain.ImageRef("data:image/png;base64,AAAA"), ref)
	})

	t.Run("画像参照を保存したテキストファイルを読み込めるのだ", func(t *testing.T) {
		p := writeTemp(t, "model.ref", []byte("data:image/png;base64,AAAA\n"))

		ref, err := New(nil, nil).LoadRef(ctx, p)

		require.NoError(t, err)
		assert.Equal(t, domain.ImageRef("data:image/png;base64,AAAA"), ref)
	})

	t.Run("壊れた画像参照ファイルは FormatError", func(t *testing.T) {
		p := writeTemp(t, "broken.ref", []byte("data:image/png;base64AAAA"))

		_, err := New(nil, nil).LoadRef(ctx, p)

		assert.ErrorIs(t, err, domain.ErrFormat)
	})

	t.Run("画像ファイルは画像参照に変換されるのだ", func(t *testing.T) {
		p := writeTemp(t, "model.png", validPng)

		ref, err := New(nil, nil).LoadRef(ctx, p)
		require.NoError(t, err)

		img, err := ref.Parse()
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.MediaType)
		data, err := img.Bytes()
		require.NoError(t, err)
		assert.Equal(t, validPng, data)
	})
}

func TestIsSafeURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"パブリックIP直接指定", "https://93.184.216.34/favicon.ico", false},

		{"不正なスキーム", "gopher://93.184.216.34", true},
		{"gs スキーム", "gs://my-bucket/path/to/image.png", true},
		{"ループバック", "http://127.0.0.1/admin", true},
		{"プライベートIP (クラスA)", "http://10.255.255.254/metadata", true},
		{"リンクローカル", "http://169.254.169.254/latest/meta-data", true},
		{"IPv6 ループバック", "http://[::1]/", true},
		{"パース不能", "::not a url", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			safe, err := IsSafeURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("IsSafeURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == safe {
				t.Errorf("%s: safe = %v, wantErr %v", tt.url, safe, tt.wantErr)
			}
		})
	}
}
