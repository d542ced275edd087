package loader

import (
	"bytes"
	"context"
	"io"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// --- Mocks ---

// mockHTTPClient は FetchBytes だけを実装し、残りは埋め込みのインターフェースに任せます。
type mockHTTPClient struct {
	httpkit.ClientInterface
	data    []byte
	err     error
	fetched []string
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.fetched = append(m.fetched, url)
	return m.data, m.err
}

// mockReader は remoteio.InputReader を満たすテスト用の実装です。
type mockReader struct {
	objects map[string][]byte
	err     error
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(bytes.NewReader(m.objects[uri])), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	for key := range m.objects {
		if err := fn(key); err != nil {
			return err
		}
	}
	return nil
}
