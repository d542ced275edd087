package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"

	"github.com/shouni/gemini-tryon-kit/internal/config"
	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/generator"
	"github.com/shouni/gemini-tryon-kit/pkg/loader"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const usage = `usage: tryon <command> [flags]

commands:
  model  -in <path|url> -out <file>                    利用者の写真からモデル画像を生成
  tryon  -model <file|ref> -garment <path|url> -out <file>  モデル画像に衣服を着せる
  pose   -in <file|ref> -pose "<instruction>" -out <file>   別のポーズで再生成
  poses                                                ポーズ指示のプリセットを表示

入出力には gs://bucket/object も指定できます (GCS の認証情報が必要)。
`

// newIOFactory は gs:// の入出力があるときだけ呼ばれる。テストでは差し替える。
var newIOFactory = gcsfactory.New

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		slog.Error("処理に失敗しました", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string) error {
	if command == "poses" {
		for _, p := range domain.PoseInstructions {
			fmt.Println(p)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	in := fs.String("in", "", "入力画像 (path, URL, gs://, または data URI を含むファイル)")
	modelIn := fs.String("model", "", "モデル画像 (tryon 用)")
	garmentIn := fs.String("garment", "", "衣服画像 (tryon 用)")
	pose := fs.String("pose", "", "ポーズ指示 (pose 用)")
	out := fs.String("out", "", "出力ファイル (path または gs://)")
	writeRef := fs.Bool("ref", false, "画像ではなく data URI を出力する")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("-out を指定してください")
	}

	client, err := generator.New(ctx, generator.Config{APIKey: cfg.APIKey, Model: cfg.Model},
		generator.WithCompression(cfg.CompressionQuality))
	if err != nil {
		return err
	}
	rio, err := openRemoteIO(ctx, *in, *modelIn, *garmentIn, *out)
	if err != nil {
		return err
	}
	defer func() {
		if err := rio.Close(); err != nil {
			slog.WarnContext(ctx, "GCSクライアントのクローズに失敗しました", "error", err)
		}
	}()
	src := loader.New(httpkit.New(cfg.HTTPTimeout), rio.reader)

	var ref domain.ImageRef
	switch command {
	case "model":
		file, err := src.LoadFile(ctx, *in)
		if err != nil {
			return err
		}
		ref, err = client.GenerateModelImage(ctx, file)
		if err != nil {
			return err
		}

	case "tryon":
		modelRef, err := src.LoadRef(ctx, *modelIn)
		if err != nil {
			return err
		}
		garment, err := src.LoadFile(ctx, *garmentIn)
		if err != nil {
			return err
		}
		ref, err = client.GenerateVirtualTryOn(ctx, modelRef, garment)
		if err != nil {
			return err
		}

	case "pose":
		if *pose == "" {
			return errors.New("-pose を指定してください")
		}
		tryOnRef, err := src.LoadRef(ctx, *in)
		if err != nil {
			return err
		}
		ref, err = client.GeneratePoseVariation(ctx, tryOnRef, *pose)
		if err != nil {
			return err
		}

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("不明なコマンドです: %s", command)
	}

	if err := writeOutput(ctx, rio.writer, *out, ref, *writeRef); err != nil {
		return err
	}
	slog.InfoContext(ctx, "画像を書き出しました", "command", command, "out", *out)
	return nil
}

// remoteIO は gs:// の読み書きに使う go-remote-io のコンポーネントをまとめたものです。
// gs:// を使わない実行ではすべて nil のままです。
type remoteIO struct {
	reader remoteio.InputReader
	writer remoteio.OutputWriter
	closer io.Closer
}

// openRemoteIO は locations のいずれかが gs:// の場合だけ GCS クライアントを初期化します。
func openRemoteIO(ctx context.Context, locations ...string) (*remoteIO, error) {
	if !slices.ContainsFunc(locations, remoteio.IsGCSURI) {
		return &remoteIO{}, nil
	}

	factory, err := newIOFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("GCSクライアントを初期化できませんでした: %w", err)
	}
	reader, err := factory.InputReader()
	if err != nil {
		_ = factory.Close()
		return nil, fmt.Errorf("GCSの読み込みを準備できませんでした: %w", err)
	}
	writer, err := factory.OutputWriter()
	if err != nil {
		_ = factory.Close()
		return nil, fmt.Errorf("GCSへの書き込みを準備できませんでした: %w", err)
	}
	return &remoteIO{reader: reader, writer: writer, closer: factory}, nil
}

func (r *remoteIO) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// writeOutput は生成画像を path に書き出します。asRef なら data URI のテキストを書きます。
func writeOutput(ctx context.Context, w remoteio.OutputWriter, path string, ref domain.ImageRef, asRef bool) error {
	data, contentType, err := outputBytes(ref, asRef)
	if err != nil {
		return err
	}

	if remoteio.IsGCSURI(path) {
		if w == nil {
			return fmt.Errorf("gs:// への書き込みは設定されていません: %s", path)
		}
		return w.Write(ctx, path, bytes.NewReader(data), contentType)
	}
	return os.WriteFile(path, data, 0o644)
}

func outputBytes(ref domain.ImageRef, asRef bool) ([]byte, string, error) {
	if asRef {
		return []byte(ref.String() + "\n"), "text/plain", nil
	}
	img, err := ref.Parse()
	if err != nil {
		return nil, "", err
	}
	data, err := img.Bytes()
	if err != nil {
		return nil, "", err
	}
	return data, img.MediaType, nil
}
