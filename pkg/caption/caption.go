package caption

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/image-viewport-kit/pkg/imgutil"
	"google.golang.org/genai"
)

const (
	// DefaultPrompt は代替テキスト生成の指示です。
	DefaultPrompt = "Write one concise sentence of alt text for this chart or figure. Mention what is plotted, not its styling."

	compressionQuality = 75
	compressAbove      = 1 << 20
)

var ErrNoCaption = errors.New("no caption in response")

var _ Generator = (gemini.GenerativeModel)(nil)

// Generator は Gemini への画像付きリクエストを抽象化します。
// gemini.GenerativeModel がこれを満たします。
type Generator interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// Captioner は Viewer で表示している画像の代替テキストを生成します。
type Captioner struct {
	gen    Generator
	model  string
	prompt string
}

// NewCaptioner は Captioner を初期化します。
func NewCaptioner(gen Generator, model string) (*Captioner, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	return &Captioner{gen: gen, model: model, prompt: DefaultPrompt}, nil
}

// Describe は画像データから代替テキストを生成します。
func (c *Captioner) Describe(ctx context.Context, data []byte) (string, error) {
	part, err := toPart(data)
	if err != nil {
		return "", err
	}

	parts := []*genai.Part{{Text: c.prompt}, part}
	resp, err := c.gen.GenerateWithParts(ctx, c.model, parts, gemini.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("caption generation failed: %w", err)
	}

	text, err := parseText(resp)
	if err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "代替テキストを生成しました", "model", c.model, "length", len(text))
	return text, nil
}

// toPart は画像データを InlineData の Part に変換します。大きい画像は JPEG に圧縮します。
func toPart(data []byte) (*genai.Part, error) {
	mime := mimetype.Detect(data).String()
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("MIMEタイプが画像ではありません: %s", mime)
	}

	if len(data) > compressAbove {
		if compressed, err := imgutil.CompressToJPEG(data, compressionQuality); err == nil {
			data = compressed
			mime = "image/jpeg"
		}
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: data}}, nil
}

func parseText(resp *gemini.Response) (string, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return "", fmt.Errorf("Geminiからの有効な応答がありませんでした")
	}

	// 最初の候補のみを利用する
	candidate := resp.RawResponse.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if text := strings.TrimSpace(part.Text); text != "" {
				return text, nil
			}
		}
	}

	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return "", fmt.Errorf("%w (FinishReason: %s)", ErrNoCaption, candidate.FinishReason)
	}
	return "", ErrNoCaption
}
