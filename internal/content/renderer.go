package content

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/hitoshi/secondlook/internal/security"
)

// Renderer はMarkdown本文をページに埋め込めるHTMLへ変換する。
type Renderer interface {
	Render(markdown []byte) (string, error)
}

// MarkdownRenderer はgoldmark（GFM拡張）でHTMLを生成し、サニタイザを通して返す。
// goldmarkは生のHTMLを出力しない設定のため、本文中のHTMLタグはコメントに置き換わる。
type MarkdownRenderer struct {
	engine    goldmark.Markdown
	sanitizer security.ContentSanitizerService
}

// NewMarkdownRenderer はMarkdownRendererを生成する。
func NewMarkdownRenderer(sanitizer security.ContentSanitizerService) *MarkdownRenderer {
	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	return &MarkdownRenderer{
		engine:    engine,
		sanitizer: sanitizer,
	}
}

// Render はMarkdownをサニタイズ済みHTMLに変換する。
func (r *MarkdownRenderer) Render(markdown []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(markdown, &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return r.sanitizer.Sanitize(buf.String()), nil
}
