// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はMarkdownからレンダリングした記事HTMLをサニタイズし、
// ページへそのまま埋め込める状態にする。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 記事表示に必要なタグと属性のみを通過させる。
package security

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はHTMLコンテンツのサニタイズ機能のインターフェースを定義する。
// コンテンツ読み込み時、レンダリング直後に使用される。
type ContentSanitizerService interface {
	// Sanitize はHTMLコンテンツをサニタイズして安全なHTMLを返す。
	// 見出し、段落、強調、リンク、リスト、コード、表、画像のみを通過させ、
	// script, iframe, styleタグおよびon*イベント属性を除去する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(rawHTML string) string
}

var (
	headingIDPattern     = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	codeLanguagePattern  = regexp.MustCompile(`^language-[A-Za-z0-9_+#-]+$`)
	cellAlignPattern     = regexp.MustCompile(`^(left|center|right)$`)
	headingElements      = []string{"h1", "h2", "h3", "h4", "h5", "h6"}
	tableCellElements    = []string{"th", "td"}
	articleBlockElements = []string{
		"p", "br", "hr", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em", "del",
		"table", "thead", "tbody", "tr",
	}
)

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// ポリシーの内容:
//   - 許可タグ: h1-h6, p, br, hr, ul, ol, li, blockquote, pre, code, strong, em, del, 表関連, a, img
//   - 見出しのid属性（アンカーリンク用）、codeのlanguage-*クラス、表セルの配置を許可
//   - URLスキーム: http, https, mailto と相対URL（サイト内リンク）
//   - 外部リンク: target="_blank" と rel="noopener" を自動付与
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(articleBlockElements...)
	p.AllowElements(headingElements...)
	p.AllowElements(tableCellElements...)

	p.AllowAttrs("id").Matching(headingIDPattern).OnElements(headingElements...)
	p.AllowAttrs("class").Matching(codeLanguagePattern).OnElements("code")
	p.AllowAttrs("align").Matching(cellAlignPattern).OnElements(tableCellElements...)
	p.AllowStyles("text-align").MatchingEnum("left", "center", "right").OnElements(tableCellElements...)

	// 記事内リンクはサイト内の相対パスを含むため相対URLを許可する
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https", "mailto")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoFollowOnFullyQualifiedLinks(true)

	p.AllowAttrs("src", "alt", "title").OnElements("img")

	return &contentSanitizer{
		policy: p,
	}
}

// Sanitize はHTMLコンテンツをサニタイズして安全なHTMLを返す。
func (s *contentSanitizer) Sanitize(rawHTML string) string {
	return s.policy.Sanitize(rawHTML)
}
