// Package model はドメインモデルを定義する。
package model

import "time"

// Category はコンテンツの種別を表す。
type Category string

const (
	// CategoryArticle はブログ記事。
	CategoryArticle Category = "article"
	// CategoryComparison は比較ページ。
	CategoryComparison Category = "comparison"
	// CategoryFAQ はFAQページ。
	CategoryFAQ Category = "faq"
)

// categoryDirs はカテゴリごとの格納ディレクトリ（コンテンツルートからの相対パス）。
var categoryDirs = map[Category]string{
	CategoryArticle:    "blog",
	CategoryComparison: "comparison",
	CategoryFAQ:        "faq",
}

// Categories は全カテゴリを固定順で返す。
func Categories() []Category {
	return []Category{CategoryArticle, CategoryComparison, CategoryFAQ}
}

// Dir はカテゴリの格納ディレクトリを返す。未知のカテゴリの場合は空文字列を返す。
func (c Category) Dir() string {
	return categoryDirs[c]
}

// Valid は既知のカテゴリかどうかを返す。
func (c Category) Valid() bool {
	_, ok := categoryDirs[c]
	return ok
}

// ParseCategory は文字列をCategoryに変換する。
// URLで使われる別名（blog, compare）も受け付ける。
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "article", "blog", "blog-post":
		return CategoryArticle, true
	case "comparison", "compare":
		return CategoryComparison, true
	case "faq":
		return CategoryFAQ, true
	default:
		return "", false
	}
}

// Post はレンダリング済みのコンテンツ1件を表す。
// 読み込みのたびに新しく構築され、キャッシュや更新は行わない。
type Post struct {
	Slug        string
	Category    Category
	Title       string
	Description string

	// RawDate はfront-matterに書かれた日付文字列。未指定の場合はnil。
	RawDate *string
	// PublishedDate はRawDateを解釈した日時。未指定または解釈できない場合はnil。
	PublishedDate *time.Time

	// Body はサニタイズ済みのHTML。
	Body string
	// Keywords は任意のキーワード列。未指定の場合はnil。
	Keywords []string

	// 内部管理用フィールド（表示には使わない）
	IdeaName *string
	Status   *string

	// ReadingMinutes は本文の推定読了時間（分）。
	ReadingMinutes int
	// Excerpt は本文先頭のプレーンテキスト抜粋。
	Excerpt string
}

// HasDate は公開日が設定されているかを返す。
func (p *Post) HasDate() bool {
	return p.PublishedDate != nil
}
