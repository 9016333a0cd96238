package content

import (
	"fmt"

	"github.com/goliatone/go-slug"

	"github.com/hitoshi/secondlook/internal/model"
)

// LoadResult は1ファイルの読み込み結果。
// Errがnilの場合はPostが設定される。Warningsは表示は可能だが品質上の問題がある項目。
type LoadResult struct {
	Category model.Category
	Slug     string
	Post     *model.Post
	Err      error
	Warnings []string
}

// OK は読み込みに成功したかを返す。
func (r LoadResult) OK() bool {
	return r.Err == nil && r.Post != nil
}

// FileIssue はレポート上の1件の問題。
type FileIssue struct {
	Slug    string `json:"slug"`
	Message string `json:"message"`
}

// CategoryReport はカテゴリ単位の読み込み結果の集計。
type CategoryReport struct {
	Category model.Category `json:"category"`
	Loaded   int            `json:"loaded"`
	Failed   []FileIssue    `json:"failed"`
	Warnings []FileIssue    `json:"warnings"`
}

// Report は全カテゴリのコンテンツ品質レポート。
type Report struct {
	Categories []CategoryReport `json:"categories"`
}

// HasFailures は読み込みに失敗したファイルが1件でもあるかを返す。
func (r Report) HasFailures() bool {
	for _, c := range r.Categories {
		if len(c.Failed) > 0 {
			return true
		}
	}
	return false
}

func newCategoryReport(category model.Category, results []LoadResult) CategoryReport {
	cr := CategoryReport{
		Category: category,
		Failed:   []FileIssue{},
		Warnings: []FileIssue{},
	}
	for _, res := range results {
		if !res.OK() {
			cr.Failed = append(cr.Failed, FileIssue{Slug: res.Slug, Message: res.Err.Error()})
			continue
		}
		cr.Loaded++
		for _, w := range res.Warnings {
			cr.Warnings = append(cr.Warnings, FileIssue{Slug: res.Slug, Message: w})
		}
	}
	return cr
}

// slugWarning はファイル名由来のslugがURLとして正規の形でない場合に警告文を返す。
func slugWarning(name string) string {
	if slug.IsValid(name) {
		return ""
	}
	normalized, err := slug.Normalize(name)
	if err != nil || normalized == "" {
		return "slug is not URL-safe"
	}
	return fmt.Sprintf("slug is not canonical (suggested %q)", normalized)
}
