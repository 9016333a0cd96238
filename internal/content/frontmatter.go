package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// frontMatter はコンテンツファイル先頭のメタデータブロック。
// 未指定の任意項目と空文字列を区別するため、スカラー値はポインタで受ける。
type frontMatter struct {
	Title          *string  `yaml:"title"`
	Description    *string  `yaml:"description"`
	Date           *string  `yaml:"date"`
	TargetKeywords []string `yaml:"targetKeywords"`
	Keywords       []string `yaml:"keywords"`
	IdeaName       *string  `yaml:"ideaName"`
	Status         *string  `yaml:"status"`
}

// keywords はtargetKeywordsとkeywordsを結合して返す。どちらも未指定の場合はnil。
func (fm frontMatter) keywords() []string {
	if fm.TargetKeywords == nil && fm.Keywords == nil {
		return nil
	}
	out := make([]string, 0, len(fm.TargetKeywords)+len(fm.Keywords))
	out = append(out, fm.TargetKeywords...)
	out = append(out, fm.Keywords...)
	return out
}

// parseFrontMatter はソースをメタデータと本文に分割する。
// front-matterが無いファイルは全体を本文として扱う。
func parseFrontMatter(source []byte) (frontMatter, []byte, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &fm)
	if err != nil {
		return frontMatter{}, nil, fmt.Errorf("parse front-matter: %w", err)
	}
	return fm, body, nil
}

// dateLayouts はfront-matterのdateとして受け付ける書式。
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 -0700 MST",
	"January 2, 2006",
}

// parseDate はfront-matterの日付文字列を解釈する。
func parseDate(raw string) (time.Time, error) {
	v := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
