package content

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	wordsPerMinute = 200
	excerptLength  = 160
)

// textStats はレンダリング済みHTMLから推定読了時間（分）と抜粋を求める。
func textStats(body string) (readingMinutes int, excerpt string) {
	text := plainText(body)
	words := len(strings.Fields(text))
	if words > 0 {
		readingMinutes = (words + wordsPerMinute - 1) / wordsPerMinute
	}
	return readingMinutes, truncateText(text, excerptLength)
}

// plainText はHTMLのテキストノードを空白区切りで連結する。
// pre内のコードは読了時間と抜粋の対象から外す。
func plainText(body string) string {
	z := html.NewTokenizer(strings.NewReader(body))
	var sb strings.Builder
	preDepth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOFまたは不正な入力。どちらもここまでのテキストを返す
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "pre" {
				preDepth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "pre" && preDepth > 0 {
				preDepth--
			}
		case html.TextToken:
			if preDepth == 0 {
				sb.Write(z.Text())
				sb.WriteByte(' ')
			}
		}
	}
}

// truncateText はtextをlimit文字以内に単語境界で切り詰める。
func truncateText(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
