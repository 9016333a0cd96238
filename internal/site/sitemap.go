package site

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/hitoshi/secondlook/internal/model"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// StaticPaths はサイトマップに常に含める固定ページ。
var StaticPaths = []string{"/", "/blog"}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap は固定ページと全記事のsitemap.xmlを生成する。
// 公開日のある記事にはlastmodを付ける。
func Sitemap(baseURL string, posts []*model.Post) ([]byte, error) {
	set := urlSet{XMLNS: sitemapNamespace}

	for _, p := range StaticPaths {
		set.URLs = append(set.URLs, sitemapURL{Loc: baseURL + p})
	}
	for _, p := range posts {
		u := sitemapURL{Loc: baseURL + PostPath(p.Category, p.Slug)}
		if p.PublishedDate != nil {
			u.LastMod = p.PublishedDate.Format(time.DateOnly)
		}
		set.URLs = append(set.URLs, u)
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// RobotsTxt はクロールを全面許可しサイトマップを案内するrobots.txtを返す。
func RobotsTxt(baseURL string) string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + baseURL + "/sitemap.xml\n"
}
