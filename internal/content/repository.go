package content

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/hitoshi/secondlook/internal/model"
)

// sourceSuffix はコンテンツとして扱うファイルの拡張子。
const sourceSuffix = ".md"

// errPostNotFound は指定のslugに対応するファイルが存在しないことを示す。
var errPostNotFound = errors.New("post not found")

// LoadRecorder はコンテンツ読み込みのメトリクス記録インターフェース。
type LoadRecorder interface {
	RecordContentLoadFailure(category string)
	RecordContentRender(duration time.Duration)
}

// Repository はカテゴリごとのディレクトリからPostを読み込む。
// 状態を持たないため、複数のgoroutineから同時に呼び出してよい。
type Repository struct {
	fsys     fs.FS
	renderer Renderer
	logger   *slog.Logger
	recorder LoadRecorder
}

// NewRepository はRepositoryを生成する。
// fsysのルートがコンテンツルートで、各カテゴリはその直下のディレクトリに置かれる。
// recorderはnilでもよい。
func NewRepository(fsys fs.FS, renderer Renderer, logger *slog.Logger, recorder LoadRecorder) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		fsys:     fsys,
		renderer: renderer,
		logger:   logger,
		recorder: recorder,
	}
}

// ListPosts はカテゴリ内の全Postを公開日の降順で返す。
// ディレクトリが存在しない場合は空のスライスを返す。
// 読み込めなかったファイルは結果から除外する。
// 公開日の無いPostは走査順の位置に留まり、公開日のあるPost同士だけが並べ替えられる。
func (r *Repository) ListPosts(category model.Category) []*model.Post {
	results := r.Load(category)

	posts := make([]*model.Post, 0, len(results))
	for _, res := range results {
		if res.OK() {
			posts = append(posts, res.Post)
		}
	}

	sortByDateDesc(posts)
	return posts
}

// GetPost はカテゴリとslugに対応するPostを返す。
// ファイルが存在しない、または読み込みに失敗した場合はfalseを返す。
// 失敗はwarnログに記録され、呼び出し元には伝播しない。
func (r *Repository) GetPost(category model.Category, slug string) (*model.Post, bool) {
	res := r.loadOne(category, slug)
	if res.Err != nil {
		return nil, false
	}
	return res.Post, true
}

// Load はカテゴリ内の全ファイルを走査し、ファイルごとの読み込み結果を走査順に返す。
// 失敗したファイルもLoadResult.Errに原因を持つ要素として含まれる。
func (r *Repository) Load(category model.Category) []LoadResult {
	dir := category.Dir()
	if dir == "" {
		return nil
	}

	entries, err := fs.ReadDir(r.fsys, dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("failed to read content directory",
				slog.String("category", string(category)),
				slog.String("error", err.Error()),
			)
		}
		return []LoadResult{}
	}

	results := make([]LoadResult, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, sourceSuffix) {
			continue
		}
		slug := strings.TrimSuffix(name, sourceSuffix)
		results = append(results, r.loadOne(category, slug))
	}
	return results
}

// Report は全カテゴリを走査してコンテンツ品質レポートを作成する。
func (r *Repository) Report() Report {
	report := Report{}
	for _, category := range model.Categories() {
		report.Categories = append(report.Categories, newCategoryReport(category, r.Load(category)))
	}
	return report
}

// loadOne は1ファイルを読み込み、結果を返す。
// ファイルが存在しない場合以外の失敗はログとメトリクスに記録する。
func (r *Repository) loadOne(category model.Category, slug string) LoadResult {
	res := LoadResult{Category: category, Slug: slug}

	post, warnings, err := r.readPost(category, slug)
	if err != nil {
		res.Err = err
		if !errors.Is(err, errPostNotFound) {
			r.logger.Warn("failed to load post",
				slog.String("category", string(category)),
				slog.String("slug", slug),
				slog.String("error", err.Error()),
			)
			if r.recorder != nil {
				r.recorder.RecordContentLoadFailure(string(category))
			}
		}
		return res
	}

	res.Post = post
	res.Warnings = warnings
	return res
}

// readPost はファイルを読み込み、front-matterの解析と本文のレンダリングを行う。
func (r *Repository) readPost(category model.Category, slug string) (*model.Post, []string, error) {
	dir := category.Dir()
	if dir == "" || !validSlugPath(slug) {
		return nil, nil, errPostNotFound
	}

	source, err := fs.ReadFile(r.fsys, path.Join(dir, slug+sourceSuffix))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, errPostNotFound
		}
		return nil, nil, fmt.Errorf("read %s/%s: %w", dir, slug, err)
	}

	fm, body, err := parseFrontMatter(source)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	html, err := r.renderer.Render(body)
	if err != nil {
		return nil, nil, err
	}
	if r.recorder != nil {
		r.recorder.RecordContentRender(time.Since(start))
	}

	post := &model.Post{
		Slug:     slug,
		Category: category,
		RawDate:  fm.Date,
		Body:     html,
		Keywords: fm.keywords(),
		IdeaName: fm.IdeaName,
		Status:   fm.Status,
	}

	var warnings []string
	if fm.Title != nil {
		post.Title = *fm.Title
	}
	if strings.TrimSpace(post.Title) == "" {
		warnings = append(warnings, "missing title")
	}
	if fm.Description != nil {
		post.Description = *fm.Description
	}
	if strings.TrimSpace(post.Description) == "" {
		warnings = append(warnings, "missing description")
	}
	if fm.Date != nil {
		if t, err := parseDate(*fm.Date); err == nil {
			post.PublishedDate = &t
		} else {
			warnings = append(warnings, err.Error())
		}
	}
	if w := slugWarning(slug); w != "" {
		warnings = append(warnings, w)
	}

	post.ReadingMinutes, post.Excerpt = textStats(html)

	return post, warnings, nil
}

// validSlugPath はslugがカテゴリディレクトリ直下の1ファイル名として妥当かを返す。
func validSlugPath(slug string) bool {
	if slug == "" || strings.HasPrefix(slug, ".") {
		return false
	}
	return !strings.ContainsAny(slug, `/\`)
}

// sortByDateDesc は公開日のあるPostだけを降順に並べ替える。
// 公開日の無いPostは元の位置に残るため、同じ入力に対して結果は常に同じになる。
func sortByDateDesc(posts []*model.Post) {
	var slots []int
	var dated []*model.Post
	for i, p := range posts {
		if p.HasDate() {
			slots = append(slots, i)
			dated = append(dated, p)
		}
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].PublishedDate.After(*dated[j].PublishedDate)
	})

	for i, slot := range slots {
		posts[slot] = dated[i]
	}
}
