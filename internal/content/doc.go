// Package content はMarkdownファイルを読み込み、記事としてレンダリングする。
//
// コンテンツはカテゴリごとのディレクトリに `<slug>.md` として置かれ、
// 先頭のfront-matter（YAML）と本文から構成される。
// 読み込みは呼び出しのたびに行い、キャッシュは持たない。
// 1ファイルの不備で一覧やビルド全体が失敗しないよう、読み込み失敗は
// 呼び出し元へエラーとして伝播させず「存在しない」扱いにする。
// 失敗の詳細が必要な場合はLoadの結果（LoadResult）を参照する。
package content
