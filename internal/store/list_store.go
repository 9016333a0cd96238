package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// ListStore は従来方式（List+カウンタ）でメールアドレスを保存する。
// 既存データのキー配置（email_signups:<site>, email_signups_count:<site>）をそのまま使う。
//
// 重複確認（LRANGE）と追加（RPUSH）の間に排他は無い。同じ新規アドレスの同時登録は
// 両方とも成功しうる。また件数カウンタはListの長さと独立に増えるため、ずれることがある。
// 件数の少ない事前登録リストでのみ許容される方式で、新規のサイトにはSetStoreを使う。
type ListStore struct {
	client redis.Cmdable
	site   string
}

// NewListStore はListStoreを生成する。
func NewListStore(client redis.Cmdable, site string) *ListStore {
	return &ListStore{client: client, site: site}
}

// Add はemailがListに無ければ末尾に追加し、カウンタを1増やす。
// 既に存在する場合（大文字小文字を区別した完全一致）はfalseを返す。
func (s *ListStore) Add(ctx context.Context, email string) (bool, error) {
	existing, err := s.client.LRange(ctx, SignupListKey(s.site), 0, -1).Result()
	if err != nil {
		return false, fmt.Errorf("lrange %s: %w", SignupListKey(s.site), err)
	}
	if slices.Contains(existing, email) {
		return false, nil
	}

	// 追加とカウントは独立した2つの書き込みとして並行に発行する
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.client.RPush(gctx, SignupListKey(s.site), email).Err(); err != nil {
			return fmt.Errorf("rpush %s: %w", SignupListKey(s.site), err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.client.Incr(gctx, SignupCountKey(s.site)).Err(); err != nil {
			return fmt.Errorf("incr %s: %w", SignupCountKey(s.site), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return false, err
	}
	return true, nil
}

// Count はカウンタの値を返す。カウンタが未作成の場合は0を返す。
func (s *ListStore) Count(ctx context.Context) (int64, error) {
	n, err := s.client.Get(ctx, SignupCountKey(s.site)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", SignupCountKey(s.site), err)
	}
	return n, nil
}

// Len はListの長さ（実際に保存されているアドレス数）を返す。
func (s *ListStore) Len(ctx context.Context) (int64, error) {
	n, err := s.client.LLen(ctx, SignupListKey(s.site)).Result()
	if err != nil {
		return 0, fmt.Errorf("llen %s: %w", SignupListKey(s.site), err)
	}
	return n, nil
}
