package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// migrateBatchSize は移行時に1回のSADDで送るアドレス数。
const migrateBatchSize = 500

// SetStore はサイトごとのRedis Setにメールアドレスを保存する。
type SetStore struct {
	client redis.Cmdable
	site   string
}

// NewSetStore はSetStoreを生成する。
func NewSetStore(client redis.Cmdable, site string) *SetStore {
	return &SetStore{client: client, site: site}
}

// Add はemailをSetに追加する。新規に追加された場合はtrue、既に存在した場合はfalseを返す。
// SADDの戻り値で判定するため、同時に同じアドレスを追加してもtrueになるのは1回だけ。
func (s *SetStore) Add(ctx context.Context, email string) (bool, error) {
	n, err := s.client.SAdd(ctx, SignupSetKey(s.site), email).Result()
	if err != nil {
		return false, fmt.Errorf("sadd %s: %w", SignupSetKey(s.site), err)
	}
	return n == 1, nil
}

// Count は登録件数（Setの要素数）を返す。
func (s *SetStore) Count(ctx context.Context) (int64, error) {
	n, err := s.client.SCard(ctx, SignupSetKey(s.site)).Result()
	if err != nil {
		return 0, fmt.Errorf("scard %s: %w", SignupSetKey(s.site), err)
	}
	return n, nil
}

// MigrateFromList は従来方式のListに入っているアドレスをSetへ取り込む。
// 新たにSetへ追加された件数を返す。何度実行しても結果は同じになる。
// 従来のListとカウンタは削除しない。
func (s *SetStore) MigrateFromList(ctx context.Context) (int64, error) {
	emails, err := s.client.LRange(ctx, SignupListKey(s.site), 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("lrange %s: %w", SignupListKey(s.site), err)
	}

	var added int64
	for start := 0; start < len(emails); start += migrateBatchSize {
		end := min(start+migrateBatchSize, len(emails))
		members := make([]interface{}, 0, end-start)
		for _, e := range emails[start:end] {
			members = append(members, e)
		}
		n, err := s.client.SAdd(ctx, SignupSetKey(s.site), members...).Result()
		if err != nil {
			return added, fmt.Errorf("sadd %s: %w", SignupSetKey(s.site), err)
		}
		added += n
	}
	return added, nil
}
