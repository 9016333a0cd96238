// Package signup はウェイトリストへのメール登録のドメインロジックを提供する。
package signup

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/hitoshi/secondlook/internal/metrics"
	"github.com/hitoshi/secondlook/internal/model"
)

// emailPattern は受け付けるメールアドレスの形。
// 空白と@を含まないローカル部、@、ドットを1つ以上含むドメイン。
// 空白には\sのASCII空白に加えて垂直タブ、Unicodeの区切り文字（NBSP、U+2028、全角空白など）とBOMを含める。
var emailPattern = regexp.MustCompile(`^[^\s\p{Z}\v\x{FEFF}@]+@[^\s\p{Z}\v\x{FEFF}@]+\.[^\s\p{Z}\v\x{FEFF}@]+$`)

// ValidEmail はemailが登録可能な形をしているかを返す。
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Store はサイト単位の登録済みアドレス集合を表す。
// Add は新規に追加した場合にtrue、既に存在した場合にfalseを返す。
type Store interface {
	Add(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// Recorder は登録結果を記録する。
type Recorder interface {
	RecordSignup(result string)
}

// Service はメール登録のサービス層。
type Service struct {
	store    Store
	logger   *slog.Logger
	recorder Recorder
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderがnilの場合は記録しない。
func NewService(store Store, logger *slog.Logger, recorder Recorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, recorder: recorder}
}

// Register はemailを登録する。
// 形式不正は InvalidEmail、登録済みは AlreadyRegistered の *model.APIError を返す。
// ストアの失敗はラップしたエラーをそのまま返す。
// アドレスは受け取ったまま比較・保存し、大文字小文字の正規化は行わない。
func (s *Service) Register(ctx context.Context, email string) error {
	if !ValidEmail(email) {
		s.record(metrics.SignupResultInvalid)
		return model.NewInvalidEmailError()
	}

	added, err := s.store.Add(ctx, email)
	if err != nil {
		s.record(metrics.SignupResultError)
		return fmt.Errorf("メールアドレスの登録に失敗しました: %w", err)
	}
	if !added {
		s.record(metrics.SignupResultDuplicate)
		return model.NewAlreadyRegisteredError()
	}

	s.record(metrics.SignupResultSuccess)

	// 件数はログ用。取得に失敗しても登録自体は成功している。
	count, err := s.store.Count(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to count signups", slog.String("error", err.Error()))
		return nil
	}
	s.logger.InfoContext(ctx, "signup registered", slog.Int64("total", count))

	return nil
}

func (s *Service) record(result string) {
	if s.recorder != nil {
		s.recorder.RecordSignup(result)
	}
}
