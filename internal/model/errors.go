package model

import "fmt"

// APIError はクライアントに返すドメインエラーを表す。
// Message はそのままレスポンスボディに載るユーザー向け文言。
type APIError struct {
	Code    string // エラーコード
	Message string // ユーザー向けメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidEmail      = "INVALID_EMAIL"
	ErrCodeAlreadyRegistered = "ALREADY_REGISTERED"
	ErrCodePostNotFound      = "POST_NOT_FOUND"
	ErrCodeUnknownCategory   = "UNKNOWN_CATEGORY"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// InternalErrorMessage は内部エラー時に返す汎用メッセージ。
// 原因はログにのみ記録し、バックエンドの詳細は返さない。
const InternalErrorMessage = "Internal server error"

// NewInvalidEmailError はメールアドレス形式エラーを生成する。
func NewInvalidEmailError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidEmail,
		Message: "Please enter a valid email address",
	}
}

// NewAlreadyRegisteredError は登録済みメールアドレスのエラーを生成する。
func NewAlreadyRegisteredError() *APIError {
	return &APIError{
		Code:    ErrCodeAlreadyRegistered,
		Message: "This email is already registered",
	}
}

// NewPostNotFoundError はコンテンツ未検出エラーを生成する。
func NewPostNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodePostNotFound,
		Message: "Post not found",
	}
}

// NewUnknownCategoryError は未知のカテゴリ指定エラーを生成する。
func NewUnknownCategoryError() *APIError {
	return &APIError{
		Code:    ErrCodeUnknownCategory,
		Message: "Unknown content category",
	}
}

// NewRateLimitedError はレート制限超過エラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:    ErrCodeRateLimited,
		Message: "Too many requests. Please try again later.",
	}
}
