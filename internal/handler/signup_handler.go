package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/hitoshi/secondlook/internal/metrics"
	"github.com/hitoshi/secondlook/internal/middleware"
	"github.com/hitoshi/secondlook/internal/model"
	"github.com/hitoshi/secondlook/internal/signup"
)

// maxSignupBodyBytes は登録リクエストボディの上限。
const maxSignupBodyBytes = 4 << 10

// SignupServiceInterface は登録ハンドラーが必要とするサービスインターフェース。
type SignupServiceInterface interface {
	Register(ctx context.Context, email string) error
}

// SignupHandler はウェイトリスト登録のHTTPハンドラー。
type SignupHandler struct {
	service  SignupServiceInterface
	recorder signup.Recorder
	validate *validator.Validate
}

// NewSignupHandler はSignupHandlerを生成する。
// recorderには入口で弾いた形式不正を記録する。nilの場合は記録しない。
func NewSignupHandler(service SignupServiceInterface, recorder signup.Recorder) *SignupHandler {
	return &SignupHandler{
		service:  service,
		recorder: recorder,
		validate: newValidator(),
	}
}

// signupRequest は登録リクエストのボディ。
type signupRequest struct {
	Email string `json:"email" validate:"required,signup_email"`
}

// signupResponse は登録成功時のレスポンス。
type signupResponse struct {
	Success bool `json:"success"`
}

// newValidator は登録用のカスタムタグを登録したvalidatorを返す。
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 登録タグ名は固定のため失敗しない
	_ = v.RegisterValidation("signup_email", func(fl validator.FieldLevel) bool {
		return signup.ValidEmail(fl.Field().String())
	})
	return v
}

// Signup はメール登録を処理する。
// POST /api/signup
func (h *SignupHandler) Signup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSignupBodyBytes)

	// JSONとして読めない、emailが文字列でない場合も形式不正として扱う
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.rejectInvalid(w)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.rejectInvalid(w)
		return
	}

	if err := h.service.Register(r.Context(), req.Email); err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, signupResponse{Success: true})
}

func (h *SignupHandler) rejectInvalid(w http.ResponseWriter) {
	if h.recorder != nil {
		h.recorder.RecordSignup(metrics.SignupResultInvalid)
	}
	middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidEmailError())
}
