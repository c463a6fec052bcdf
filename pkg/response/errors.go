package response

import "errors"

// 业务错误码
const (
	// 失败
	Fail ResponseCode = 0
	// 参数解析错误
	ParseError ResponseCode = 1
	// 参数错误
	InvalidParameter ResponseCode = 2
	// 未登录
	Unauthorized ResponseCode = 401
	// 无权限
	Forbidden ResponseCode = 403
	// 资源不存在
	NotFound ResponseCode = 404
)

type BusinessError struct {
	Code ResponseCode
	Msg  string
	Err  error
}

// Error 实现 error 接口，方便 errors.Is / errors.As
func (e *BusinessError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

// Unwrap 返回底层错误
func (e *BusinessError) Unwrap() error {
	return e.Err
}

type ErrorOption func(*BusinessError)

func WithErrorCode(code ResponseCode) ErrorOption {
	return func(be *BusinessError) {
		be.Code = code
	}
}

func WithErrorMessage(msg string) ErrorOption {
	return func(be *BusinessError) {
		be.Msg = msg
	}
}

func WithError(err error) ErrorOption {
	return func(be *BusinessError) {
		be.Err = err
	}
}

func NewBusinessError(opts ...ErrorOption) *BusinessError {
	err := &BusinessError{
		Code: Fail,
		Msg:  "business error",
		Err:  nil,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// AsBusinessError 将任意错误转换为 BusinessError，非业务错误统一按 Fail 处理
func AsBusinessError(err error) *BusinessError {
	if err == nil {
		return nil
	}
	var be *BusinessError
	if errors.As(err, &be) {
		return be
	}
	return NewBusinessError(
		WithErrorCode(Fail),
		WithErrorMessage("internal error"),
		WithError(err),
	)
}

// NewError 以 err 的文本作为提示信息构造业务错误，便于调用方用 errors.Is 判断哨兵错误
func NewError(code ResponseCode, err error) *BusinessError {
	return NewBusinessError(
		WithErrorCode(code),
		WithErrorMessage(err.Error()),
		WithError(err),
	)
}
