// Package apierr is the central structured-error sum-type used at every
// client-facing API boundary (spec.md §6/§7): {status, error_code,
// error_status, message, zh_message}.
package apierr

import "fmt"

type Code string

const (
	CodeAuthMissing        Code = "ERR_AUTH_MISSING"
	CodeAuthInvalid        Code = "ERR_AUTH_INVALID"
	CodeFileTooLarge       Code = "ERR_FILE_TOO_LARGE"
	CodeBatchLimitExceeded Code = "ERR_BATCH_LIMIT_EXCEEDED"
	CodeFormatUnsupported  Code = "ERR_FORMAT_UNSUPPORTED"
	CodeTaskFailed         Code = "ERR_TASK_FAILED"
)

// zhMessages gives each client-facing code a bilingual companion message,
// per spec.md §7 ("bilingual (en + zh) message on client-facing codes").
var zhMessages = map[Code]string{
	CodeAuthMissing:        "缺少认证信息",
	CodeAuthInvalid:        "认证信息无效",
	CodeFileTooLarge:       "文件过大",
	CodeBatchLimitExceeded: "批量大小超出限制",
	CodeFormatUnsupported:  "不支持的格式",
	CodeTaskFailed:         "任务执行失败",
}

type Error struct {
	Status int
	Code   Code
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return string(e.Code)
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.Status
}

func (e *Error) ZhMessage() string {
	if e == nil {
		return ""
	}
	return zhMessages[e.Code]
}

func New(status int, code Code, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Auth(missing bool, err error) *Error {
	code := CodeAuthInvalid
	if missing {
		code = CodeAuthMissing
	}
	return New(401, code, err)
}

func FileTooLarge(err error) *Error       { return New(413, CodeFileTooLarge, err) }
func BatchLimitExceeded(err error) *Error { return New(400, CodeBatchLimitExceeded, err) }
func FormatUnsupported(err error) *Error  { return New(400, CodeFormatUnsupported, err) }
func TaskFailed(err error) *Error         { return New(500, CodeTaskFailed, err) }
