package dispatch

import "sort"

// Business codes returned in result.code.
const (
	CodeSuccess            = 0
	CodeUserNotFound       = 1002
	CodeInvalidCredentials = 1003
	CodeUnauthorized       = 1004
	CodeForbidden          = 1005
	CodeNotFound           = 1006
	CodeServerError        = 1007
	CodeValidationFailed   = 1008
	CodeInvalidDeviceID    = 1101
	CodeMissingAppID       = 4001
	CodeMissingUUID        = 4002
	CodeExamIDNotFound     = 11001
	CodeExamNotFound       = 11002
	CodeExamIDRequired     = 13001
	CodeResourceIDRequired = 13002
	CodeNotResourceOwner   = 14001
)

var messages = map[int]string{
	CodeUserNotFound:       "用户不存在",
	CodeInvalidCredentials: "无效的凭证",
	CodeUnauthorized:       "未授权",
	CodeForbidden:          "禁止访问",
	CodeNotFound:           "资源未找到",
	CodeServerError:        "服务器错误",
	CodeValidationFailed:   "验证失败",
	CodeInvalidDeviceID:    "idfa,idfv,uuid需要使用uuid格式",
	CodeMissingAppID:       "Header未传入appId",
	CodeMissingUUID:        "Header未传入uuid",
	CodeExamIDNotFound:     "试卷id不存在",
	CodeExamNotFound:       "试卷不存在",
	CodeExamIDRequired:     "请传入参数examId",
	CodeResourceIDRequired: "请传入资源id",
	CodeNotResourceOwner:   "用户权限不足，不是自己的资源",
}

// Message returns the localized description of a known business code.
func Message(code int) (string, bool) {
	msg, ok := messages[code]
	return msg, ok
}

// Describe returns Message(code) when known and fallback otherwise.
func Describe(code int, fallback string) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return fallback
}

// Codes lists the known business codes in ascending order.
func Codes() []int {
	codes := make([]int, 0, len(messages))
	for code := range messages {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}
