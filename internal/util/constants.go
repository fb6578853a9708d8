package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// HiddenMarker 替换隐藏测试用例的输入/期望输出后返回给前端的占位值
const HiddenMarker = "Hidden"
