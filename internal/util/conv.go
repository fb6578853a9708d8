package util

import (
	"strconv"
)

// ParseUint 解析路径参数里的无符号整数ID
func ParseUint(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
