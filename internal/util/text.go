package util

import (
	"strings"
	"unicode"
)

// NormalizeText 转小写、去掉标点（保留字母、各类数字字符、下划线与空白）并去除首尾空白
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	text = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)
	return strings.TrimSpace(text)
}

// WordSet 规范化后按空白切分得到的词集合
func WordSet(text string) map[string]struct{} {
	fields := strings.Fields(NormalizeText(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// TruncateForLog 截断过长文本，用于日志中的 prompt 预览
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
