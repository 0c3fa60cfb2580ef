// Package richtext 清洗编辑器提交的 HTML
package richtext

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// Policy UGC 策略，额外允许编辑器用的对齐和高亮 class
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("p", "span", "code", "pre", "mark")
		p.AllowStyles("text-align").MatchingEnum("left", "right", "center", "justify").OnElements("p")
		p.AllowStyles("color", "background-color").OnElements("span")
		p.AllowElements("mark", "s", "u")
		p.RequireNoReferrerOnLinks(true)
		policy = p
	})
	return policy
}

// Sanitize 清洗 HTML，结果为空时返回 fallback
func Sanitize(html, fallback string) string {
	out := Policy().Sanitize(html)
	if strings.TrimSpace(out) == "" {
		return fallback
	}
	return out
}
