package navigation

import "strings"

// Rule 判断候选路径是否应在"返回"时被跳过。规则必须是纯函数。
type Rule struct {
	Name string
	Skip func(candidate, current string) bool
}

// Skip 按顺序评估规则，任一命中即跳过。
func Skip(rules []Rule, candidate, current string) bool {
	for _, r := range rules {
		if r.Skip(candidate, current) {
			return true
		}
	}
	return false
}

// SkipAuthPages 跳过登录、注册与密码找回页面。
var SkipAuthPages = Rule{
	Name: "auth-pages",
	Skip: func(candidate, _ string) bool {
		for _, seg := range strings.Split(candidate, "/") {
			switch seg {
			case "login", "logout", "register", "signup", "auth", "forgot-password", "reset-password":
				return true
			}
		}
		return false
	},
}

// SkipCurrent 跳过与当前页面相同的记录。
var SkipCurrent = Rule{
	Name: "current-page",
	Skip: func(candidate, current string) bool {
		return candidate == current
	},
}

// SkipQuotePagesIn 在当前页面属于 sections 时跳过报价相关页面。
func SkipQuotePagesIn(sections ...Section) Rule {
	return Rule{
		Name: "quote-pages",
		Skip: func(candidate, current string) bool {
			sec := SectionOf(current)
			matched := false
			for _, s := range sections {
				if s == sec {
					matched = true
					break
				}
			}
			return matched && isQuotePage(candidate)
		},
	}
}

// SkipOtherSections 跳过不属于当前分区的记录。当前页面不在任何分区时不生效。
var SkipOtherSections = Rule{
	Name: "other-sections",
	Skip: func(candidate, current string) bool {
		sec := SectionOf(current)
		return sec != SectionNone && SectionOf(candidate) != sec
	},
}

func isQuotePage(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg == "quote" || seg == "quotes" || strings.HasPrefix(seg, "quote-") {
			return true
		}
	}
	return false
}

// DefaultRules 是门户使用的规则顺序。
func DefaultRules() []Rule {
	return []Rule{
		SkipAuthPages,
		SkipCurrent,
		SkipQuotePagesIn(SectionInsurer, SectionAdmin),
		SkipOtherSections,
	}
}
