// Package navigation 维护有界的页面访问历史，并按一组有序的跳过规则解析"返回"目标。
package navigation

import (
	"strings"
	"sync"
)

// MaxEntries 是历史栈的容量，超出时丢弃最早的记录。
const MaxEntries = 10

// Section 是路径所属的门户分区。
type Section string

const (
	SectionAdmin   Section = "admin"
	SectionInsurer Section = "insurer"
	SectionBroker  Section = "broker"
	SectionNone    Section = ""
)

// SectionOf 根据首段路径判断分区。
func SectionOf(path string) Section {
	first, _, _ := strings.Cut(strings.TrimPrefix(normalize(path), "/"), "/")
	switch Section(first) {
	case SectionAdmin, SectionInsurer, SectionBroker:
		return Section(first)
	default:
		return SectionNone
	}
}

// Dashboard 返回分区的默认落地页。
func (s Section) Dashboard() string {
	if s == SectionNone {
		return "/"
	}
	return "/" + string(s) + "/dashboard"
}

// History 是容量为 MaxEntries 的访问栈，最新的记录在末尾。
type History struct {
	mu      sync.Mutex
	entries []string
}

// Push 记录一次访问。与栈顶相同的路径被忽略。
func (h *History) Push(path string) {
	path = normalize(path)
	if path == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.entries); n > 0 && h.entries[n-1] == path {
		return
	}
	h.entries = append(h.entries, path)
	if over := len(h.entries) - MaxEntries; over > 0 {
		h.entries = append([]string(nil), h.entries[over:]...)
	}
}

// Entries 返回从旧到新的历史副本。
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Len 返回当前记录数。
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *History) reset(entries []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = entries
}

// Back 从新到旧查找第一个不被 rules 跳过的路径；找不到时返回当前分区的落地页。
// 命中的记录及其之后的记录会出栈。
func (h *History) Back(current string, rules []Rule) string {
	current = normalize(current)
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.entries) - 1; i >= 0; i-- {
		candidate := h.entries[i]
		if Skip(rules, candidate, current) {
			continue
		}
		h.entries = h.entries[:i]
		return candidate
	}
	h.entries = nil
	return SectionOf(current).Dashboard()
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
