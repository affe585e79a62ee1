package navigation

import "go.uber.org/zap"

// Session 持有一次登录期间的导航状态，进入时 Init，退出时 Clear。
type Session struct {
	history History
	rules   []Rule
	logger  *zap.Logger
	active  bool
}

// NewSession 创建会话；rules 为空时使用 DefaultRules。
func NewSession(logger *zap.Logger, rules ...Rule) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Session{rules: rules, logger: logger}
}

// Init 开始会话并以 landing 作为第一条记录。
func (s *Session) Init(landing string) {
	s.history.reset(nil)
	s.active = true
	s.history.Push(landing)
	s.logger.Debug("navigation session started", zap.String("landing", landing))
}

// Clear 结束会话并丢弃全部历史。
func (s *Session) Clear() {
	s.history.reset(nil)
	s.active = false
	s.logger.Debug("navigation session cleared")
}

// Active 报告会话是否已 Init 且未 Clear。
func (s *Session) Active() bool { return s.active }

// Visit 记录一次页面访问。会话未激活时忽略。
func (s *Session) Visit(path string) {
	if !s.active {
		return
	}
	s.history.Push(path)
}

// Back 返回上一个可返回的页面。
func (s *Session) Back(current string) string {
	target := s.history.Back(current, s.rules)
	s.logger.Debug("navigation back", zap.String("from", current), zap.String("to", target))
	return target
}

// History 返回从旧到新的历史副本。
func (s *Session) History() []string {
	return s.history.Entries()
}
