package hostcall

// mcpLogLevels mirrors the MCP logging/setLevel severity ordering
// (RFC 5424 syslog levels), least to most severe.
var mcpLogLevels = map[string]int{
	"debug":     0,
	"info":      1,
	"notice":    2,
	"warning":   3,
	"error":     4,
	"critical":  5,
	"alert":     6,
	"emergency": 7,
}

// logLevelAtLeast reports whether level is at least as severe as the
// service's configured minimum. An unrecognized level on either side
// defaults to "info" so a malformed value never silently suppresses or
// floods notifications.
func logLevelAtLeast(level, minimum string) bool {
	l, ok := mcpLogLevels[level]
	if !ok {
		l = mcpLogLevels["info"]
	}
	m, ok := mcpLogLevels[minimum]
	if !ok {
		m = mcpLogLevels["info"]
	}
	return l >= m
}
