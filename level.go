package flume

// Level classifies the severity of an event. Standard levels are provided
// as constants; any string can be used as a custom level, and unknown
// levels are treated like INFO for threshold purposes.
type Level string

// Severity levels, most to least severe.
const (
	FATAL Level = "FATAL"
	ERROR Level = "ERROR"
	WARN  Level = "WARN"
	INFO  Level = "INFO"
	DEBUG Level = "DEBUG"
	TRACE Level = "TRACE"

	// SILENT is a sentinel level: events tagged SILENT are never delivered
	// to any sink, regardless of the configured threshold. It exists so
	// callers can suppress an event without special-casing call sites.
	SILENT Level = "SILENT"
)

// severity maps each level to a numeric rank used for threshold checks.
// Lower rank means more severe.
func (l Level) severity() int {
	switch l {
	case SILENT:
		// Below every real level: a SILENT threshold admits nothing.
		return -1
	case FATAL:
		return 0
	case ERROR:
		return 1
	case WARN:
		return 2
	case INFO:
		return 3
	case DEBUG:
		return 4
	case TRACE:
		return 5
	default:
		// Unknown levels are treated like INFO so custom levels still
		// flow through a default threshold.
		return 3
	}
}

// Enabled reports whether an event at level l passes a logger configured
// with the given threshold. SILENT events never pass.
func (l Level) Enabled(threshold Level) bool {
	if l == SILENT {
		return false
	}
	return l.severity() <= threshold.severity()
}
