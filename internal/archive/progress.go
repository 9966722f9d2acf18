package archive

import (
	"fmt"
	"time"
)

// Progress tracks an archive or verify run.
type Progress struct {
	Phase       string
	Name        string
	Done        int
	Total       int
	InputBytes  int64
	OutputBytes int64
	StartTime   time.Time
	Error       error
}

// ProgressFunc is called after every artifact and once at the end.
// Calls are serialized.
type ProgressFunc func(Progress)

// FormatBytes formats bytes as human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration formats duration as human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// DefaultProgressFunc prints progress to stdout.
func DefaultProgressFunc(p Progress) {
	switch p.Phase {
	case PhaseCompress:
		fmt.Printf("\r[Compress] %d / %d artifacts, %s -> %s",
			p.Done, p.Total, FormatBytes(p.InputBytes), FormatBytes(p.OutputBytes))
	case PhaseVerify:
		fmt.Printf("\r[Verify] %d / %d artifacts", p.Done, p.Total)
	case PhaseDone:
		fmt.Printf("\n[Done] %d artifacts, %s -> %s (%s)\n",
			p.Done, FormatBytes(p.InputBytes), FormatBytes(p.OutputBytes),
			FormatDuration(time.Since(p.StartTime)))
	case PhaseError:
		fmt.Printf("\n[Error] %s: %v\n", p.Name, p.Error)
	}
}
