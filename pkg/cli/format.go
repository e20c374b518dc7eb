package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatSize formats a byte count for display. With human set it uses
// binary units ("1.5 MiB"); otherwise it prints the exact count.
func FormatSize(n int64, human bool) string {
	if !human {
		return fmt.Sprintf("%d", n)
	}
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}
