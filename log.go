package douyin

import (
	"log"
	"os"
)

// perfEnabled gates the timing diagnostics; set DOUYIN_PERF=1 to see them.
var perfEnabled = os.Getenv("DOUYIN_PERF") != ""

// perfLog prints a timing/diagnostic line when DOUYIN_PERF is set.
func perfLog(format string, args ...any) {
	if perfEnabled {
		log.Printf("[perf] "+format, args...)
	}
}
