package usecase

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var timestampPattern = regexp.MustCompile(`(\d{8})_(\d{6})`)

// extractTimestamp pulls the creation time out of a backup filename such as
// mydb_20250102_150405.sql or mydb_20250102_150405_1.sql.gz.
func extractTimestamp(filename string) (time.Time, error) {
	matches := timestampPattern.FindStringSubmatch(filename)
	if len(matches) < 3 {
		return time.Time{}, fmt.Errorf("no timestamp found in %q", filename)
	}

	// Filenames are written with the local clock; parse them back the same way.
	return time.ParseInLocation("20060102_150405", matches[1]+"_"+matches[2], time.Local)
}

func isBackupFile(filename string) bool {
	return strings.HasSuffix(filename, ".sql") || strings.HasSuffix(filename, ".sql.gz")
}

// uniquePath returns dir/filename, or a _1, _2, ... suffixed variant when the
// name is already taken. Timestamps are second-granularity, so collisions are
// rare but possible; suffixing beats overwriting an existing dump.
func uniquePath(dir, filename string) string {
	path := filepath.Join(dir, filename)
	if _, err := os.Stat(path); err != nil {
		return path
	}

	ext := ".sql"
	base := strings.TrimSuffix(filename, ext)
	for i := 1; ; i++ {
		path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
		if _, err := os.Stat(path); err != nil {
			return path
		}
	}
}
