package exporter

import (
	"regexp"
	"strings"
)

// unsafeFilenameRe matches path separators, characters reserved by
// Windows filesystems, and control characters. Zabbix object names are
// free-form text, so everything risky becomes an underscore.
var unsafeFilenameRe = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// sanitizeFilename makes an object name safe to use as a single path
// element.
func sanitizeFilename(name string) string {
	s := unsafeFilenameRe.ReplaceAllString(name, "_")
	s = strings.Trim(s, " .")
	if s == "" {
		return "_"
	}
	return s
}
