package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kidoz/zbxctl/internal/errs"
)

// expandPattern resolves one input argument. Glob patterns expand to
// their matches (an empty match set is fine); plain paths pass through
// and go through the same regular-file filter as everything else.
func expandPattern(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[") {
		return []string{pattern}, nil
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errs.Wrap(errs.KindConfig, fmt.Sprintf("bad glob pattern %q", pattern), err)
	}
	return matches, nil
}
