package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/kidoz/zbxctl/internal/errs"
)

// ReadSecretPairFile reads a legacy zabbix-cli auth file: a text file
// whose first non-blank line is "<username>::<secret>". Depending on
// which config knob pointed here, the secret is a password (auth file)
// or a session token (auth-token file). The 0600 rule applies the same
// as for the session file.
func ReadSecretPairFile(path string, allowInsecure bool) (username, secret string, err error) {
	if err := checkSecretFileMode(path, allowInsecure); err != nil {
		return "", "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", errs.Wrap(errs.KindSessionFile, fmt.Sprintf("cannot read auth file %s", path), err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		username, secret, ok := strings.Cut(line, "::")
		if !ok || username == "" || secret == "" {
			return "", "", errs.Newf(errs.KindSessionFile,
				"auth file %s is malformed: want \"<username>::<secret>\"", path)
		}
		return username, secret, nil
	}

	return "", "", errs.Newf(errs.KindSessionFile, "auth file %s is empty", path)
}
