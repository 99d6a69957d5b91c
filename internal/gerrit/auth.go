package gerrit

import (
	"fmt"
	"os"
)

// ResolveCredentials gets Gerrit HTTP credentials from flags or environment
func ResolveCredentials(user, password string) (string, string, error) {
	user, password = ResolveCredentialsOptional(user, password)

	if user == "" || password == "" {
		return "", "", fmt.Errorf("gerrit credentials required:\nset --user/--password or GERRIT_USER/GERRIT_PASSWORD (or GERRIT_HTTP_PASSWORD) environment variables")
	}

	return user, password, nil
}

// ResolveCredentialsOptional gets credentials if available, but doesn't error if missing.
// Anonymous access is enough for listing projects.
func ResolveCredentialsOptional(user, password string) (string, string) {
	if user == "" {
		user = os.Getenv("GERRIT_USER")
	}
	if password == "" {
		password = os.Getenv("GERRIT_PASSWORD")
		if password == "" {
			password = os.Getenv("GERRIT_HTTP_PASSWORD")
		}
	}
	return user, password
}
