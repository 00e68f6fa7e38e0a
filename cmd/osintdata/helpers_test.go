package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// testDatasetFiles is a minimal but complete dataset directory.
var testDatasetFiles = map[string]string{
	"sensitive_files_config_backup_creds_keys.txt": ".env\n.git/config\nid_rsa\n",
	"disposable_email_blocklist_deduped.txt":       "mailinator.com\n10minutemail.com\n",
	"free-email-domain.txt":                        "gmail.com\nyahoo.com\n",
	"breached_org_domains.txt":                     "example-breach.com\n",
	"high_signal_admin_panels.txt":                 "/admin\n/wp-admin\n",
	"cloud_indicators.json":                        `{"aws":["amazonaws.com"],"gcp":["googleapis.com"]}`,
}

// writeDatasetDir writes testDatasetFiles into a new temporary directory.
func writeDatasetDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range testDatasetFiles {
		writeFile(t, filepath.Join(dir, name), content)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// emptyConfigFile returns a config file with no settings, so tests do not
// pick up a .osintdata from the working or home directory.
func emptyConfigFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".osintdata")
	writeFile(t, path, "# empty\n")
	return path
}

// executeRoot runs the root command with args and returns stdout and stderr.
func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"-c", emptyConfigFile(t)}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
