// Package validation checks command-line inputs before any wallet is touched.
package validation

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/finance-ledger/internal/ledgererror"
)

// InputFile checks that path names an existing regular file.
func InputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return ledgererror.Invalid("path", "must not be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ledgererror.Invalid("path", fmt.Sprintf("file does not exist: %s", path))
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return ledgererror.Invalid("path", fmt.Sprintf("%s is not a regular file", path))
	}
	return nil
}

// OutputFile checks that path can be written as a file: it must not be empty
// and must not name an existing directory. Missing parents are created later.
func OutputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return ledgererror.Invalid("path", "must not be empty")
	}
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return ledgererror.Invalid("path", fmt.Sprintf("%s is a directory", path))
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	return nil
}

// OutputFormat checks that the report format is supported. Empty means text.
func OutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "", "text", "json", "yaml", "xml":
		return nil
	default:
		return ledgererror.Invalid("format",
			fmt.Sprintf("unsupported output format: %s. Supported formats are 'text', 'json', 'yaml', 'xml'", format))
	}
}

// FilePermissions checks that others have no access, as for files holding password hashes.
func FilePermissions(mode os.FileMode) error {
	if mode&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600 or 0640", mode.String())
	}
	return nil
}
