package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/benchtrack/benchtrack/internal/conf"
)

// Error codes surfaced in JSON output.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeConfigRead  = "E002" // Config file unreadable
	ErrCodeConfigParse = "E003" // Config file not a valid document
	ErrCodeStore       = "E004" // Ledger store failure
	ErrCodeRepo        = "E005" // Revision enumeration failure
	ErrCodeSchema      = "E006" // Schema validation failure
	ErrCodeInput       = "E007" // Invalid command input
)

// LoadConfigDocument reads a configuration document from a JSON or YAML
// file (chosen by extension) and verifies it has a document shape: an
// object or an array of objects. An empty path returns nil, meaning
// "no config": exact and subset matching are disabled downstream.
func LoadConfigDocument(path string) (conf.Value, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("reading config file %s", path), err)
	}

	var doc conf.Value
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err = conf.ParseYAML(data)
	default:
		doc, err = conf.ParseJSON(data)
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("parsing config file %s", path), err)
	}

	if !conf.IsDocument(doc) {
		return nil, NewExitError(ExitCommandError,
			fmt.Sprintf("config file %s must hold an object or an array of objects", path))
	}

	return doc, nil
}

// DetectArchitecture maps the host platform to the architecture tags the
// ledger uses. Used when --architecture is omitted, mirroring how runners
// auto-detect the machine they benchmark on.
func DetectArchitecture() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "arm64"
	default:
		return runtime.GOARCH
	}
}

// resolveArchitecture applies the auto-detection fallback and logs it, so
// operators can tell which ledger partition a run touched.
func resolveArchitecture(opts *RootOptions, flag string) string {
	if flag != "" {
		return flag
	}
	arch := DetectArchitecture()
	if opts.Logger != nil {
		opts.Logger.Info("auto-detected architecture", "architecture", arch)
	}
	return arch
}
