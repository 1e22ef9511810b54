// FILE: trempy/initfile/discovery.go
package initfile

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultInitName is the file name searched for when no path is given.
const DefaultInitName = "model.trempy.ini"

// DiscoveryOptions configures automatic init file discovery
type DiscoveryOptions struct {
	// File name to look for in each search path
	Name string

	// Custom search paths (checked before the current directory)
	Paths []string

	// Environment variable to check for explicit path
	EnvVar string

	// CLI flag to check (e.g., "--init")
	CLIFlag string

	// Whether to search in current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns the standard discovery settings
func DefaultDiscoveryOptions() DiscoveryOptions {
	return DiscoveryOptions{
		Name:          DefaultInitName,
		EnvVar:        "TREMPY_INIT",
		CLIFlag:       "--init",
		UseCurrentDir: true,
	}
}

// DiscoverInitFile resolves the init file path: CLI flag first, then the
// environment variable, then the search paths. Returns "" when nothing is found.
func DiscoverInitFile(args []string, opts DiscoveryOptions) string {
	if opts.CLIFlag != "" {
		for i, arg := range args {
			if arg == opts.CLIFlag && i+1 < len(args) {
				return args[i+1]
			}
			if strings.HasPrefix(arg, opts.CLIFlag+"=") {
				return strings.TrimPrefix(arg, opts.CLIFlag+"=")
			}
		}
	}

	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path
		}
	}

	searchPaths := append([]string(nil), opts.Paths...)
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}

	name := opts.Name
	if name == "" {
		name = DefaultInitName
	}
	for _, dir := range searchPaths {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// WithDiscovery sets the init file path by discovery. An explicit WithFile
// call made earlier wins. Nothing found leaves the path empty and Build fails
// with ErrFileNotFound.
func (b *Builder) WithDiscovery(opts DiscoveryOptions) *Builder {
	if b.file != "" {
		return b
	}
	b.file = DiscoverInitFile(b.args, opts)
	return b
}
