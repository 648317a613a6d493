// Command ofml loads OFML package sets and executes their translation units.
//
//	ofml run [path ...]   decode and execute unit files or source directories
//	ofml deps             fetch the manifest's git dependencies into the cache
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ofml/interpreter-go/pkg/driver"
	"ofml/interpreter-go/pkg/interpreter"
)

const cliToolVersion = "ofml-cli 0.1.0-dev"

const manifestName = "ofml.yml"

var errManifestNotFound = errors.New("ofml.yml not found")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runUnits(args[1:])
	case "deps":
		return runDeps(args[1:])
	default:
		return runUnits(args)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: ofml <command> [arguments]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  run [path ...]  execute unit files or every unit under the given directories;")
	fmt.Fprintln(os.Stderr, "                  with no paths, the manifest's source directories are used")
	fmt.Fprintln(os.Stderr, "  deps            fetch the manifest's git dependencies into the local cache")
	fmt.Fprintln(os.Stderr, "  version         print the tool version")
}

// runUnits executes unit files. Explicit paths win; otherwise the nearest
// manifest supplies the source directories.
func runUnits(args []string) int {
	manifest, err := loadNearestManifest(".")
	if err != nil && !errors.Is(err, errManifestNotFound) {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}

	interp := interpreter.New()
	loader := driver.NewLoader(interp)
	if manifest != nil {
		loader.SetPriorities(manifest.Priorities)
	}

	var report *driver.LoadReport
	var loadErr error
	switch {
	case len(args) > 0:
		var paths []string
		for _, arg := range args {
			info, err := os.Stat(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", arg, err)
				return 1
			}
			if info.IsDir() {
				found, err := driver.CollectUnitFiles(arg)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%v\n", err)
					return 1
				}
				paths = append(paths, found...)
			} else {
				paths = append(paths, arg)
			}
		}
		report, loadErr = loader.LoadFiles(paths)
	case manifest != nil:
		report, loadErr = loader.LoadDirs(manifest.SourceDirs())
	default:
		fmt.Fprintln(os.Stderr, "ofml run requires unit paths or an ofml.yml manifest")
		return 1
	}

	if report != nil {
		for _, issue := range report.Errors {
			fmt.Fprintf(os.Stderr, "warning: %s\n", issue)
		}
	}
	if loadErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", loadErr)
		return 1
	}
	return 0
}

// runDeps fetches the manifest's git dependencies into the cache directory.
func runDeps(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "ofml deps takes no arguments\n")
		return 1
	}
	manifest, err := loadNearestManifest(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}

	cacheDir := manifest.CacheDir
	if cacheDir == "" {
		cacheDir = defaultCacheDir()
	}
	if !filepath.IsAbs(cacheDir) {
		cacheDir = filepath.Join(filepath.Dir(manifest.Path), cacheDir)
	}

	results, err := driver.FetchDependencies(manifest, cacheDir)
	for _, result := range results {
		if result.Commit != "" {
			fmt.Fprintf(os.Stdout, "fetched %s @ %s\n", result.Name, result.Commit)
		} else {
			fmt.Fprintf(os.Stdout, "resolved %s -> %s\n", result.Name, result.Dir)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}

func defaultCacheDir() string {
	if home := os.Getenv("OFML_HOME"); home != "" {
		return filepath.Join(home, "cache")
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".ofml-cache"
	}
	return filepath.Join(userHome, ".ofml", "cache")
}

// loadNearestManifest walks from dir toward the filesystem root looking for
// ofml.yml.
func loadNearestManifest(dir string) (*driver.Manifest, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		candidate := filepath.Join(abs, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return driver.LoadManifest(candidate)
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return nil, errManifestNotFound
		}
		abs = parent
	}
}
