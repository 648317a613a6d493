package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ofml/interpreter-go/pkg/ast"
	"ofml/interpreter-go/pkg/interpreter"
)

// UnitExt is the filename extension of an encoded translation unit.
const UnitExt = ".json"

// Loader feeds decoded translation units into an interpreter in dependency
// order. Runtime support packages execute before product packages so the
// classes they declare exist when product files subclass them.
type Loader struct {
	interp     *interpreter.Interpreter
	priorities map[string]int
}

func NewLoader(interp *interpreter.Interpreter) *Loader {
	return &Loader{interp: interp, priorities: make(map[string]int)}
}

// SetPriorities installs manifest-supplied package priorities. Lower values
// load earlier; packages without an entry use the built-in ordering.
func (l *Loader) SetPriorities(priorities map[string]int) {
	l.priorities = make(map[string]int, len(priorities))
	for pkg, priority := range priorities {
		l.priorities[strings.TrimPrefix(pkg, "::")] = priority
	}
}

// LoadReport records the outcome of one load pass.
type LoadReport struct {
	Loaded []string
	Errors []string
}

// Failed reports whether a path could not be loaded.
func (r *LoadReport) Failed() bool { return len(r.Errors) > 0 }

type loadedUnit struct {
	path string
	unit *ast.TranslationUnit
}

// LoadDirs walks the source directories, decodes every unit file and executes
// the units in priority order. Individual file failures are recorded and
// skipped; the load as a whole fails only when not a single unit succeeded.
func (l *Loader) LoadDirs(dirs []string) (*LoadReport, error) {
	var paths []string
	for _, dir := range dirs {
		found, err := CollectUnitFiles(dir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return l.LoadFiles(paths)
}

// LoadFiles decodes and executes the given unit files in priority order.
func (l *Loader) LoadFiles(paths []string) (*LoadReport, error) {
	report := &LoadReport{}
	units := make([]loadedUnit, 0, len(paths))

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		unit, err := DecodeUnit(data)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		units = append(units, loadedUnit{path: path, unit: unit})
	}

	l.orderUnits(units)

	for _, loaded := range units {
		if err := l.interp.ExecuteUnit(loaded.unit); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", loaded.path, err))
			continue
		}
		report.Loaded = append(report.Loaded, loaded.path)
	}

	if len(report.Loaded) == 0 && len(paths) > 0 {
		return report, fmt.Errorf("loader: no unit out of %d loaded successfully", len(paths))
	}
	return report, nil
}

// orderUnits sorts units so foundation packages execute first. Manifest
// priorities win; otherwise the ::ofml runtime packages precede everything,
// "basics" files precede their siblings, and the file path breaks ties.
func (l *Loader) orderUnits(units []loadedUnit) {
	sort.SliceStable(units, func(a, b int) bool {
		sa, sb := l.unitScore(units[a]), l.unitScore(units[b])
		if sa != sb {
			return sa < sb
		}
		return units[a].path < units[b].path
	})
}

func (l *Loader) unitScore(loaded loadedUnit) int {
	pkg := strings.TrimPrefix(loaded.unit.Package, "::")
	if priority, ok := l.priorities[pkg]; ok {
		return priority
	}
	score := packageScore(pkg)
	if strings.Contains(strings.ToLower(filepath.Base(loaded.path)), "basics") {
		score--
	}
	return score
}

func packageScore(pkg string) int {
	switch {
	case pkg == "ofml::oi" || strings.HasPrefix(pkg, "ofml::oi::"):
		return 10
	case pkg == "ofml::xoi" || strings.HasPrefix(pkg, "ofml::xoi::"):
		return 20
	case pkg == "ofml::go" || strings.HasPrefix(pkg, "ofml::go::"):
		return 30
	case strings.HasPrefix(pkg, "ofml::"):
		return 40
	default:
		return 100
	}
}

// CollectUnitFiles returns every unit file under dir, recursively.
func CollectUnitFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if filepath.Ext(path) == UnitExt {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loader: scan %s: %w", dir, err)
	}
	return paths, nil
}
