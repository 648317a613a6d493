package driver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ofml/interpreter-go/pkg/ast"
	"ofml/interpreter-go/pkg/interpreter"
	"ofml/interpreter-go/pkg/runtime"
)

func writeUnitFile(t *testing.T, dir, name string, unit *ast.TranslationUnit) string {
	t.Helper()
	data, err := json.Marshal(unit)
	if err != nil {
		t.Fatalf("marshal unit: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write unit: %v", err)
	}
	return path
}

func baseClassUnit(pkg, class, parent string) *ast.TranslationUnit {
	var parentName *ast.QualifiedName
	if parent != "" {
		parentName = ast.NewQualifiedName([]string{parent}, false)
	}
	return ast.NewTranslationUnit(pkg, nil, []ast.Statement{
		ast.NewClassDecl(class, parentName, []ast.ClassMember{
			ast.NewFuncMember(ast.NewFuncDecl("origin", nil, ast.NewBlock([]ast.Statement{
				ast.NewReturnStatement(ast.NewStringLiteral(pkg)),
			}), nil)),
		}, nil),
	})
}

// Runtime support packages must execute before product packages even when the
// filenames sort the other way round, so product classes can subclass them.
func TestLoadDirsOrdersRuntimePackagesFirst(t *testing.T) {
	dir := t.TempDir()
	productPath := writeUnitFile(t, dir, "a_product.json",
		baseClassUnit("vendor::tables", "Desk", "DeskBase"))
	oiPath := writeUnitFile(t, dir, "z_runtime.json",
		baseClassUnit("ofml::oi", "DeskBase", "OiPart"))

	interp := interpreter.New()
	report, err := NewLoader(interp).LoadDirs([]string{dir})
	if err != nil {
		t.Fatalf("LoadDirs: %v", err)
	}
	if len(report.Loaded) != 2 {
		t.Fatalf("loaded = %v", report.Loaded)
	}
	if report.Loaded[0] != oiPath || report.Loaded[1] != productPath {
		t.Fatalf("load order = %v, want the ofml::oi unit first", report.Loaded)
	}

	cls, ok := interp.LookupClass("Desk")
	if !ok {
		t.Fatal("Desk must be registered")
	}
	obj, err := interp.Instantiate(cls, nil)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	v, err := interp.CallMethod(obj.(*runtime.ObjectValue), "origin", nil)
	if err != nil || runtime.Stringify(v) != "vendor::tables" {
		t.Fatalf("origin = %v, %v", v, err)
	}
}

func TestLoadFilesBasicsBeforeSiblings(t *testing.T) {
	dir := t.TempDir()
	late := writeUnitFile(t, dir, "aaa_chairs.json", baseClassUnit("vendor", "Chair", "OiPart"))
	early := writeUnitFile(t, dir, "zzz_basics.json", baseClassUnit("vendor", "VendorBase", "OiPart"))

	report, err := NewLoader(interpreter.New()).LoadFiles([]string{late, early})
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if report.Loaded[0] != early {
		t.Fatalf("load order = %v, want the basics unit first", report.Loaded)
	}
}

func TestLoaderManifestPrioritiesWin(t *testing.T) {
	dir := t.TempDir()
	product := writeUnitFile(t, dir, "product.json", baseClassUnit("vendor::tables", "Desk", "OiPart"))
	oi := writeUnitFile(t, dir, "runtime.json", baseClassUnit("ofml::oi", "DeskBase", "OiPart"))

	loader := NewLoader(interpreter.New())
	loader.SetPriorities(map[string]int{"::vendor::tables": 1})
	report, err := loader.LoadFiles([]string{product, oi})
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if report.Loaded[0] != product {
		t.Fatalf("load order = %v, want the prioritised package first", report.Loaded)
	}
}

// Individual broken files are recorded and skipped; the load only fails when
// nothing at all could be executed.
func TestLoadFilesAggregatesErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeUnitFile(t, dir, "good.json", baseClassUnit("vendor", "Desk", "OiPart"))
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := NewLoader(interpreter.New()).LoadFiles([]string{good, bad})
	if err != nil {
		t.Fatalf("a partial load must not fail: %v", err)
	}
	if len(report.Loaded) != 1 || report.Loaded[0] != good {
		t.Fatalf("loaded = %v", report.Loaded)
	}
	if len(report.Errors) != 1 || !report.Failed() {
		t.Fatalf("errors = %v", report.Errors)
	}
}

func TestLoadFilesAllBrokenFails(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	report, err := NewLoader(interpreter.New()).LoadFiles([]string{bad})
	if err == nil {
		t.Fatal("a load with zero successes must fail")
	}
	if len(report.Errors) != 1 {
		t.Fatalf("errors = %v", report.Errors)
	}
}

func TestLoadFilesEmptyListSucceeds(t *testing.T) {
	report, err := NewLoader(interpreter.New()).LoadFiles(nil)
	if err != nil || report.Failed() {
		t.Fatalf("empty load: %v, %v", err, report.Errors)
	}
}

func TestCollectUnitFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeUnitFile(t, dir, "a.json", baseClassUnit("p", "A", ""))
	writeUnitFile(t, sub, "b.json", baseClassUnit("p", "B", ""))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := CollectUnitFiles(dir)
	if err != nil {
		t.Fatalf("CollectUnitFiles: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v, want only unit files, recursively", paths)
	}
}
