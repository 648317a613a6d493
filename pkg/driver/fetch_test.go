package driver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initScriptRepo creates a local git repository holding one unit file and
// returns its path, the commit hash and the tag placed on it.
func initScriptRepo(t *testing.T) (dir, commit, tag string) {
	t.Helper()
	dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "basics.json"), []byte(`{"type":"TranslationUnit","statements":[]}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := worktree.Add("basics.json"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "OFML CLI",
			Email: "ofml@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	tag = "v1.0.0"
	if _, err := repo.CreateTag(tag, hash, nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	return dir, hash.String(), tag
}

func fetchManifest(t *testing.T, deps map[string]*DependencySpec) *Manifest {
	t.Helper()
	return &Manifest{
		Path:         filepath.Join(t.TempDir(), "ofml.yml"),
		Name:         "fixture",
		Dependencies: deps,
	}
}

func TestFetchGitDependencyByTag(t *testing.T) {
	repoDir, commit, tag := initScriptRepo(t)
	cacheDir := t.TempDir()

	m := fetchManifest(t, map[string]*DependencySpec{
		"basics": {Git: repoDir, Tag: tag},
	})
	results, err := FetchDependencies(m, cacheDir)
	if err != nil {
		t.Fatalf("FetchDependencies: %v", err)
	}
	if len(results) != 1 || results[0].Name != "basics" {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Commit != commit {
		t.Fatalf("commit = %s, want %s", results[0].Commit, commit)
	}
	if _, err := os.Stat(filepath.Join(results[0].Dir, "basics.json")); err != nil {
		t.Fatalf("checked-out file missing: %v", err)
	}
}

func TestFetchGitDependencyByRev(t *testing.T) {
	repoDir, commit, _ := initScriptRepo(t)
	cacheDir := t.TempDir()

	m := fetchManifest(t, map[string]*DependencySpec{
		"pinned": {Git: repoDir, Rev: commit},
	})
	results, err := FetchDependencies(m, cacheDir)
	if err != nil {
		t.Fatalf("FetchDependencies: %v", err)
	}
	if results[0].Commit != commit {
		t.Fatalf("commit = %s", results[0].Commit)
	}
}

func TestFetchReusesExistingCheckout(t *testing.T) {
	repoDir, _, tag := initScriptRepo(t)
	cacheDir := t.TempDir()
	m := fetchManifest(t, map[string]*DependencySpec{
		"basics": {Git: repoDir, Tag: tag},
	})

	if _, err := FetchDependencies(m, cacheDir); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	marker := filepath.Join(cacheDir, "basics", "marker")
	if err := os.WriteFile(marker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	results, err := FetchDependencies(m, cacheDir)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if results[0].Commit != "" {
		t.Fatal("an existing checkout must be reused, not re-cloned")
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatal("reuse must leave the cached checkout untouched")
	}
}

func TestFetchPathDependencyResolvesInPlace(t *testing.T) {
	partsDir := t.TempDir()
	m := fetchManifest(t, map[string]*DependencySpec{
		"parts": {Path: partsDir},
	})
	results, err := FetchDependencies(m, t.TempDir())
	if err != nil {
		t.Fatalf("FetchDependencies: %v", err)
	}
	if results[0].Dir != partsDir || results[0].Commit != "" {
		t.Fatalf("results = %+v", results)
	}
}

func TestFetchMissingPathDependencyFails(t *testing.T) {
	m := fetchManifest(t, map[string]*DependencySpec{
		"parts": {Path: filepath.Join(t.TempDir(), "nope")},
	})
	if _, err := FetchDependencies(m, t.TempDir()); err == nil {
		t.Fatal("a missing path dependency must fail")
	}
}

func TestFetchUnresolvableRevisionFails(t *testing.T) {
	repoDir, _, _ := initScriptRepo(t)
	m := fetchManifest(t, map[string]*DependencySpec{
		"basics": {Git: repoDir, Tag: "v9.9.9"},
	})
	if _, err := FetchDependencies(m, t.TempDir()); err == nil {
		t.Fatal("an unknown tag must fail the fetch")
	}
}
