package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// FetchResult describes one fetched dependency.
type FetchResult struct {
	Name   string
	Dir    string
	Commit string
}

// FetchDependencies materialises the manifest's git dependencies under
// cacheDir, one directory per dependency pinned to its rev, tag or branch.
// Path dependencies are resolved in place and never copied. A dependency
// already present in the cache is left untouched.
func FetchDependencies(m *Manifest, cacheDir string) ([]FetchResult, error) {
	if cacheDir == "" {
		return nil, fmt.Errorf("fetch: cache directory required")
	}

	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	var results []FetchResult
	for _, name := range names {
		dep := m.Dependencies[name]
		if dep.Git == "" {
			dir := dep.Path
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(filepath.Dir(m.Path), dir)
			}
			if _, err := os.Stat(dir); err != nil {
				return results, fmt.Errorf("fetch: dependency %q: %w", name, err)
			}
			results = append(results, FetchResult{Name: name, Dir: dir})
			continue
		}

		dir, commit, err := ensureGitCheckout(filepath.Join(cacheDir, name), dep)
		if err != nil {
			return results, fmt.Errorf("fetch: dependency %q: %w", name, err)
		}
		results = append(results, FetchResult{Name: name, Dir: dir, Commit: commit})
	}
	return results, nil
}

// ensureGitCheckout clones the dependency into targetDir and checks out the
// pinned revision. An existing checkout is reused as-is.
func ensureGitCheckout(targetDir string, dep *DependencySpec) (string, string, error) {
	if _, err := os.Stat(targetDir); err == nil {
		return targetDir, "", nil
	}

	if err := os.MkdirAll(filepath.Dir(targetDir), 0o755); err != nil {
		return "", "", err
	}

	tmpDir := targetDir + ".fetch"
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:   dep.Git,
		Depth: 0,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("clone %s: %w", dep.Git, err)
	}

	revision := gitRevision(dep)
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("checkout %s: %w", hash, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return targetDir, hash.String(), nil
}

func gitRevision(dep *DependencySpec) plumbing.Revision {
	switch {
	case dep.Rev != "":
		return plumbing.Revision(dep.Rev)
	case dep.Tag != "":
		return plumbing.Revision("refs/tags/" + dep.Tag)
	case dep.Branch != "":
		return plumbing.Revision("refs/heads/" + dep.Branch)
	default:
		return plumbing.Revision("HEAD")
	}
}
