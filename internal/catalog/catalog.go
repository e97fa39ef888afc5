// Package catalog reads learnable items from markdown sources and derives
// the stable ids the scheduler stores.
package catalog

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/conorfennell/zeal/internal/domain"
)

// Result is the outcome of loading a source directory.
type Result struct {
	Items  []domain.Item
	Errors []error // per-file parse failures; loading continues past them
}

// LoadDir walks dir for .md files and returns their items with IDs assigned.
// Items repeated across files are returned once.
func LoadDir(dir string) (Result, error) {
	var res Result
	seen := make(map[string]bool)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		items, parseErr := ParseFile(path)
		if parseErr != nil {
			res.Errors = append(res.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
		}
		for _, item := range items {
			item.ID = ItemID(item)
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			res.Items = append(res.Items, item)
		}
		return nil
	})
	if walkErr != nil {
		return Result{}, fmt.Errorf("error walking directory %s: %w", dir, walkErr)
	}

	slog.Debug("Catalog loaded", "path", dir, "items", len(res.Items), "errors", len(res.Errors))
	return res, nil
}

// IsGitURL reports whether source names a remote git repository.
func IsGitURL(source string) bool {
	return strings.HasSuffix(source, ".git") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "http://")
}

// Resolve returns a local directory for source. Git URLs are fetched into a
// checkout under reposDir first; anything else is used as a path.
func Resolve(source, reposDir string, progress io.Writer) (string, error) {
	if !IsGitURL(source) {
		return source, nil
	}
	localPath, err := gitURLToLocalPath(reposDir, source)
	if err != nil {
		return "", err
	}
	if err := Fetch(source, localPath, progress); err != nil {
		return "", err
	}
	return localPath, nil
}

// gitURLToLocalPath maps https://host/owner/repo.git and git@host:owner/repo.git
// to baseDir/host/owner/repo.
func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		userHost, repoPath, ok := strings.Cut(repoURL, ":")
		if ok && !strings.Contains(repoPath, ":") {
			if _, host, ok := strings.Cut(userHost, "@"); ok && host != "" {
				return filepath.Join(baseDir, host, strings.TrimSuffix(repoPath, ".git")), nil
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	return filepath.Join(baseDir, parsedURL.Host, strings.TrimSuffix(parsedURL.Path, ".git")), nil
}
