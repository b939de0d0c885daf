package gate

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PathContext supplies the values substituted into artifact path-pattern
// placeholder tokens at validation time.
type PathContext struct {
	// Slug replaces the {slug} token.
	Slug string

	// Seq replaces the {seq} token.
	Seq int
}

// ResolvePattern substitutes placeholder tokens into an artifact path
// pattern. Glob characters are left intact for matching.
func ResolvePattern(pattern string, ctx PathContext) string {
	resolved := strings.ReplaceAll(pattern, "{slug}", ctx.Slug)
	resolved = strings.ReplaceAll(resolved, "{seq}", strconv.Itoa(ctx.Seq))
	return resolved
}

// Checker answers artifact existence and content questions against some
// backing store, normally the filesystem under the task workspace.
type Checker interface {
	// Matches returns the paths matching a resolved pattern. Patterns
	// without glob characters match at most the literal path. A pattern
	// naming a directory matches the files inside it.
	Matches(pattern string) ([]string, error)

	// Read returns the content of one matched artifact for content-level
	// validation.
	Read(path string) (string, error)
}

// DirChecker is a Checker rooted at a directory on the local filesystem.
type DirChecker struct {
	Root string
}

// Matches implements Checker using doublestar so recursive patterns
// (**, *) work across the workspace.
func (c *DirChecker) Matches(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[") {
		full := filepath.Join(c.Root, pattern)
		info, err := os.Stat(full)
		if os.IsNotExist(err) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("stat artifact %s: %w", pattern, err)
		}
		if info.IsDir() {
			return c.filesUnder(pattern)
		}
		return []string{pattern}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(c.Root), pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	// Directories are containers, not artifacts.
	var files []string
	for _, m := range matches {
		info, err := os.Stat(filepath.Join(c.Root, m))
		if err != nil {
			continue
		}
		if !info.IsDir() {
			files = append(files, m)
		}
	}
	return files, nil
}

// filesUnder lists the files below a directory pattern, recursively.
func (c *DirChecker) filesUnder(dir string) ([]string, error) {
	pattern := strings.TrimSuffix(dir, "/") + "/**"
	matches, err := doublestar.Glob(os.DirFS(c.Root), pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		info, err := os.Stat(filepath.Join(c.Root, m))
		if err != nil {
			continue
		}
		if !info.IsDir() {
			files = append(files, m)
		}
	}
	return files, nil
}

// Read implements Checker.
func (c *DirChecker) Read(path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(c.Root, path))
	if err != nil {
		return "", fmt.Errorf("read artifact %s: %w", path, err)
	}
	return string(data), nil
}
