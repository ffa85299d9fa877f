package workspace

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-faster/errors"

	"github.com/pavelc4/aether-fetch/pkg/utils"
)

const ScopePrefix = "aether-fetch-"

// Workspace owns the holding directory where fetched files wait for delivery.
// The directory is shared between requests; file names carry the request ID.
type Workspace struct {
	holdingDir string
}

func New(holdingDir string) (*Workspace, error) {
	if holdingDir == "" {
		return nil, errors.New("holding dir is empty")
	}
	if err := os.MkdirAll(holdingDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create holding dir")
	}
	return &Workspace{holdingDir: holdingDir}, nil
}

func (w *Workspace) HoldingDir() string {
	return w.holdingDir
}

// Scope is a per-request temporary directory. Close removes it with everything inside.
type Scope struct {
	dir string
}

func (w *Workspace) Scope() (*Scope, error) {
	return NewScope(ScopePrefix)
}

func NewScope(prefix string) (*Scope, error) {
	dir, err := os.MkdirTemp("", prefix+"*")
	if err != nil {
		return nil, errors.Wrap(err, "create scoped dir")
	}
	return &Scope{dir: dir}, nil
}

func (s *Scope) Dir() string {
	return s.dir
}

func (s *Scope) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Files lists regular files directly inside the scope, sorted by name.
func (s *Scope) Files() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "read scoped dir")
	}

	var files []string
	for _, e := range entries {
		info, err := os.Stat(filepath.Join(s.dir, e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(s.dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (s *Scope) Close() error {
	return utils.DeleteDirectory(s.dir)
}

// Relocate moves src into the holding directory as "<owner>-<basename>".
// Rename is tried first; across filesystems the file is copied and the source removed.
func (w *Workspace) Relocate(src, owner string) (string, error) {
	name := filepath.Base(src)
	if owner != "" {
		name = owner + "-" + name
	}
	dst := filepath.Join(w.holdingDir, name)

	if err := os.Rename(src, dst); err == nil {
		return dst, nil
	}
	if err := copyFile(src, dst); err != nil {
		_ = os.Remove(dst)
		return "", errors.Wrapf(err, "relocate %s", filepath.Base(src))
	}
	_ = os.Remove(src)
	return dst, nil
}

// Owned lists holding-dir files that belong to owner.
func (w *Workspace) Owned(owner string) []string {
	if owner == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(w.holdingDir, globEscape(owner)+"-*"))
	if err != nil {
		return nil
	}
	return matches
}

// Release removes every holding-dir file that belongs to owner.
func (w *Workspace) Release(owner string) int {
	return utils.RemoveFiles(w.Owned(owner))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

var globReplacer = strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `\`, `\\`)

func globEscape(s string) string {
	return globReplacer.Replace(s)
}
