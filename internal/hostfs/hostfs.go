package hostfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Root is the directory the identity database files live under.
type Root string

// SystemRoot is the root of the running system.
const SystemRoot Root = "/"

var (
	ErrInvalidPath = errors.New("invalid host path")
	ErrUnsafeFile  = errors.New("unsafe database file")
)

// Path joins r with a relative path (no leading slash).
// Example: Root("/srv/fixture").Path("etc/passwd") -> /srv/fixture/etc/passwd
func (r Root) Path(rel string) (string, error) {
	if r == "" || !strings.HasPrefix(string(r), "/") {
		return "", ErrInvalidPath
	}
	rel = strings.TrimPrefix(rel, "/")
	clean := filepath.Clean(rel)
	if clean == "." || clean == "" {
		return "", ErrInvalidPath
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidPath
	}
	return filepath.Join(string(r), clean), nil
}

// ReadFile reads rel under r. The file must be a regular file that is not
// world-writable; anything else is refused rather than trusted.
func (r Root) ReadFile(rel string) ([]byte, error) {
	path, err := r.Path(rel)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !st.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrUnsafeFile, path)
	}
	if st.Mode().Perm()&0o002 != 0 {
		return nil, fmt.Errorf("%w: %s is world-writable (%o)", ErrUnsafeFile, path, st.Mode().Perm())
	}
	return os.ReadFile(path)
}
