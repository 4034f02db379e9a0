package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/acpt/jobboard-api/internal/core/ports"
)

// PublicPrefix is the URL path the uploads directory is served under.
const PublicPrefix = "/uploads"

var knownKinds = map[ports.FileKind]bool{
	ports.FileKindProfilePicture: true,
	ports.FileKindResume:         true,
	ports.FileKindCompanyLogo:    true,
}

// LocalStore writes uploads to <root>/<kind>/<name> and hands out
// <baseURL>/uploads/<kind>/<name>.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	for kind := range knownKinds {
		if err := os.MkdirAll(filepath.Join(root, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root is the directory served under PublicPrefix.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Save(ctx context.Context, kind ports.FileKind, name string, content io.Reader) (string, error) {
	if !knownKinds[kind] {
		return "", fmt.Errorf("unknown file kind %q", kind)
	}
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return "", errors.New("empty file name")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.root, string(kind), name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	return s.baseURL + PublicPrefix + "/" + string(kind) + "/" + name, nil
}

// Delete removes a file previously returned by Save. URLs that do not point
// into this store are ignored, as is a file that is already gone.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	kind, name, ok := s.locate(url)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, string(kind), name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func (s *LocalStore) locate(url string) (ports.FileKind, string, bool) {
	rest, ok := strings.CutPrefix(url, s.baseURL+PublicPrefix+"/")
	if !ok {
		return "", "", false
	}
	kind, name, ok := strings.Cut(rest, "/")
	if !ok || !knownKinds[ports.FileKind(kind)] {
		return "", "", false
	}
	if name == "" || name != filepath.Base(name) || name == ".." {
		return "", "", false
	}
	return ports.FileKind(kind), name, true
}
