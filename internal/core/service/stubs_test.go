package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubIdentityRepo struct {
	mu      sync.Mutex
	byID    map[int64]*domain.Identity
	nextID  int64
	saveErr error // if set, Save returns this error
	findErr error // if set, lookups return this error
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{byID: make(map[int64]*domain.Identity)}
}

func (r *stubIdentityRepo) FindByID(_ context.Context, id int64) (*domain.Identity, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, false, r.findErr
	}
	i, ok := r.byID[id]
	if !ok {
		return nil, false, nil
	}
	return i.Clone(), true, nil
}

func (r *stubIdentityRepo) FindByUsername(_ context.Context, username string) (*domain.Identity, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, false, r.findErr
	}
	for _, i := range r.byID {
		if i.Username == username {
			return i.Clone(), true, nil
		}
	}
	return nil, false, nil
}

func (r *stubIdentityRepo) Save(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	for id, other := range r.byID {
		if other.Username == identity.Username && id != identity.ID {
			return nil, domain.ErrUsernameTaken
		}
	}
	c := identity.Clone()
	if c.ID == 0 {
		r.nextID++
		c.ID = r.nextID
	} else if _, ok := r.byID[c.ID]; !ok {
		return nil, domain.ErrIdentityNotFound
	}
	r.byID[c.ID] = c
	return c.Clone(), nil
}

func (r *stubIdentityRepo) Ping(context.Context) error { return nil }

// ---------------------------------------------------------------------------
// In-memory stub file store
// ---------------------------------------------------------------------------

type stubFileStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	saveErr error
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{files: make(map[string][]byte)}
}

func (s *stubFileStore) Save(_ context.Context, kind ports.FileKind, name string, content io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	url := "http://files.test/uploads/" + string(kind) + "/" + name
	s.mu.Lock()
	s.files[url] = data
	s.mu.Unlock()
	return url, nil
}

func (s *stubFileStore) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, url)
	if _, ok := s.files[url]; !ok {
		return errors.New("no such file")
	}
	delete(s.files, url)
	return nil
}

func (s *stubFileStore) has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[url]
	return ok
}

func (s *stubFileStore) count(kind ports.FileKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for url := range s.files {
		if strings.Contains(url, "/uploads/"+string(kind)+"/") {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	pngBytes = []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53, 0xDE,
	}
)

func upload(name string, data []byte) ports.Upload {
	return ports.Upload{Filename: name, Size: int64(len(data)), Content: bytes.NewReader(data)}
}

func resumeUpload() *ports.Upload {
	u := upload("cv.pdf", pdfBytes)
	return &u
}

func strp(s string) *string { return &s }

func newTestCredentialService(repo *stubIdentityRepo, files *stubFileStore) *CredentialService {
	return NewCredentialService(repo, files, LegacyEncoder{}, NewTokenService("test-secret", 0), zerolog.Nop())
}
