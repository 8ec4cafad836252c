package vault

import (
	"sort"
	"strings"
	"sync"
)

// MemStore is an in-memory Store used by tests and dry runs.
type MemStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string][]byte)}
}

// Put writes or overwrites a document without the CreateDocument occupancy
// check. Test seeding helper.
func (s *MemStore) Put(path string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = content
}

func (s *MemStore) ListDocuments(prefix string) ([]*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var docs []*Document
	for p, content := range s.docs {
		if prefix != "" && p != prefix && !strings.HasPrefix(p, strings.TrimSuffix(prefix, "/")+"/") {
			continue
		}
		if !strings.HasSuffix(p, ".md") {
			continue
		}
		docs = append(docs, Parse(p, content))
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

func (s *MemStore) ReadDocument(path string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return Parse(path, content), nil
}

func (s *MemStore) GetHeader(path string) (Header, error) {
	doc, err := s.ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return doc.Header, nil
}

func (s *MemStore) CreateDocument(path string, content []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[path]; ok {
		return "", ErrExists
	}
	s.docs[path] = content
	return path, nil
}

func (s *MemStore) MoveDocument(path, newPath string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.docs[path]
	if !ok {
		return "", ErrNotFound
	}
	if _, occupied := s.docs[newPath]; occupied && newPath != path {
		return "", ErrExists
	}
	delete(s.docs, path)
	s.docs[newPath] = content
	return newPath, nil
}

func (s *MemStore) PatchHeader(path string, mutate func(Header)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.docs[path]
	if !ok {
		return ErrNotFound
	}
	doc := Parse(path, content)
	mutate(doc.Header)
	s.docs[path] = doc.Render()
	return nil
}

func (s *MemStore) AppendBody(path string, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.docs[path]
	if !ok {
		return ErrNotFound
	}
	doc := Parse(path, content)
	if doc.Body != "" && !strings.HasSuffix(doc.Body, "\n") {
		doc.Body += "\n"
	}
	doc.Body += text
	s.docs[path] = doc.Render()
	return nil
}
