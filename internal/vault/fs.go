package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FSStore is a Store over a vault directory on disk.
type FSStore struct {
	root    string
	ignored []string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{
		root:    root,
		ignored: []string{".git", ".obsidian", ".trash", "node_modules"},
	}
}

func (s *FSStore) fullPath(p string) string {
	return filepath.Join(s.root, filepath.FromSlash(p))
}

// ListDocuments walks the prefix folder and parses every markdown file.
// Unreadable files are skipped instead of failing the whole scan.
func (s *FSStore) ListDocuments(prefix string) ([]*Document, error) {
	base := s.fullPath(prefix)
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil, nil
	}

	var docs []*Document
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			for _, ign := range s.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return nil
		}
		docs = append(docs, Parse(filepath.ToSlash(rel), content))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

func (s *FSStore) ReadDocument(path string) (*Document, error) {
	content, err := os.ReadFile(s.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return Parse(path, content), nil
}

func (s *FSStore) GetHeader(path string) (Header, error) {
	doc, err := s.ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return doc.Header, nil
}

func (s *FSStore) CreateDocument(path string, content []byte) (string, error) {
	full := s.fullPath(path)
	if _, err := os.Stat(full); err == nil {
		return "", ErrExists
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, content, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *FSStore) MoveDocument(path, newPath string) (string, error) {
	src := s.fullPath(path)
	dst := s.fullPath(newPath)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return "", ErrNotFound
	}
	// os.Rename replaces an occupied destination, which would destroy a
	// previously filed document with the same title.
	if _, err := os.Stat(dst); err == nil && dst != src {
		return "", ErrExists
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}
	if err := os.Rename(src, dst); err != nil {
		return "", err
	}
	return newPath, nil
}

func (s *FSStore) PatchHeader(path string, mutate func(Header)) error {
	doc, err := s.ReadDocument(path)
	if err != nil {
		return err
	}
	mutate(doc.Header)
	return os.WriteFile(s.fullPath(path), doc.Render(), 0644)
}

func (s *FSStore) AppendBody(path string, text string) error {
	doc, err := s.ReadDocument(path)
	if err != nil {
		return err
	}
	if doc.Body != "" && !strings.HasSuffix(doc.Body, "\n") {
		doc.Body += "\n"
	}
	doc.Body += text
	return os.WriteFile(s.fullPath(path), doc.Render(), 0644)
}
