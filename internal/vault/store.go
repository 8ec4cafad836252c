package vault

import "errors"

var (
	// ErrNotFound is returned when a path does not resolve to a document.
	ErrNotFound = errors.New("vault: document not found")
	// ErrExists is returned by CreateDocument and MoveDocument when the
	// target path is occupied.
	ErrExists = errors.New("vault: document already exists")
)

// Store is the narrow document-store surface the enrichment core consumes.
// Reads are live snapshots; there is no caching layer, every call re-scans.
type Store interface {
	// ListDocuments returns all markdown documents whose path is under the
	// given folder prefix. An empty prefix lists the whole vault.
	ListDocuments(prefix string) ([]*Document, error)

	// ReadDocument loads a single document, frontmatter parsed.
	ReadDocument(path string) (*Document, error)

	// GetHeader returns just the frontmatter of a document.
	GetHeader(path string) (Header, error)

	// CreateDocument writes a new document and fails with ErrExists when the
	// path is already occupied. Returns the path actually written.
	CreateDocument(path string, content []byte) (string, error)

	// MoveDocument renames a document, creating destination folders as
	// needed. Fails with ErrExists when the destination is already occupied
	// by another document. Returns the new path.
	MoveDocument(path, newPath string) (string, error)

	// PatchHeader applies mutate to the document's frontmatter and writes the
	// document back in one step from the caller's point of view.
	PatchHeader(path string, mutate func(Header)) error

	// AppendBody appends text to the end of the document body.
	AppendBody(path string, text string) error
}
