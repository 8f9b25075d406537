package index

// PostIndex defines the interface for post catalog operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type PostIndex interface {
	UpsertPost(p PostRow, body string) error
	DeletePost(path string) error
	GetPost(path string) (*PostRow, error)
	GetChecksum(path string) (string, error)
	ListPosts(opts ListOptions) ([]PostRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	Tags() ([]TaxonomyCount, error)
	Categories() ([]TaxonomyCount, error)
	Contributors() ([]TaxonomyCount, error)
	Related(path string, limit int) ([]RelatedPost, error)
	AllPaths() (map[string]struct{}, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies PostIndex at compile time.
var _ PostIndex = (*DB)(nil)
