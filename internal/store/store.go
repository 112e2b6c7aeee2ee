// Package store provides the byte-by-path content store backing the
// server's GET/PUT/POST/DELETE/HEAD handling. Paths are of the form
// "/segment..." with no trailing slash.
package store

// Store is the content collaborator contract. The boolean results
// report whether the path precondition held: Create is false when the
// path already exists, Replace and Delete are false when it does not.
// Implementations must be safe for concurrent use on independent
// paths; concurrent writes to the same path are last-writer-wins.
type Store interface {
	// Retrieve returns the content at path, or found=false if absent.
	Retrieve(path string) (data []byte, found bool, err error)

	// Create writes content at a path that must not already exist.
	Create(path string, data []byte) (created bool, err error)

	// Replace overwrites content at a path that must already exist.
	// Replace never creates.
	Replace(path string, data []byte) (replaced bool, err error)

	// Delete removes the file, or directory tree, at path.
	Delete(path string) (deleted bool, err error)

	// Exists reports whether a file exists at path.
	Exists(path string) (bool, error)
}
