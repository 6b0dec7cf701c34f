package content

import "errors"

// Sentinel errors for well-known failure conditions that cross package
// boundaries.  Callers should use [errors.Is] to match these.
var (
	// ErrPageNotFound means no page exists for the requested slug.
	ErrPageNotFound = errors.New("page not found")

	// ErrSlugTaken indicates the requested slug belongs to another page.
	ErrSlugTaken = errors.New("slug already in use")

	// ErrRedirectSourceTaken indicates an active rule already claims the
	// source path.
	ErrRedirectSourceTaken = errors.New("redirect source already in use")

	// ErrUnknownSectionType means the type tag has no registered renderer.
	ErrUnknownSectionType = errors.New("unknown section type")
)
