package core

import "fmt"

// ValidationError reports bad or missing form input. It is shown inline in
// the upload form and never aborts the process.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input for %q: %s", e.Field, e.Reason)
}

// ExtractionError reports an unparseable PDF. The upload flow absorbs it and
// proceeds with empty text.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("pdf text extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// GenerationError reports a generator API failure (call error, quota, or an
// unparseable response). The upload flow falls back to the deterministic
// template generator.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("notes generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// StorageError reports a failed artifact upload. The artifact's URL stays
// null; remaining uploads still run.
type StorageError struct {
	Artifact string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to store %s artifact: %v", e.Artifact, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// CatalogError reports a rejected row insert. The whole upload is reported
// failed even when artifacts were already stored (accepted orphan risk).
type CatalogError struct {
	Err error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog insert failed: %v", e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }
