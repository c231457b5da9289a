package domain

import "errors"

// Error kinds surfaced by the pipeline. Callers match them with errors.Is;
// no silent recovery happens inside the core.
var (
	// ErrCorpusNotFound means the data directory is missing or holds no
	// readable text files.
	ErrCorpusNotFound = errors.New("corpus not found")

	// ErrInvalidChunkConfig means chunk_overlap >= chunk_size.
	ErrInvalidChunkConfig = errors.New("invalid chunk config")

	// ErrEmptyCorpus means the index holds zero chunks at query time.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrGenerationService means the remote generation call failed:
	// missing credential, network error, timeout or non-success response.
	ErrGenerationService = errors.New("generation service")
)
