package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals a request that cannot be executed as given.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrRetrievalFailed signals a hard similarity index failure (connectivity, protocol).
	ErrRetrievalFailed = errors.New("retrieval failed")
	// ErrIndexUnavailable signals a missing or not yet loaded namespace index.
	// Retrieval treats it as an empty tier rather than a failure.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
