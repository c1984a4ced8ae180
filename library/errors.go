package library

type IndexerError string

func (e IndexerError) Error() string {
	return string(e)
}

const (
	ErrUnknownChain   = IndexerError("unknown chain")
	ErrEntityNotFound = IndexerError("entity not found")
	ErrMalformedKey   = IndexerError("malformed key")
	ErrCorruptedValue = IndexerError("corrupted value")

	ErrMissingContext   = IndexerError("missing context value")
	ErrWrongContextKind = IndexerError("wrong context value kind")
	ErrInvalidCID       = IndexerError("invalid content identifier")

	ErrUnknownDocumentKind = IndexerError("unknown document kind")
	ErrDocumentTooLarge    = IndexerError("document too large")
	ErrFetchFailed         = IndexerError("document fetch failed")

	ErrInvalidConfig = IndexerError("invalid config")
)
