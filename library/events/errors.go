package events

import (
	"github.com/0xAtelerix/talentgraph/library"
)

const (
	ErrStructRequired        = library.IndexerError("payload must be a struct")
	ErrABIPlanTypeMismatched = library.IndexerError("type mismatch")
	ErrABIValueOutOfRange    = library.IndexerError("value out of range")
	ErrABIUnknownEvent       = library.IndexerError("unknown event")
)
