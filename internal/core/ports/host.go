package ports

import "go.trai.ch/onsave/internal/core/domain"

// SaveHandler receives file actions for one subscribed document.
type SaveHandler func(event domain.SaveEvent)

// DocumentHost is the editor side of the integration: it knows which
// documents are open and reports their file actions.
//
//go:generate mockgen -source=host.go -destination=mocks/mock_host.go -package=mocks
type DocumentHost interface {
	// Subscribe attaches handler to the document.
	// It fails with domain.ErrDocumentNotOpen once the document was closed.
	Subscribe(id domain.DocumentID, handler SaveHandler) error
	// Unsubscribe detaches the document's handler, if any.
	Unsubscribe(id domain.DocumentID)
}

// DocumentListener is notified by a host about document lifecycles.
type DocumentListener interface {
	// Open is called when a document is opened. It must not block.
	Open(doc domain.Document)
	// Close is called when a document is closed.
	Close(id domain.DocumentID)
}
