// Package docs keeps the open-document table shared by the hosts.
package docs

import (
	"sort"
	"sync"

	"go.trai.ch/onsave/internal/core/domain"
	"go.trai.ch/onsave/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DocumentHost = (*Registry)(nil)

// maxPending bounds the actions kept for a document nobody subscribed to.
// The oldest action is dropped first.
const maxPending = 32

type entry struct {
	doc     domain.Document
	handler ports.SaveHandler
	// pending holds actions reported before a handler attached, oldest first.
	pending []domain.SaveEvent
}

// Registry implements ports.DocumentHost. Hosts feed it open, action and
// close notifications; the listener learns about opens and closes and
// subscribes to the documents it cares about.
type Registry struct {
	mu       sync.Mutex
	docs     map[domain.DocumentID]*entry
	listener ports.DocumentListener
	closed   bool
}

// NewRegistry creates a Registry reporting document lifecycles to listener.
func NewRegistry(listener ports.DocumentListener) *Registry {
	return &Registry{
		docs:     make(map[domain.DocumentID]*entry),
		listener: listener,
	}
}

// SetListener replaces the listener. It must be called before the first Open.
func (r *Registry) SetListener(listener ports.DocumentListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = listener
}

// Open records doc and notifies the listener. It reports false when the
// document is already open.
func (r *Registry) Open(doc domain.Document) (bool, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false, closedError(doc.ID)
	}
	if _, ok := r.docs[doc.ID]; ok {
		r.mu.Unlock()
		return false, nil
	}
	r.docs[doc.ID] = &entry{doc: doc}
	listener := r.listener
	r.mu.Unlock()

	if listener != nil {
		listener.Open(doc)
	}
	return true, nil
}

// Notify delivers a file action for an open document. Without a handler the
// action is queued and replayed in order on Subscribe.
func (r *Registry) Notify(id domain.DocumentID, event domain.SaveEvent) error {
	r.mu.Lock()
	e, ok := r.docs[id]
	if !ok {
		r.mu.Unlock()
		return zerr.With(zerr.Wrap(domain.ErrDocumentNotOpen, "cannot deliver file action"), "document", string(id))
	}
	handler := e.handler
	if handler == nil {
		if len(e.pending) == maxPending {
			e.pending = e.pending[1:]
		}
		e.pending = append(e.pending, event)
	}
	r.mu.Unlock()

	if handler != nil {
		handler(event)
	}
	return nil
}

// Close forgets the document and notifies the listener. Actions still queued
// for a document nobody subscribed to are dropped with it.
func (r *Registry) Close(id domain.DocumentID) {
	r.mu.Lock()
	_, ok := r.docs[id]
	delete(r.docs, id)
	listener := r.listener
	r.mu.Unlock()

	if ok && listener != nil {
		listener.Close(id)
	}
}

// Subscribe attaches handler to an open document and replays the queued
// actions to it in the order they were reported.
func (r *Registry) Subscribe(id domain.DocumentID, handler ports.SaveHandler) error {
	r.mu.Lock()
	e, ok := r.docs[id]
	if !ok {
		r.mu.Unlock()
		return zerr.With(zerr.Wrap(domain.ErrDocumentNotOpen, "cannot subscribe"), "document", string(id))
	}
	if e.handler != nil {
		r.mu.Unlock()
		return zerr.With(zerr.Wrap(domain.ErrDocumentAlreadySubscribed, "cannot subscribe"), "document", string(id))
	}
	e.handler = handler
	pending := e.pending
	e.pending = nil
	r.mu.Unlock()

	for _, event := range pending {
		handler(event)
	}
	return nil
}

// Unsubscribe detaches the document's handler.
func (r *Registry) Unsubscribe(id domain.DocumentID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.docs[id]; ok {
		e.handler = nil
		e.pending = nil
	}
}

// Lookup returns the open document with id.
func (r *Registry) Lookup(id domain.DocumentID) (domain.Document, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.docs[id]
	if !ok {
		return domain.Document{}, false
	}
	return e.doc, true
}

// Documents returns the open documents ordered by ID.
func (r *Registry) Documents() []domain.Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Document, 0, len(r.docs))
	for _, e := range r.docs {
		out = append(out, e.doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Shutdown closes every open document and rejects later opens.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	r.closed = true
	ids := make([]domain.DocumentID, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		r.Close(id)
	}
}

// closedError reports an open attempted after Shutdown.
func closedError(id domain.DocumentID) error {
	return zerr.With(zerr.Wrap(domain.ErrHostClosed, "cannot open document"), "document", string(id))
}
