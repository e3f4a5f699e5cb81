package domain

// DocumentID identifies one open document of a host. It is opaque to onsave.
type DocumentID string

// Version identifies a document's content state. Two saves carrying equal
// versions saved the same content.
type Version string

// FileAction is the kind of file event a host reports for a document.
type FileAction uint8

const (
	// ActionContentSaved means the document's content was written to disk.
	ActionContentSaved FileAction = iota
	// ActionContentLoaded means the document was reloaded from disk.
	ActionContentLoaded
	// ActionRenamed means the document's file was renamed.
	ActionRenamed
	// ActionDirtyStateChanged means the document's unsaved state flipped.
	ActionDirtyStateChanged
)

// String returns the wire name of the action.
func (a FileAction) String() string {
	switch a {
	case ActionContentSaved:
		return "saved"
	case ActionContentLoaded:
		return "reloaded"
	case ActionRenamed:
		return "renamed"
	case ActionDirtyStateChanged:
		return "dirty"
	default:
		return "unknown"
	}
}

// ParseFileAction is the inverse of FileAction.String.
func ParseFileAction(s string) (FileAction, bool) {
	switch s {
	case "saved", "":
		return ActionContentSaved, true
	case "reloaded":
		return ActionContentLoaded, true
	case "renamed":
		return ActionRenamed, true
	case "dirty":
		return ActionDirtyStateChanged, true
	default:
		return 0, false
	}
}

// Document is what a host reports when a document is opened.
type Document struct {
	ID      DocumentID
	Path    string
	Version Version
	// Root is the project root against which solution-relative placeholders
	// are computed. It is captured once, at open time.
	Root string
}

// SaveEvent is a file action reported for an open document.
type SaveEvent struct {
	Action  FileAction
	Path    string
	Version Version
}

// Triggers reports whether the event may reach the save gate: only content
// saves of absolute paths do. Hosts report other actions and transient
// buffers (for instance scripts generated while debugging) which are dropped.
func (e SaveEvent) Triggers() bool {
	return e.Action == ActionContentSaved && IsAbsolutePath(e.Path)
}
