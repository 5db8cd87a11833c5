package picker

import (
	"context"
	"errors"

	"github.com/tripstudioapp/tripstudio/internal/media"
)

// MediaAPI is the slice of the media service a picker instance drives.
type MediaAPI interface {
	List(ctx context.Context, pageSize int, after string) (media.ListResult, error)
	ResolveByIDs(ctx context.Context, ids []string) ([]media.Asset, error)
	Upload(ctx context.Context, files []media.UploadFile) ([]media.Asset, error)
}

var (
	// ErrRequestInFlight means a browsing fetch was refused because one is
	// already outstanding.
	ErrRequestInFlight = errors.New("a listing request is already in flight")
	// ErrUploadInProgress means a second upload was triggered while one runs.
	ErrUploadInProgress = errors.New("an upload is already in progress")
	// ErrClosed means the picker instance has been discarded.
	ErrClosed = errors.New("picker is closed")
	// ErrNotSelected means the asset id is not part of the current selection.
	ErrNotSelected = errors.New("asset is not selected")
	// ErrEmptySelection means confirm was invoked with nothing selected.
	ErrEmptySelection = errors.New("selection is empty")
)

// pageEntry is one cursor-stack frame. After is empty for the first page.
type pageEntry struct {
	After string `json:"after,omitempty"`
	Num   int    `json:"num"`
}

// Selection is what Confirm hands back to the embedding form.
type Selection struct {
	HeroID     string        `json:"heroId,omitempty"`
	GalleryIDs []string      `json:"galleryIds"`
	Nodes      []media.Asset `json:"nodes"`
}

// State is a read-only snapshot for rendering.
type State struct {
	Library     []media.Asset  `json:"library"`
	SelectedIDs []string       `json:"selectedIds"`
	HeroID      string         `json:"heroId,omitempty"`
	PageNum     int            `json:"pageNum"`
	PageInfo    media.PageInfo `json:"pageInfo"`
	PageSize    int            `json:"pageSize"`
	Query       string         `json:"query"`
	Multiple    bool           `json:"multiple"`
	Uploading   bool           `json:"uploading"`
	Loading     bool           `json:"loading"`
	Notice      string         `json:"notice,omitempty"`
}
