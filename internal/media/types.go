package media

import "io"

// Asset is the normalized, display-ready record for one remote media object.
// IDs are platform-assigned and round-trip exactly as received.
type Asset struct {
	ID       string `json:"id"`
	Preview  string `json:"preview"`
	Filename string `json:"filename"`
	Label    string `json:"label"`
}

// PageInfo mirrors the remote listing's forward-pagination state.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor,omitempty"`
}

// ListResult is one page of normalized assets.
type ListResult struct {
	Assets   []Asset  `json:"assets"`
	PageInfo PageInfo `json:"pageInfo"`
}

// UploadFile is one locally-selected file headed for the upload pipeline.
// Reader is consumed once, during the transfer phase.
type UploadFile struct {
	Name     string
	MimeType string
	Reader   io.Reader
}

// remoteNode is the tagged union of file shapes the listing and lookup
// queries return. It never leaks past this package.
type remoteNode struct {
	Typename string `json:"__typename"`
	ID       string `json:"id"`
	Alt      string `json:"alt"`
	// GenericFile only.
	URL     string `json:"url"`
	Preview struct {
		Image struct {
			URL string `json:"url"`
		} `json:"image"`
	} `json:"preview"`
	// MediaImage only.
	Image struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"image"`
	// MediaImage and Video.
	OriginalSource struct {
		URL string `json:"url"`
	} `json:"originalSource"`
}

// stagedTarget is one remote-issued upload slot: a short-lived target URL
// plus the exact form parameters the object store requires.
type stagedTarget struct {
	ResourceURL string `json:"resourceUrl"`
	URL         string `json:"url"`
	Parameters  []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"parameters"`
}
