package media

import (
	"net/url"
	"strings"
)

const fallbackFilename = "image"

// normalizeNode collapses one remote node into an Asset. The second return
// is false when no preview URL can be resolved; such nodes are dropped
// before they reach any caller.
func normalizeNode(n remoteNode) (Asset, bool) {
	if n.ID == "" {
		return Asset{}, false
	}

	preview := firstNonEmpty(
		n.Preview.Image.URL,
		n.Image.URL,
		n.OriginalSource.URL,
		n.URL,
	)
	if preview == "" {
		return Asset{}, false
	}

	filename := firstNonEmpty(
		basenameFromURL(n.OriginalSource.URL),
		basenameFromURL(n.URL),
		basenameFromURL(preview),
		n.Alt,
		fallbackFilename,
	)

	return Asset{
		ID:       n.ID,
		Preview:  preview,
		Filename: filename,
		Label:    filename,
	}, true
}

func normalizeNodes(nodes []remoteNode) []Asset {
	assets := make([]Asset, 0, len(nodes))
	for _, n := range nodes {
		if asset, ok := normalizeNode(n); ok {
			assets = append(assets, asset)
		}
	}
	return assets
}

// basenameFromURL extracts the decoded last path segment, or "" when the
// input is not a parseable URL.
func basenameFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return ""
	}
	segments := strings.Split(u.Path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == "" {
			continue
		}
		if decoded, err := url.PathUnescape(segments[i]); err == nil {
			return decoded
		}
		return segments[i]
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
