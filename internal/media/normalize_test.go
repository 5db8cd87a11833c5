package media

import "testing"

func TestNormalizeNodePreviewPreference(t *testing.T) {
	t.Parallel()

	node := remoteNode{Typename: "MediaImage", ID: "gid://platform/MediaImage/1"}
	node.Preview.Image.URL = "https://cdn.example.com/previews/a.jpg"
	node.Image.URL = "https://cdn.example.com/images/b.jpg"
	node.OriginalSource.URL = "https://cdn.example.com/originals/c.jpg"

	asset, ok := normalizeNode(node)
	if !ok {
		t.Fatalf("expected node to normalize")
	}
	if asset.Preview != "https://cdn.example.com/previews/a.jpg" {
		t.Fatalf("preview should prefer the preview image url, got %q", asset.Preview)
	}

	node.Preview.Image.URL = ""
	asset, _ = normalizeNode(node)
	if asset.Preview != "https://cdn.example.com/images/b.jpg" {
		t.Fatalf("preview should fall back to the primary image url, got %q", asset.Preview)
	}

	node.Image.URL = ""
	asset, _ = normalizeNode(node)
	if asset.Preview != "https://cdn.example.com/originals/c.jpg" {
		t.Fatalf("preview should fall back to the original source url, got %q", asset.Preview)
	}
}

func TestNormalizeNodeDropsUnrenderable(t *testing.T) {
	t.Parallel()

	node := remoteNode{Typename: "Video", ID: "gid://platform/Video/9"}
	if _, ok := normalizeNode(node); ok {
		t.Fatalf("node without any resolvable preview must be dropped")
	}

	if _, ok := normalizeNode(remoteNode{Typename: "MediaImage"}); ok {
		t.Fatalf("node without an id must be dropped")
	}
}

func TestNormalizeNodeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node func() remoteNode
		want string
	}{
		{
			name: "original source basename wins",
			node: func() remoteNode {
				n := remoteNode{ID: "1"}
				n.OriginalSource.URL = "https://cdn.example.com/a/b/beach%20day.jpg?v=2"
				n.Preview.Image.URL = "https://cdn.example.com/p/thumb.jpg"
				n.Alt = "alt text"
				return n
			},
			want: "beach day.jpg",
		},
		{
			name: "raw url next",
			node: func() remoteNode {
				n := remoteNode{ID: "2"}
				n.URL = "https://cdn.example.com/files/itinerary.pdf"
				return n
			},
			want: "itinerary.pdf",
		},
		{
			name: "preview basename next",
			node: func() remoteNode {
				n := remoteNode{ID: "3"}
				n.Preview.Image.URL = "https://cdn.example.com/p/hotel.jpg"
				return n
			},
			want: "hotel.jpg",
		},
		{
			name: "alt text fallback",
			node: func() remoteNode {
				n := remoteNode{ID: "4"}
				n.Preview.Image.URL = "https://cdn.example.com/"
				n.Alt = "sunset over the bay"
				return n
			},
			want: "sunset over the bay",
		},
		{
			name: "literal fallback",
			node: func() remoteNode {
				n := remoteNode{ID: "5"}
				n.Preview.Image.URL = "https://cdn.example.com/"
				return n
			},
			want: "image",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			asset, ok := normalizeNode(tt.node())
			if !ok {
				t.Fatalf("expected node to normalize")
			}
			if asset.Filename != tt.want {
				t.Fatalf("filename: want %q got %q", tt.want, asset.Filename)
			}
			if asset.Label != asset.Filename {
				t.Fatalf("label should duplicate filename")
			}
		})
	}
}

func TestBasenameFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "", want: ""},
		{raw: "https://cdn.example.com/a/b/c.jpg", want: "c.jpg"},
		{raw: "https://cdn.example.com/a/b/", want: "b"},
		{raw: "https://cdn.example.com/", want: ""},
		{raw: "https://cdn.example.com/x/two%20words.png", want: "two words.png"},
		{raw: "://not a url", want: ""},
	}

	for _, tt := range tests {
		if got := basenameFromURL(tt.raw); got != tt.want {
			t.Fatalf("basenameFromURL(%q): want %q got %q", tt.raw, tt.want, got)
		}
	}
}
