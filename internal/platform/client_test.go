package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tripstudioapp/tripstudio/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(slog.Default(), config.PlatformConfig{
		Endpoint:       srv.URL,
		AccessToken:    "secret-token",
		TimeoutSeconds: 5,
	})
}

func TestExecuteSendsDocumentAndToken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Access-Token"); got != "secret-token" {
			t.Errorf("expected access token header, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected json content type, got %q", got)
		}
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !strings.Contains(req.Query, "files") {
			t.Errorf("document not forwarded: %q", req.Query)
		}
		if req.Variables["first"].(float64) != 10 {
			t.Errorf("variables not forwarded: %v", req.Variables)
		}
		fmt.Fprint(w, `{"data":{"ok":true}}`)
	})

	var out struct {
		OK bool `json:"ok"`
	}
	err := client.Execute(context.Background(), "query { files }", map[string]any{"first": 10}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.OK {
		t.Fatalf("data payload not decoded")
	}
}

func TestExecuteHTTPError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, "throttled")
	})

	err := client.Execute(context.Background(), "query {}", nil, nil)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests || !strings.Contains(httpErr.Body, "throttled") {
		t.Fatalf("status and body must be carried: %+v", httpErr)
	}
}

func TestExecuteGraphQLErrors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":null,"errors":[{"message":"access denied"},{"message":"bad document"}]}`)
	})

	err := client.Execute(context.Background(), "query {}", nil, nil)
	var gqlErr *GraphQLError
	if !errors.As(err, &gqlErr) {
		t.Fatalf("expected GraphQLError, got %v", err)
	}
	if len(gqlErr.Messages) != 2 || gqlErr.Messages[0] != "access denied" {
		t.Fatalf("messages must be carried: %+v", gqlErr.Messages)
	}
}

func TestExecuteEmptyData(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{}`, `{"data":null}`} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		})
		if err := client.Execute(context.Background(), "query {}", nil, nil); err == nil {
			t.Fatalf("expected error for body %q", body)
		}
	}
}

func TestExecuteNilOut(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"anything":1}}`)
	})
	if err := client.Execute(context.Background(), "mutation {}", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
