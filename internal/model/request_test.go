package model

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestRequestBuilder tests validation and defaulting in RequestBuilder.
func TestRequestBuilder(t *testing.T) {
	t.Parallel()

	t.Run("builds a valid seed request with defaults", func(t *testing.T) {
		t.Parallel()

		req, err := NewRequest("https://example.com/docs").Build()
		if err != nil {
			t.Fatalf("failed to build request: %v", err)
		}

		if got := req.String(); got != "https://example.com/docs" {
			t.Errorf("expected URL to round-trip, got %q", got)
		}
		if req.Priority() != 0 {
			t.Errorf("expected default priority 0, got %d", req.Priority())
		}
		if req.Depth() != 0 {
			t.Errorf("expected seed depth 0, got %d", req.Depth())
		}
		if req.Metadata() != nil {
			t.Errorf("expected no metadata, got %v", req.Metadata())
		}
	})

	t.Run("rejects invalid URLs", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			rawURL  string
			wantErr error
		}{
			{name: "unparsable", rawURL: "http://exa mple.com/%zz", wantErr: ErrMalformedURL},
			{name: "relative path", rawURL: "/docs/index.html", wantErr: ErrNotAbsoluteURL},
			{name: "schemeless host", rawURL: "example.com/docs", wantErr: ErrNotAbsoluteURL},
			{name: "ftp scheme", rawURL: "ftp://example.com/file", wantErr: ErrUnsupportedScheme},
			{name: "mailto", rawURL: "mailto:admin@example.com", wantErr: ErrNotAbsoluteURL},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				_, err := NewRequest(tt.rawURL).Build()
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				if !errors.Is(err, ErrInvalidRequest) {
					t.Errorf("expected error to wrap ErrInvalidRequest, got %v", err)
				}
			})
		}
	})

	t.Run("copies metadata on build", func(t *testing.T) {
		t.Parallel()

		md := map[string]string{"label": "docs"}
		req, err := NewRequest("https://example.com/").Metadata(md).Build()
		if err != nil {
			t.Fatalf("failed to build request: %v", err)
		}

		md["label"] = "mutated"
		if got := req.Metadata()["label"]; got != "docs" {
			t.Errorf("expected metadata to be copied at build time, got %q", got)
		}
	})

	t.Run("derives depth, priority, and metadata from parent", func(t *testing.T) {
		t.Parallel()

		parentReq, err := NewRequest("https://example.com/").
			Priority(7).
			Metadata(map[string]string{"label": "docs"}).
			Build()
		if err != nil {
			t.Fatalf("failed to build parent request: %v", err)
		}
		parent := NewCandidate(parentReq)

		child, err := NewRequest("https://example.com/next").Parent(parent).Build()
		if err != nil {
			t.Fatalf("failed to build child request: %v", err)
		}

		if child.Depth() != 1 {
			t.Errorf("expected depth 1, got %d", child.Depth())
		}
		if child.Priority() != 7 {
			t.Errorf("expected inherited priority 7, got %d", child.Priority())
		}
		if got := child.Metadata()["label"]; got != "docs" {
			t.Errorf("expected inherited metadata, got %q", got)
		}
	})

	t.Run("rejects depth beyond the sanity ceiling", func(t *testing.T) {
		t.Parallel()

		b := NewRequest("https://example.com/")
		b.depth = MaxDepthCeiling + 1

		_, err := b.Build()
		if !errors.Is(err, ErrDepthCeilingExceeded) {
			t.Errorf("expected ErrDepthCeilingExceeded, got %v", err)
		}
	})
}

// TestCrawlRequestJSON tests that requests survive snapshot serialization
// and that decoded requests are re-validated.
func TestCrawlRequestJSON(t *testing.T) {
	t.Parallel()

	t.Run("round trips through JSON", func(t *testing.T) {
		t.Parallel()

		parent, err := NewRequest("https://example.com/").Priority(3).Build()
		if err != nil {
			t.Fatalf("failed to build parent: %v", err)
		}
		req, err := NewRequest("https://example.com/a?b=1").
			Parent(NewCandidate(parent)).
			Metadata(map[string]string{"k": "v"}).
			Build()
		if err != nil {
			t.Fatalf("failed to build request: %v", err)
		}

		data, err := json.Marshal(req)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}

		var decoded CrawlRequest
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}

		if decoded.String() != req.String() {
			t.Errorf("URL mismatch: %q vs %q", decoded.String(), req.String())
		}
		if decoded.Priority() != 3 || decoded.Depth() != 1 {
			t.Errorf("expected priority 3 depth 1, got %d/%d", decoded.Priority(), decoded.Depth())
		}
		if decoded.Metadata()["k"] != "v" {
			t.Errorf("metadata lost in round trip: %v", decoded.Metadata())
		}
	})

	t.Run("rejects invalid serialized requests", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			data string
		}{
			{name: "relative URL", data: `{"url":"/relative"}`},
			{name: "negative depth", data: `{"url":"https://example.com/","depth":-1}`},
			{name: "absurd depth", data: `{"url":"https://example.com/","depth":99999}`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				var decoded CrawlRequest
				err := json.Unmarshal([]byte(tt.data), &decoded)
				if !errors.Is(err, ErrInvalidRequest) {
					t.Errorf("expected ErrInvalidRequest, got %v", err)
				}
			})
		}
	})
}

// TestTopPrivateDomain tests eTLD+1 computation and its fallbacks.
func TestTopPrivateDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "registrable domain", host: "www.example.com", want: "example.com"},
		{name: "deep subdomain", host: "a.b.c.example.co.uk", want: "example.co.uk"},
		{name: "upper case host", host: "WWW.Example.COM", want: "example.com"},
		{name: "trailing dot", host: "example.com.", want: "example.com"},
		{name: "ipv4 address", host: "192.0.2.10", want: "192.0.2.10"},
		{name: "localhost", host: "localhost", want: "localhost"},
		{name: "reserved test host", host: "a.example", want: "a.example"},
		{name: "empty host", host: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := TopPrivateDomain(tt.host); got != tt.want {
				t.Errorf("TopPrivateDomain(%q) = %q, want %q", tt.host, got, tt.want)
			}
		})
	}
}
