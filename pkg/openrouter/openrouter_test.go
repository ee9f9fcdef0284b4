package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClientWithoutKeyIsNil(t *testing.T) {
	t.Parallel()

	if c := NewClient(Config{APIKey: "  "}); c != nil {
		t.Fatal("NewClient() returned a client without an api key")
	}
}

func TestVerifyModel(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotTitle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotTitle = r.Header.Get("X-Title")
		if !strings.HasSuffix(r.URL.Path, "/models/openai/gpt-4o") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"openai/gpt-4o","object":"model","created":1700000000,"owned_by":"openai"}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL + "/", SiteName: "Realty"})
	if err := VerifyModel(context.Background(), client, "openai/gpt-4o"); err != nil {
		t.Fatalf("VerifyModel() error = %v", err)
	}
	if gotAuth != "Bearer key" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotTitle != "Realty" {
		t.Fatalf("X-Title = %q", gotTitle)
	}
	if !strings.HasSuffix(gotPath, "/models/openai/gpt-4o") {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestVerifyModelRejectsEmpty(t *testing.T) {
	t.Parallel()

	if err := VerifyModel(context.Background(), nil, "x"); err == nil {
		t.Fatal("VerifyModel(nil client) error = nil")
	}
	client := NewClient(Config{APIKey: "key"})
	if err := VerifyModel(context.Background(), client, " "); err == nil {
		t.Fatal("VerifyModel(empty model) error = nil")
	}
}
