package v1

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/4thel00z/recall/internal"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(context.Context, string) ([]float64, error) {
	return []float64{1, 0}, nil
}

func (stubEmbedder) Model() string { return "stub-model" }

type stubProvider struct{}

func (stubProvider) Complete(context.Context, string, string) (string, error) {
	return "it is a test document", nil
}

func setupClientTest(t *testing.T) *Client {
	t.Helper()
	tmpDir := t.TempDir()

	origWd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	scope := internal.Scope{
		Type:      internal.ScopeProject,
		Path:      tmpDir,
		StorePath: filepath.Join(tmpDir, ".recall"),
	}
	if err := internal.InitRepository(scope); err != nil {
		t.Fatalf("init repo: %v", err)
	}

	client, err := New(
		WithEmbedder(stubEmbedder{}),
		WithProvider(stubProvider{}),
		WithChunkSize(5),
		WithChunkOverlap(2),
		WithTopK(2),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	return client
}

func TestClientIndexAndAsk(t *testing.T) {
	client := setupClientTest(t)
	defer client.Close()

	ctx := context.Background()

	res, err := client.Index(ctx, "doc", "AAAAABBBBBCCCCC")
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if res.Chunks != 5 {
		t.Errorf("chunks = %d, want 5", res.Chunks)
	}
	if res.Model != "stub-model" {
		t.Errorf("model = %q", res.Model)
	}
	if res.Commit == "" {
		t.Error("expected a commit hash")
	}

	answer, err := client.Ask(ctx, "what is in the document?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer.Text != "it is a test document" {
		t.Errorf("answer = %q", answer.Text)
	}
	if len(answer.Matches) != 2 {
		t.Errorf("got %d matches, want 2", len(answer.Matches))
	}
}

func TestClientSearch(t *testing.T) {
	client := setupClientTest(t)
	defer client.Close()

	ctx := context.Background()

	if _, err := client.Index(ctx, "doc", "AAAAABBBBBCCCCC"); err != nil {
		t.Fatalf("index: %v", err)
	}

	results, err := client.Search(ctx, "anything")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != "doc::chunk_1" {
		t.Errorf("first result = %q", results[0].ID)
	}
	if results[0].Text == "" {
		t.Error("expected result text")
	}
}

func TestClientStatus(t *testing.T) {
	client := setupClientTest(t)
	defer client.Close()

	ctx := context.Background()

	status, err := client.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Indexed {
		t.Error("expected Indexed false before indexing")
	}

	if _, err := client.Index(ctx, "doc", "AAAAABBBBBCCCCC"); err != nil {
		t.Fatalf("index: %v", err)
	}

	status, err = client.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Indexed || status.Count != 5 || status.Source != "doc" {
		t.Errorf("status = %+v", status)
	}
}

func TestClientAskWithoutIndex(t *testing.T) {
	client := setupClientTest(t)
	defer client.Close()

	_, err := client.Ask(context.Background(), "anything")
	if err == nil {
		t.Error("expected error without an index")
	}
}
