package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunPreview(t *testing.T) {
	out := filepath.Join(t.TempDir(), "preview.png")
	in := strings.NewReader(strings.Join([]string{
		`{"id":1,"method":"hasPermission"}`,
		`{"id":2,"method":"requestPermission"}`,
		`{"id":3,"method":"apply","args":{"type":"protanopia","intensity":0.5}}`,
	}, "\n"))
	var resp bytes.Buffer

	if err := run(context.Background(), in, &resp, "preview", "", out, 64); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, want := range []string{
		`{"id":1,"result":false}`,
		`{"id":2,"result":false}`,
		`{"id":3,"result":true}`,
	} {
		if !strings.Contains(resp.String(), want) {
			t.Errorf("responses missing %s:\n%s", want, resp.String())
		}
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("preview not written: %v", err)
	}
}

func TestRunUnknownSink(t *testing.T) {
	err := run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, "hologram", "", "", 0)
	if err == nil || !strings.Contains(err.Error(), "hologram") {
		t.Errorf("run = %v, want unknown sink error", err)
	}
}
