package netlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestInfofWritesPlainLineToNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Infof("loaded %d planes", 42)
	out := buf.String()
	if !strings.Contains(out, "loaded 42 planes") {
		t.Fatalf("expected message in output, got %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI color codes for a non-terminal writer, got %q", out)
	}
}

func TestWarnfTagsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Warnf("area portal %d missing", 3)
	if !strings.Contains(buf.String(), "[warn]") {
		t.Fatalf("expected warn level tag, got %q", buf.String())
	}
}
