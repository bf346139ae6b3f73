package workflow

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const strictDocument = `{
	"name": "greeting",
	"nodes": [
		{"id": "q", "type": "userQuery", "data": {"query": "hello"}},
		{"id": "out", "type": "output", "data": {"messages": []}}
	],
	"edges": [
		{"id": "q-out", "source": "q", "target": "out"}
	]
}`

func TestParse_StrictDocument(t *testing.T) {
	wf, err := Parse([]byte(strictDocument))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if wf.Name != "greeting" {
		t.Errorf("expected name %q, got %q", "greeting", wf.Name)
	}
	if len(wf.Nodes) != 2 || len(wf.Edges) != 1 {
		t.Errorf("unexpected graph shape: %d nodes, %d edges", len(wf.Nodes), len(wf.Edges))
	}
}

func TestParse_RepairsSloppyJSON(t *testing.T) {
	// Trailing commas and single quotes, as produced by hand edits.
	sloppy := `{
		'name': 'repaired',
		'nodes': [
			{'id': 'q', 'type': 'userQuery', 'data': {'query': 'hi'},},
		],
		'edges': [],
	}`

	wf, err := Parse([]byte(sloppy))
	if err != nil {
		t.Fatalf("expected repair pass to recover the document, got %v", err)
	}
	if wf.Name != "repaired" {
		t.Errorf("expected name %q, got %q", "repaired", wf.Name)
	}
	data, matches := wf.Nodes[0].Data.(*UserQueryData)
	if !matches || data.Query != "hi" {
		t.Errorf("payload lost during repair: %T %+v", wf.Nodes[0].Data, wf.Nodes[0].Data)
	}
}

func TestParse_UnrecoverableDocument(t *testing.T) {
	_, err := Parse([]byte(`not a workflow at all {{{`))
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParse_ValidationFailure(t *testing.T) {
	document := `{
		"name": "broken",
		"nodes": [
			{"id": "a", "type": "userQuery", "data": {"query": "x"}},
			{"id": "a", "type": "output", "data": {}}
		],
		"edges": []
	}`

	_, err := Parse([]byte(document))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), `duplicate node ID "a"`) {
		t.Errorf("expected duplicate ID error, got %q", err)
	}
}

func TestLoad_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workflow.json")
	if err := os.WriteFile(path, []byte(strictDocument), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	wf, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if wf.Name != "greeting" {
		t.Errorf("expected name %q, got %q", "greeting", wf.Name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "read workflow file") {
		t.Errorf("expected read error wrapping, got %q", err)
	}
}
