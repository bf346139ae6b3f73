package workflow

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kaptinlin/jsonrepair"
)

// Parse decodes a workflow JSON document and validates its structural
// invariants. Documents that fail strict decoding are run through a JSON
// repair pass and retried, so hand-edited or truncated canvas exports
// (trailing commas, single quotes, comments) still load.
func Parse(raw []byte) (*Workflow, error) {
	var wf Workflow
	if err := json.Unmarshal(raw, &wf); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(string(raw))
		if repairErr != nil {
			return nil, fmt.Errorf("parse workflow: %w", err)
		}
		if retryErr := json.Unmarshal([]byte(repaired), &wf); retryErr != nil {
			return nil, fmt.Errorf("parse workflow after repair: %w", retryErr)
		}
	}

	if err := wf.Validate(); err != nil {
		return nil, err
	}

	return &wf, nil
}

// Load reads and parses a workflow JSON document from disk.
func Load(path string) (*Workflow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}
	return Parse(raw)
}
