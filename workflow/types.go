package workflow

import (
	"encoding/json"
	"fmt"
)

// NodeType identifies the processing semantics of a node. The set of types
// is closed: every workflow node must carry one of the values below, and its
// Data payload must be the matching variant.
type NodeType string

const (
	// NodeUserQuery emits its configured query text, ignoring any inputs.
	NodeUserQuery NodeType = "userQuery"

	// NodeKnowledgeBase synthesizes a context string from its configured file list.
	NodeKnowledgeBase NodeType = "knowledgeBase"

	// NodeLLMEngine sends its upstream text and images to a generative text model.
	NodeLLMEngine NodeType = "llmEngine"

	// NodeOutput is a terminal sink whose upstream value becomes a run result.
	NodeOutput NodeType = "output"

	// NodeCode evaluates a user-supplied expression against the joined upstream text.
	NodeCode NodeType = "code"

	// NodeRouter evaluates a boolean condition and activates exactly one outgoing branch.
	NodeRouter NodeType = "router"

	// NodeImageGenerator produces an inline image value from a prompt.
	NodeImageGenerator NodeType = "imageGenerator"

	// NodeDataLoader passes upstream text through, or loads external content.
	NodeDataLoader NodeType = "dataLoader"

	// NodeTextFormatter renders a template with the joined upstream text.
	NodeTextFormatter NodeType = "textFormatter"

	// NodeDistributor fans its input out to every connected downstream branch.
	NodeDistributor NodeType = "distributor"

	// NodeJoin concatenates its two handle-addressed inputs with a separator.
	NodeJoin NodeType = "join"

	// NodeNote is a free-text annotation that never participates in data flow.
	NodeNote NodeType = "note"
)

// nodeLabels maps each node type to the human-readable label used in
// run logs and failure messages.
var nodeLabels = map[NodeType]string{
	NodeUserQuery:      "User Query",
	NodeKnowledgeBase:  "Knowledge Base",
	NodeLLMEngine:      "LLM Engine",
	NodeOutput:         "Output",
	NodeCode:           "Code Snippet",
	NodeRouter:         "Router",
	NodeImageGenerator: "Image Generator",
	NodeDataLoader:     "Data Loader",
	NodeTextFormatter:  "Text Formatter",
	NodeDistributor:    "Distributor",
	NodeJoin:           "Join",
	NodeNote:           "Note",
}

// Label returns the display label for the node type, falling back to the
// raw type string for unknown types.
func (t NodeType) Label() string {
	if label, known := nodeLabels[t]; known {
		return label
	}
	return string(t)
}

// Known reports whether t is one of the supported node types.
func (t NodeType) Known() bool {
	_, known := nodeLabels[t]
	return known
}

// NodeData is the closed union of per-type node payloads. Exactly one
// concrete payload type corresponds to each NodeType; the pairing is
// enforced when a workflow document is decoded.
type NodeData interface {
	nodeData()
}

// UserQueryData configures a user query node.
type UserQueryData struct {
	Query string `json:"query"`
}

// FileInfo describes one uploaded file attached to a knowledge base node.
// Pages is populated for paginated documents, Lines for plain-text files.
type FileInfo struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Size  int64  `json:"size"`
	Pages int    `json:"pages,omitempty"`
	Lines int    `json:"lines,omitempty"`
}

// KnowledgeBaseData configures a knowledge base node.
type KnowledgeBaseData struct {
	Files []FileInfo `json:"files"`
}

// LLMEngineData configures a generative text node.
type LLMEngineData struct {
	Model        string `json:"model"`
	UseWebSearch bool   `json:"useWebSearch"`
}

// Message is one entry in an output node's conversation history.
type Message struct {
	Sender    string `json:"sender"`
	Text      string `json:"text,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Timestamp string `json:"timestamp"`
}

// OutputData configures an output node.
type OutputData struct {
	Messages []Message `json:"messages"`
}

// CodeData configures a code node. Script is an expression evaluated with
// the joined upstream text bound to the variable "input".
type CodeData struct {
	Script string `json:"script"`
}

// RouterData configures a router node. Condition is a boolean expression
// evaluated with the joined upstream text bound to the variable "input".
type RouterData struct {
	Condition string `json:"condition"`
}

// ImageGeneratorData configures an image generation node.
type ImageGeneratorData struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

// DataLoaderData configures a data loader node.
type DataLoaderData struct {
	SourceURL string `json:"sourceUrl"`
}

// TextFormatterData configures a text formatter node. Template may contain
// the placeholder token "{{input}}" (case-insensitive), which is replaced
// with the joined upstream text.
type TextFormatterData struct {
	Template string `json:"template"`
}

// DistributorData configures a distributor node. It carries no settings;
// the node's role is purely topological.
type DistributorData struct{}

// JoinData configures a join node. The literal sequence "\n" inside
// Separator is expanded to a real newline at evaluation time.
type JoinData struct {
	Separator string `json:"separator"`
}

// NoteData configures a note node.
type NoteData struct {
	Text string `json:"text"`
}

func (*UserQueryData) nodeData()      {}
func (*KnowledgeBaseData) nodeData()  {}
func (*LLMEngineData) nodeData()      {}
func (*OutputData) nodeData()         {}
func (*CodeData) nodeData()           {}
func (*RouterData) nodeData()         {}
func (*ImageGeneratorData) nodeData() {}
func (*DataLoaderData) nodeData()     {}
func (*TextFormatterData) nodeData()  {}
func (*DistributorData) nodeData()    {}
func (*JoinData) nodeData()           {}
func (*NoteData) nodeData()           {}

// emptyDataForType returns a zero-value payload of the variant matching the
// given node type, or nil for unknown types.
func emptyDataForType(nodeType NodeType) NodeData {
	switch nodeType {
	case NodeUserQuery:
		return &UserQueryData{}
	case NodeKnowledgeBase:
		return &KnowledgeBaseData{}
	case NodeLLMEngine:
		return &LLMEngineData{}
	case NodeOutput:
		return &OutputData{}
	case NodeCode:
		return &CodeData{}
	case NodeRouter:
		return &RouterData{}
	case NodeImageGenerator:
		return &ImageGeneratorData{}
	case NodeDataLoader:
		return &DataLoaderData{}
	case NodeTextFormatter:
		return &TextFormatterData{}
	case NodeDistributor:
		return &DistributorData{}
	case NodeJoin:
		return &JoinData{}
	case NodeNote:
		return &NoteData{}
	default:
		return nil
	}
}

// Node is one processing step in a workflow. Data holds the payload variant
// matching Type; it is never nil after successful decoding of a known type.
type Node struct {
	ID   string   `json:"id"`
	Type NodeType `json:"type"`
	Data NodeData `json:"data"`
}

// nodeJSON mirrors Node for decoding, deferring the payload until the
// declared type is known.
type nodeJSON struct {
	ID   string          `json:"id"`
	Type NodeType        `json:"type"`
	Data json.RawMessage `json:"data"`
}

// UnmarshalJSON decodes a node and its type-tagged payload. Unknown node
// types decode with a nil payload so that validation can report them with
// the node's identity instead of failing the whole document.
func (n *Node) UnmarshalJSON(raw []byte) error {
	var decoded nodeJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}

	n.ID = decoded.ID
	n.Type = decoded.Type
	n.Data = emptyDataForType(decoded.Type)

	if n.Data == nil || len(decoded.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(decoded.Data, n.Data); err != nil {
		return fmt.Errorf("node %q: invalid %s payload: %w", n.ID, n.Type, err)
	}

	return nil
}

// MarshalJSON encodes the node with its payload inlined under "data".
func (n Node) MarshalJSON() ([]byte, error) {
	var payload json.RawMessage
	if n.Data != nil {
		encoded, err := json.Marshal(n.Data)
		if err != nil {
			return nil, fmt.Errorf("node %q: encode %s payload: %w", n.ID, n.Type, err)
		}
		payload = encoded
	}

	return json.Marshal(nodeJSON{ID: n.ID, Type: n.Type, Data: payload})
}

// Edge is a directed connection between two nodes. SourceHandle and
// TargetHandle name logical ports when a node exposes more than one
// (router outputs "true"/"false", distributor outputs "1"/"2"/"3",
// join inputs "a"/"b"). An empty handle means the single default port.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Workflow is a named directed graph of nodes and edges, the sole input to
// an execution run.
type Workflow struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Validate checks the structural invariants that do not require graph
// traversal: node IDs are unique and non-empty, every edge endpoint
// references an existing node, and every node carries a payload matching a
// known type. Cycle detection is performed by the engine.
func (w *Workflow) Validate() error {
	seen := make(map[string]bool, len(w.Nodes))
	for _, node := range w.Nodes {
		if node.ID == "" {
			return fmt.Errorf("workflow %q: node with empty ID", w.Name)
		}
		if seen[node.ID] {
			return fmt.Errorf("workflow %q: duplicate node ID %q", w.Name, node.ID)
		}
		seen[node.ID] = true

		if node.Type.Known() && node.Data == nil {
			return fmt.Errorf("workflow %q: node %q has no %s payload", w.Name, node.ID, node.Type)
		}
	}

	for _, edge := range w.Edges {
		if !seen[edge.Source] {
			return fmt.Errorf("workflow %q: edge %q references unknown source node %q", w.Name, edge.ID, edge.Source)
		}
		if !seen[edge.Target] {
			return fmt.Errorf("workflow %q: edge %q references unknown target node %q", w.Name, edge.ID, edge.Target)
		}
	}

	return nil
}

// NodeByID returns the node with the given ID, or nil if absent.
func (w *Workflow) NodeByID(id string) *Node {
	for i := range w.Nodes {
		if w.Nodes[i].ID == id {
			return &w.Nodes[i]
		}
	}
	return nil
}
