package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/flowmesh/flowmesh/providers/genai"
	"github.com/flowmesh/flowmesh/workflow"
)

// --- Mock Types ---

// textCall records one GenerateText invocation for assertions.
type textCall struct {
	model        string
	parts        []genai.Part
	useWebSearch bool
}

// mockGenProvider is a mock generative provider for testing node evaluation.
type mockGenProvider struct {
	textResponse  string
	imageResponse string
	err           error
	textCalls     []textCall
	imagePrompts  []string
}

var _ genai.Provider = (*mockGenProvider)(nil)

func (provider *mockGenProvider) GenerateText(_ context.Context, model string, parts []genai.Part, useWebSearch bool) (string, error) {
	provider.textCalls = append(provider.textCalls, textCall{model: model, parts: parts, useWebSearch: useWebSearch})
	if provider.err != nil {
		return "", provider.err
	}
	return provider.textResponse, nil
}

func (provider *mockGenProvider) GenerateImage(_ context.Context, _ string, prompt string) (string, error) {
	provider.imagePrompts = append(provider.imagePrompts, prompt)
	if provider.err != nil {
		return "", provider.err
	}
	return provider.imageResponse, nil
}

// mockFetcher returns a fixed document for any URL.
type mockFetcher struct {
	content string
	err     error
	urls    []string
}

func (fetcher *mockFetcher) Fetch(_ context.Context, url string) (string, error) {
	fetcher.urls = append(fetcher.urls, url)
	if fetcher.err != nil {
		return "", fetcher.err
	}
	return fetcher.content, nil
}

// --- Builders ---

func queryNode(id, query string) workflow.Node {
	return workflow.Node{ID: id, Type: workflow.NodeUserQuery, Data: &workflow.UserQueryData{Query: query}}
}

func formatterNode(id, template string) workflow.Node {
	return workflow.Node{ID: id, Type: workflow.NodeTextFormatter, Data: &workflow.TextFormatterData{Template: template}}
}

func outputNode(id string) workflow.Node {
	return workflow.Node{ID: id, Type: workflow.NodeOutput, Data: &workflow.OutputData{}}
}

func edge(source, target string) workflow.Edge {
	return workflow.Edge{ID: fmt.Sprintf("%s-%s", source, target), Source: source, Target: target}
}

func handleEdge(source, target, sourceHandle, targetHandle string) workflow.Edge {
	return workflow.Edge{
		ID:           fmt.Sprintf("%s-%s", source, target),
		Source:       source,
		Target:       target,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
	}
}

// --- Scenarios ---

func TestExecute_JoinConcatenatesBothSides(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "join",
		Nodes: []workflow.Node{
			queryNode("q1", "Hello"),
			queryNode("q2", "World"),
			{ID: "j", Type: workflow.NodeJoin, Data: &workflow.JoinData{Separator: " "}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{
			handleEdge("q1", "j", "", "a"),
			handleEdge("q2", "j", "", "b"),
			edge("j", "out"),
		},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if report.Failed() {
		t.Fatalf("unexpected failure: %s", report.Error)
	}
	if got := report.Results["out"].Answer; got != "Hello World" {
		t.Errorf("expected %q, got %q", "Hello World", got)
	}
}

func TestExecute_JoinMissingSideDefaultsToEmpty(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "half join",
		Nodes: []workflow.Node{
			queryNode("q1", "solo"),
			{ID: "j", Type: workflow.NodeJoin, Data: &workflow.JoinData{Separator: "-"}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{
			handleEdge("q1", "j", "", "a"),
			edge("j", "out"),
		},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if got := report.Results["out"].Answer; got != "solo-" {
		t.Errorf("expected %q, got %q", "solo-", got)
	}
}

func TestExecute_JoinExpandsNewlineEscape(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "newline join",
		Nodes: []workflow.Node{
			queryNode("q1", "a"),
			queryNode("q2", "b"),
			{ID: "j", Type: workflow.NodeJoin, Data: &workflow.JoinData{Separator: `\n`}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{
			handleEdge("q1", "j", "", "a"),
			handleEdge("q2", "j", "", "b"),
			edge("j", "out"),
		},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if got := report.Results["out"].Answer; got != "a\nb" {
		t.Errorf("expected newline-joined value, got %q", got)
	}
}

func TestExecute_RouterActivatesOnlyMatchingBranch(t *testing.T) {
	buildWorkflow := func(condition string) *workflow.Workflow {
		return &workflow.Workflow{
			Name: "router",
			Nodes: []workflow.Node{
				queryNode("q", "payload"),
				{ID: "r", Type: workflow.NodeRouter, Data: &workflow.RouterData{Condition: condition}},
				formatterNode("yes", "yes"),
				formatterNode("no", "no"),
				outputNode("outYes"),
				outputNode("outNo"),
			},
			Edges: []workflow.Edge{
				edge("q", "r"),
				handleEdge("r", "yes", "true", ""),
				handleEdge("r", "no", "false", ""),
				edge("yes", "outYes"),
				edge("no", "outNo"),
			},
		}
	}

	tests := []struct {
		name        string
		condition   string
		wantID      string
		wantAnswer  string
		absentID    string
	}{
		{name: "true branch", condition: "true", wantID: "outYes", wantAnswer: "yes", absentID: "outNo"},
		{name: "false branch", condition: `input == "other"`, wantID: "outNo", wantAnswer: "no", absentID: "outYes"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			report := NewRunner().Execute(context.Background(), buildWorkflow(testCase.condition))
			if report.Failed() {
				t.Fatalf("unexpected failure: %s", report.Error)
			}
			if len(report.Results) != 1 {
				t.Fatalf("expected exactly one result, got %d: %v", len(report.Results), report.Results)
			}
			if got := report.Results[testCase.wantID].Answer; got != testCase.wantAnswer {
				t.Errorf("expected %q from %s, got %q", testCase.wantAnswer, testCase.wantID, got)
			}
			if _, present := report.Results[testCase.absentID]; present {
				t.Errorf("output %s on the dead branch must be omitted", testCase.absentID)
			}
		})
	}
}

func TestExecute_RouterPassesInputThrough(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "router passthrough",
		Nodes: []workflow.Node{
			queryNode("q", "payload"),
			{ID: "r", Type: workflow.NodeRouter, Data: &workflow.RouterData{Condition: "true"}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{
			edge("q", "r"),
			handleEdge("r", "out", "true", ""),
		},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if got := report.Results["out"].Answer; got != "payload" {
		t.Errorf("router must not transform data, got %q", got)
	}
}

func TestExecute_DistributorActivatesAllBranches(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "fanout",
		Nodes: []workflow.Node{
			queryNode("q", "data"),
			{ID: "d", Type: workflow.NodeDistributor, Data: &workflow.DistributorData{}},
			formatterNode("f1", "one: {{input}}"),
			formatterNode("f2", "two: {{input}}"),
			outputNode("out1"),
			outputNode("out2"),
		},
		Edges: []workflow.Edge{
			edge("q", "d"),
			handleEdge("d", "f1", "1", ""),
			handleEdge("d", "f2", "2", ""),
			edge("f1", "out1"),
			edge("f2", "out2"),
		},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if report.Failed() {
		t.Fatalf("unexpected failure: %s", report.Error)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected both branches to produce results, got %v", report.Results)
	}
	if got := report.Results["out1"].Answer; got != "one: data" {
		t.Errorf("expected %q, got %q", "one: data", got)
	}
	if got := report.Results["out2"].Answer; got != "two: data" {
		t.Errorf("expected %q, got %q", "two: data", got)
	}
}

func TestExecute_CycleFailsValidation(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "cycle",
		Nodes: []workflow.Node{
			{ID: "A", Type: workflow.NodeTextFormatter, Data: &workflow.TextFormatterData{Template: "a"}},
			{ID: "B", Type: workflow.NodeTextFormatter, Data: &workflow.TextFormatterData{Template: "b"}},
		},
		Edges: []workflow.Edge{
			edge("A", "B"),
			edge("B", "A"),
		},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if !report.Failed() {
		t.Fatal("expected cycle failure")
	}
	if !strings.Contains(report.Error, "cycle") {
		t.Errorf("expected cycle message, got %q", report.Error)
	}
	if report.FailedNodeID != "A" && report.FailedNodeID != "B" {
		t.Errorf("failed node must be a cycle member, got %q", report.FailedNodeID)
	}
	if len(report.Results) != 0 {
		t.Errorf("expected empty results, got %v", report.Results)
	}
}

func TestExecute_DisconnectedOutputReportsPlaceholder(t *testing.T) {
	wf := &workflow.Workflow{
		Name:  "lonely output",
		Nodes: []workflow.Node{outputNode("out")},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if report.Failed() {
		t.Fatalf("unexpected failure: %s", report.Error)
	}
	if got := report.Results["out"].Answer; got != "(Output node is not connected)" {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestExecute_CodeFailureAbortsRun(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "broken code",
		Nodes: []workflow.Node{
			queryNode("q", "data"),
			{ID: "c", Type: workflow.NodeCode, Data: &workflow.CodeData{Script: `doesNotExist(input)`}},
			formatterNode("f", "never: {{input}}"),
			outputNode("out"),
		},
		Edges: []workflow.Edge{
			edge("q", "c"),
			edge("c", "f"),
			edge("f", "out"),
		},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if !report.Failed() {
		t.Fatal("expected run to fail")
	}
	if report.FailedNodeID != "c" {
		t.Errorf("expected failed node %q, got %q", "c", report.FailedNodeID)
	}
	if !strings.Contains(report.Error, "Code Snippet Error") {
		t.Errorf("expected script error message, got %q", report.Error)
	}
	if _, present := report.Results["out"]; present {
		t.Error("downstream output must not appear in results after abort")
	}
}

func TestExecute_CodeTransformsInput(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "code",
		Nodes: []workflow.Node{
			queryNode("q", "hello"),
			{ID: "c", Type: workflow.NodeCode, Data: &workflow.CodeData{Script: `upper(input)`}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{
			edge("q", "c"),
			edge("c", "out"),
		},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if got := report.Results["out"].Answer; got != "HELLO" {
		t.Errorf("expected %q, got %q", "HELLO", got)
	}
}

func TestExecute_NoOutputNode(t *testing.T) {
	wf := &workflow.Workflow{
		Name:  "sink free",
		Nodes: []workflow.Node{queryNode("q", "hi")},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if report.Error != "No Output node found in workflow." {
		t.Errorf("expected missing output error, got %q", report.Error)
	}
}

func TestExecute_UnsupportedNodeType(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "unknown",
		Nodes: []workflow.Node{
			{ID: "x", Type: workflow.NodeType("teleporter")},
			outputNode("out"),
		},
		Edges: []workflow.Edge{edge("x", "out")},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if !report.Failed() {
		t.Fatal("expected failure for unsupported node type")
	}
	if report.FailedNodeID != "x" {
		t.Errorf("expected failed node %q, got %q", "x", report.FailedNodeID)
	}
	if !strings.Contains(report.Error, "unsupported node type") {
		t.Errorf("expected unsupported type message, got %q", report.Error)
	}
}

func TestExecute_Idempotent(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "stable",
		Nodes: []workflow.Node{
			queryNode("q", "same"),
			formatterNode("f", "value: {{input}}"),
			outputNode("out"),
		},
		Edges: []workflow.Edge{
			edge("q", "f"),
			edge("f", "out"),
		},
	}

	runner := NewRunner()
	first := runner.Execute(context.Background(), wf)
	second := runner.Execute(context.Background(), wf)

	if first.Failed() || second.Failed() {
		t.Fatalf("unexpected failure: %q / %q", first.Error, second.Error)
	}
	if len(first.Results) != len(second.Results) {
		t.Fatalf("result counts differ: %d vs %d", len(first.Results), len(second.Results))
	}
	for nodeID, result := range first.Results {
		if second.Results[nodeID] != result {
			t.Errorf("result for %s differs between runs: %v vs %v", nodeID, result, second.Results[nodeID])
		}
	}
}

// --- Node semantics ---

func TestExecute_LLMPartitionsTextAndImages(t *testing.T) {
	provider := &mockGenProvider{textResponse: "a fine description"}

	imageValue := workflow.EncodeImageValue("image/png", "aGVsbG8=")
	wf := &workflow.Workflow{
		Name: "multimodal",
		Nodes: []workflow.Node{
			queryNode("q", "What is in this picture?"),
			{ID: "img", Type: workflow.NodeCode, Data: &workflow.CodeData{Script: fmt.Sprintf("%q", imageValue)}},
			{ID: "llm", Type: workflow.NodeLLMEngine, Data: &workflow.LLMEngineData{Model: "gemini-2.5-flash", UseWebSearch: true}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{
			edge("q", "llm"),
			edge("img", "llm"),
			edge("llm", "out"),
		},
	}

	report := NewRunner(WithProvider(provider)).Execute(context.Background(), wf)
	if report.Failed() {
		t.Fatalf("unexpected failure: %s", report.Error)
	}
	if got := report.Results["out"].Answer; got != "a fine description" {
		t.Errorf("expected provider text, got %q", got)
	}

	if len(provider.textCalls) != 1 {
		t.Fatalf("expected one GenerateText call, got %d", len(provider.textCalls))
	}
	call := provider.textCalls[0]
	if call.model != "gemini-2.5-flash" {
		t.Errorf("expected model to be forwarded, got %q", call.model)
	}
	if !call.useWebSearch {
		t.Error("expected web search flag to be forwarded")
	}
	if len(call.parts) != 2 {
		t.Fatalf("expected text part plus image part, got %d parts", len(call.parts))
	}
	if call.parts[0].Text != "What is in this picture?" {
		t.Errorf("expected text part first, got %+v", call.parts[0])
	}
	if call.parts[1].Inline == nil || call.parts[1].Inline.MimeType != "image/png" {
		t.Errorf("expected inline image part, got %+v", call.parts[1])
	}
}

func TestExecute_LLMImageOnlyGetsDefaultInstruction(t *testing.T) {
	provider := &mockGenProvider{textResponse: "described"}

	imageValue := workflow.EncodeImageValue("image/jpeg", "ZGF0YQ==")
	wf := &workflow.Workflow{
		Name: "image only",
		Nodes: []workflow.Node{
			{ID: "img", Type: workflow.NodeCode, Data: &workflow.CodeData{Script: fmt.Sprintf("%q", imageValue)}},
			{ID: "llm", Type: workflow.NodeLLMEngine, Data: &workflow.LLMEngineData{}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{
			edge("img", "llm"),
			edge("llm", "out"),
		},
	}

	report := NewRunner(WithProvider(provider)).Execute(context.Background(), wf)
	if report.Failed() {
		t.Fatalf("unexpected failure: %s", report.Error)
	}

	call := provider.textCalls[0]
	if len(call.parts) != 2 {
		t.Fatalf("expected instruction plus image, got %d parts", len(call.parts))
	}
	if call.parts[0].Text != "Describe this image." {
		t.Errorf("expected default instruction, got %q", call.parts[0].Text)
	}
}

func TestExecute_LLMWithoutInputFails(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "starved llm",
		Nodes: []workflow.Node{
			{ID: "llm", Type: workflow.NodeLLMEngine, Data: &workflow.LLMEngineData{}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{edge("llm", "out")},
	}

	report := NewRunner(WithProvider(&mockGenProvider{})).Execute(context.Background(), wf)
	if !report.Failed() {
		t.Fatal("expected failure for LLM node without input")
	}
	if report.FailedNodeID != "llm" {
		t.Errorf("expected failed node %q, got %q", "llm", report.FailedNodeID)
	}
	if !strings.Contains(report.Error, "LLM Engine requires an input.") {
		t.Errorf("expected missing input message, got %q", report.Error)
	}
}

func TestExecute_ProviderFailureIsAttributed(t *testing.T) {
	provider := &mockGenProvider{err: &genai.ServiceError{Kind: genai.ErrorQuotaExceeded}}

	wf := &workflow.Workflow{
		Name: "over quota",
		Nodes: []workflow.Node{
			queryNode("q", "prompt"),
			{ID: "llm", Type: workflow.NodeLLMEngine, Data: &workflow.LLMEngineData{}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{
			edge("q", "llm"),
			edge("llm", "out"),
		},
	}

	report := NewRunner(WithProvider(provider)).Execute(context.Background(), wf)
	if report.FailedNodeID != "llm" {
		t.Errorf("expected failed node %q, got %q", "llm", report.FailedNodeID)
	}
	if !strings.Contains(report.Error, "Error at LLM Engine:") {
		t.Errorf("expected attributed message, got %q", report.Error)
	}
	if !strings.Contains(report.Error, "exceeded your API quota") {
		t.Errorf("expected quota guidance, got %q", report.Error)
	}
}

func TestExecute_ImageGeneratorProducesImageResult(t *testing.T) {
	imageValue := workflow.EncodeImageValue("image/png", "cGl4ZWxz")
	provider := &mockGenProvider{imageResponse: imageValue}

	wf := &workflow.Workflow{
		Name: "imagery",
		Nodes: []workflow.Node{
			{ID: "gen", Type: workflow.NodeImageGenerator, Data: &workflow.ImageGeneratorData{Prompt: "a lighthouse"}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{edge("gen", "out")},
	}

	report := NewRunner(WithProvider(provider)).Execute(context.Background(), wf)
	if report.Failed() {
		t.Fatalf("unexpected failure: %s", report.Error)
	}

	result := report.Results["out"]
	if result.ImageURL != imageValue {
		t.Errorf("expected inline image value, got %q", result.ImageURL)
	}
	if result.Answer != "Image generated successfully." {
		t.Errorf("expected image answer, got %q", result.Answer)
	}
	if len(provider.imagePrompts) != 1 || provider.imagePrompts[0] != "a lighthouse" {
		t.Errorf("expected configured prompt to be used, got %v", provider.imagePrompts)
	}
}

func TestExecute_ImageGeneratorFallsBackToUpstreamPrompt(t *testing.T) {
	provider := &mockGenProvider{imageResponse: workflow.EncodeImageValue("image/png", "eA==")}

	wf := &workflow.Workflow{
		Name: "prompted imagery",
		Nodes: []workflow.Node{
			queryNode("q", "a stormy coast"),
			{ID: "gen", Type: workflow.NodeImageGenerator, Data: &workflow.ImageGeneratorData{}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{
			edge("q", "gen"),
			edge("gen", "out"),
		},
	}

	report := NewRunner(WithProvider(provider)).Execute(context.Background(), wf)
	if report.Failed() {
		t.Fatalf("unexpected failure: %s", report.Error)
	}
	if len(provider.imagePrompts) != 1 || provider.imagePrompts[0] != "a stormy coast" {
		t.Errorf("expected upstream prompt, got %v", provider.imagePrompts)
	}
}

func TestExecute_ImageGeneratorWithoutPromptFails(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "promptless",
		Nodes: []workflow.Node{
			{ID: "gen", Type: workflow.NodeImageGenerator, Data: &workflow.ImageGeneratorData{}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{edge("gen", "out")},
	}

	report := NewRunner(WithProvider(&mockGenProvider{})).Execute(context.Background(), wf)
	if !strings.Contains(report.Error, "Image Generator requires a prompt.") {
		t.Errorf("expected missing prompt message, got %q", report.Error)
	}
}

func TestExecute_KnowledgeBaseSynthesizesContext(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "kb",
		Nodes: []workflow.Node{
			{ID: "kb", Type: workflow.NodeKnowledgeBase, Data: &workflow.KnowledgeBaseData{
				Files: []workflow.FileInfo{
					{Name: "report.pdf", Type: "application/pdf", Size: 1024, Pages: 12},
					{Name: "notes.txt", Type: "text/plain", Size: 64, Lines: 8},
				},
			}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{edge("kb", "out")},
	}

	report := NewRunner().Execute(context.Background(), wf)
	answer := report.Results["out"].Answer
	if !strings.HasPrefix(answer, "[CONTEXT FROM 2 FILE(S)]:") {
		t.Errorf("expected file context header, got %q", answer)
	}
	if !strings.Contains(answer, "- report.pdf") || !strings.Contains(answer, "- notes.txt") {
		t.Errorf("expected file names listed, got %q", answer)
	}
}

func TestExecute_KnowledgeBaseWithoutFiles(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "empty kb",
		Nodes: []workflow.Node{
			{ID: "kb", Type: workflow.NodeKnowledgeBase, Data: &workflow.KnowledgeBaseData{}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{edge("kb", "out")},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if got := report.Results["out"].Answer; got != "[CONTEXT FROM KNOWLEDGE BASE]: No files were uploaded." {
		t.Errorf("expected no-files marker, got %q", got)
	}
}

func TestExecute_DataLoaderMockWithoutFetcher(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "mocked loader",
		Nodes: []workflow.Node{
			{ID: "dl", Type: workflow.NodeDataLoader, Data: &workflow.DataLoaderData{SourceURL: "https://example.com"}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{edge("dl", "out")},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if got := report.Results["out"].Answer; got != "(Mock output for dataLoader)" {
		t.Errorf("expected mocked placeholder, got %q", got)
	}
}

func TestExecute_DataLoaderUsesFetcher(t *testing.T) {
	fetcher := &mockFetcher{content: "# Fetched Page"}

	wf := &workflow.Workflow{
		Name: "live loader",
		Nodes: []workflow.Node{
			{ID: "dl", Type: workflow.NodeDataLoader, Data: &workflow.DataLoaderData{SourceURL: "https://example.com"}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{edge("dl", "out")},
	}

	report := NewRunner(WithFetcher(fetcher)).Execute(context.Background(), wf)
	if got := report.Results["out"].Answer; got != "# Fetched Page" {
		t.Errorf("expected fetched content, got %q", got)
	}
	if len(fetcher.urls) != 1 || fetcher.urls[0] != "https://example.com" {
		t.Errorf("expected configured URL to be fetched, got %v", fetcher.urls)
	}
}

func TestExecute_DataLoaderPrefersUpstreamInput(t *testing.T) {
	fetcher := &mockFetcher{content: "should not be used"}

	wf := &workflow.Workflow{
		Name: "passthrough loader",
		Nodes: []workflow.Node{
			queryNode("q", "upstream text"),
			{ID: "dl", Type: workflow.NodeDataLoader, Data: &workflow.DataLoaderData{SourceURL: "https://example.com"}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{
			edge("q", "dl"),
			edge("dl", "out"),
		},
	}

	report := NewRunner(WithFetcher(fetcher)).Execute(context.Background(), wf)
	if got := report.Results["out"].Answer; got != "upstream text" {
		t.Errorf("expected upstream passthrough, got %q", got)
	}
	if len(fetcher.urls) != 0 {
		t.Errorf("fetcher must not run when upstream input exists, got %v", fetcher.urls)
	}
}

func TestExecute_NoteProducesNoValue(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "annotated",
		Nodes: []workflow.Node{
			{ID: "n", Type: workflow.NodeNote, Data: &workflow.NoteData{Text: "remember the milk"}},
			outputNode("out"),
		},
		Edges: []workflow.Edge{edge("n", "out")},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if got := report.Results["out"].Answer; got != "Workflow completed with no textual output." {
		t.Errorf("expected fallback answer for valueless parent, got %q", got)
	}
}

func TestExecute_RunLogRecordsExecutedNodes(t *testing.T) {
	wf := &workflow.Workflow{
		Name: "logged",
		Nodes: []workflow.Node{
			queryNode("q", "hi"),
			outputNode("out"),
		},
		Edges: []workflow.Edge{edge("q", "out")},
	}

	report := NewRunner().Execute(context.Background(), wf)
	if len(report.Log) != 2 {
		t.Fatalf("expected two log entries, got %d", len(report.Log))
	}
	if report.Log[0].NodeID != "q" || report.Log[0].Status != workflow.StatusSuccess {
		t.Errorf("unexpected first log entry: %+v", report.Log[0])
	}
	for _, entry := range report.Log {
		if entry.ID == "" {
			t.Error("log entries must carry unique IDs")
		}
		if entry.Timestamp.IsZero() {
			t.Error("log entries must carry timestamps")
		}
	}
}

func TestExecute_NilWorkflow(t *testing.T) {
	report := NewRunner().Execute(context.Background(), nil)
	if !report.Failed() {
		t.Fatal("expected failure for nil workflow")
	}
}
