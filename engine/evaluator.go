package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/flowmesh/flowmesh/providers/genai"
	"github.com/flowmesh/flowmesh/workflow"
)

// Fetcher loads external content for data loader nodes running in live
// mode. providers/fetch satisfies this; a nil fetcher keeps data loaders on
// their mocked placeholder output.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// defaultImageInstruction is prepended when a generative text node receives
// images but no text.
const defaultImageInstruction = "Describe this image."

// placeholderPattern matches the template token replaced by text formatter
// nodes, case-insensitively.
var placeholderPattern = regexp.MustCompile(`(?i)\{\{input\}\}`)

// outcome is the result of evaluating one node. hasValue distinguishes
// nodes that produce a value for downstream consumption from sinks and
// notes, which record nothing. decision is set only by routers.
type outcome struct {
	value    string
	hasValue bool
	decision *bool
}

func valueOutcome(value string) outcome {
	return outcome{value: value, hasValue: true}
}

// evaluator dispatches nodes to their per-type semantics. It holds only
// immutable collaborators, so one evaluator serves concurrent runs.
type evaluator struct {
	provider genai.Provider
	fetcher  Fetcher
}

// requiredInputError is a node-specific missing-input failure that still
// matches ErrMissingInput under errors.Is.
type requiredInputError struct {
	message string
}

func (e *requiredInputError) Error() string { return e.message }

func (e *requiredInputError) Is(target error) bool { return target == ErrMissingInput }

// payload asserts that the node carries the payload variant matching its
// type. Decoding guarantees the pairing for known types, so a mismatch here
// means the workflow was assembled in code, not parsed.
func payload[T workflow.NodeData](node *workflow.Node) (T, error) {
	data, matches := node.Data.(T)
	if !matches {
		var zero T
		return zero, fmt.Errorf("node %q has no %s payload", node.ID, node.Type)
	}
	return data, nil
}

// evaluate runs one node. inputs holds the non-empty outputs of executed
// upstream nodes in edge order; byHandle maps each incoming edge's target
// handle to the same values for handle-addressed consumers (join).
func (e *evaluator) evaluate(ctx context.Context, node *workflow.Node, inputs []string, byHandle map[string]string) (outcome, error) {
	joined := strings.Join(inputs, "\n")

	switch node.Type {
	case workflow.NodeUserQuery:
		data, err := payload[*workflow.UserQueryData](node)
		if err != nil {
			return outcome{}, err
		}
		return valueOutcome(data.Query), nil

	case workflow.NodeKnowledgeBase:
		data, err := payload[*workflow.KnowledgeBaseData](node)
		if err != nil {
			return outcome{}, err
		}
		return valueOutcome(knowledgeBaseContext(data.Files)), nil

	case workflow.NodeLLMEngine:
		data, err := payload[*workflow.LLMEngineData](node)
		if err != nil {
			return outcome{}, err
		}
		return e.evaluateLLM(ctx, data, inputs)

	case workflow.NodeImageGenerator:
		data, err := payload[*workflow.ImageGeneratorData](node)
		if err != nil {
			return outcome{}, err
		}
		return e.evaluateImage(ctx, data, joined)

	case workflow.NodeCode:
		data, err := payload[*workflow.CodeData](node)
		if err != nil {
			return outcome{}, err
		}
		result, err := evalScript(data.Script, joined)
		if err != nil {
			return outcome{}, err
		}
		return valueOutcome(result), nil

	case workflow.NodeRouter:
		data, err := payload[*workflow.RouterData](node)
		if err != nil {
			return outcome{}, err
		}
		decision, err := evalCondition(data.Condition, joined)
		if err != nil {
			return outcome{}, err
		}
		// The router's job is to route, not transform. Pass the input through.
		result := valueOutcome(joined)
		result.decision = &decision
		return result, nil

	case workflow.NodeTextFormatter:
		data, err := payload[*workflow.TextFormatterData](node)
		if err != nil {
			return outcome{}, err
		}
		return valueOutcome(placeholderPattern.ReplaceAllLiteralString(data.Template, joined)), nil

	case workflow.NodeJoin:
		data, err := payload[*workflow.JoinData](node)
		if err != nil {
			return outcome{}, err
		}
		separator := strings.ReplaceAll(data.Separator, `\n`, "\n")
		return valueOutcome(byHandle["a"] + separator + byHandle["b"]), nil

	case workflow.NodeDistributor:
		return valueOutcome(joined), nil

	case workflow.NodeDataLoader:
		data, err := payload[*workflow.DataLoaderData](node)
		if err != nil {
			return outcome{}, err
		}
		return e.evaluateDataLoader(ctx, data, node.Type, joined)

	case workflow.NodeOutput, workflow.NodeNote:
		// Sinks and annotations produce no value for downstream nodes.
		return outcome{}, nil

	default:
		return outcome{}, fmt.Errorf("%w: %s", ErrUnsupportedNodeType, node.Type)
	}
}

// evaluateLLM partitions upstream values into text and inline images,
// assembles the multimodal request, and calls the provider.
func (e *evaluator) evaluateLLM(ctx context.Context, data *workflow.LLMEngineData, inputs []string) (outcome, error) {
	var textInputs []string
	var imageParts []genai.Part

	for _, input := range inputs {
		if !workflow.IsImageValue(input) {
			textInputs = append(textInputs, input)
			continue
		}
		mimeType, base64Data, err := workflow.DecodeImageValue(input)
		if err != nil {
			// Unparseable image values are dropped rather than
			// failing the node.
			continue
		}
		imageParts = append(imageParts, genai.InlinePart(mimeType, base64Data))
	}

	combinedText := strings.Join(textInputs, "\n")

	var parts []genai.Part
	if combinedText != "" {
		parts = append(parts, genai.TextPart(combinedText))
	} else if len(imageParts) > 0 {
		parts = append(parts, genai.TextPart(defaultImageInstruction))
	}
	parts = append(parts, imageParts...)

	if len(parts) == 0 {
		return outcome{}, &requiredInputError{message: "LLM Engine requires an input."}
	}

	provider, err := e.requireProvider()
	if err != nil {
		return outcome{}, err
	}

	generated, err := provider.GenerateText(ctx, data.Model, parts, data.UseWebSearch)
	if err != nil {
		return outcome{}, err
	}
	return valueOutcome(generated), nil
}

// evaluateImage resolves the prompt (configured text first, joined upstream
// text as fallback) and calls the provider's image endpoint.
func (e *evaluator) evaluateImage(ctx context.Context, data *workflow.ImageGeneratorData, joined string) (outcome, error) {
	prompt := data.Prompt
	if prompt == "" {
		prompt = joined
	}
	if prompt == "" {
		return outcome{}, &requiredInputError{message: "Image Generator requires a prompt."}
	}

	provider, err := e.requireProvider()
	if err != nil {
		return outcome{}, err
	}

	imageValue, err := provider.GenerateImage(ctx, data.Model, prompt)
	if err != nil {
		return outcome{}, fmt.Errorf("Image generation failed: %w", err)
	}
	return valueOutcome(imageValue), nil
}

// evaluateDataLoader passes upstream text through. With no upstream value
// it fetches the configured source URL when a fetcher is available,
// otherwise it emits the mocked placeholder.
func (e *evaluator) evaluateDataLoader(ctx context.Context, data *workflow.DataLoaderData, nodeType workflow.NodeType, joined string) (outcome, error) {
	if joined != "" {
		return valueOutcome(joined), nil
	}

	if e.fetcher != nil && data.SourceURL != "" {
		fetched, err := e.fetcher.Fetch(ctx, data.SourceURL)
		if err != nil {
			return outcome{}, err
		}
		return valueOutcome(fetched), nil
	}

	return valueOutcome(fmt.Sprintf("(Mock output for %s)", nodeType)), nil
}

func (e *evaluator) requireProvider() (genai.Provider, error) {
	if e.provider == nil {
		return nil, &genai.ServiceError{
			Kind:    genai.ErrorNotConfigured,
			Message: "No generative service provider is configured.",
		}
	}
	return e.provider, nil
}

// knowledgeBaseContext synthesizes the context string for a knowledge base
// node. File bytes are never read; only the file listing is surfaced.
func knowledgeBaseContext(files []workflow.FileInfo) string {
	if len(files) == 0 {
		return "[CONTEXT FROM KNOWLEDGE BASE]: No files were uploaded."
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, "- "+file.Name)
	}

	return fmt.Sprintf("[CONTEXT FROM %d FILE(S)]:\n%s\n(File content is simulated for this demonstration)",
		len(files), strings.Join(names, "\n"))
}
