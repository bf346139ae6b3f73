package observability

// Standard attribute keys used when recording engine and provider events,
// kept in one place so log output stays consistent across packages.

const (
	// AttrRunID is the unique identifier of a workflow run.
	AttrRunID = "run.id"

	// AttrWorkflowName is the name of the workflow being executed.
	AttrWorkflowName = "workflow.name"

	// AttrNodeID is the identifier of the node being processed.
	AttrNodeID = "node.id"

	// AttrNodeType is the declared type of the node being processed.
	AttrNodeType = "node.type"

	// AttrNodeCount is the number of nodes in the workflow.
	AttrNodeCount = "node.count"

	// AttrRouterDecision is the boolean branch decision of a router node.
	AttrRouterDecision = "router.decision"

	// AttrGenModel is the generative model identifier used by a call.
	AttrGenModel = "gen.model"

	// AttrGenProvider is the name of the generative service provider.
	AttrGenProvider = "gen.provider"

	// AttrHTTPStatusCode is the HTTP response status code.
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL.
	AttrHTTPURL = "http.url"
)
