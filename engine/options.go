package engine

import (
	"github.com/flowmesh/flowmesh/observability"
	"github.com/flowmesh/flowmesh/providers/genai"
)

// Option configures a Runner.
type Option func(*Runner)

// WithProvider sets the generative service provider used by LLM engine and
// image generator nodes. Without one, any generative node fails the run
// with a not-configured service error.
func WithProvider(provider genai.Provider) Option {
	return func(runner *Runner) {
		runner.provider = provider
	}
}

// WithFetcher enables live fetching for data loader nodes that have a
// source URL configured and no upstream input. Without one, such nodes
// emit a mocked placeholder.
func WithFetcher(fetcher Fetcher) Option {
	return func(runner *Runner) {
		runner.fetcher = fetcher
	}
}

// WithObserver sets the observer receiving run and node lifecycle events.
// It takes precedence over an observer carried by the execution context.
func WithObserver(observer observability.Observer) Option {
	return func(runner *Runner) {
		runner.observer = observer
	}
}
