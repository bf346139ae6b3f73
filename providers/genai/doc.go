// Package genai defines the boundary between the execution engine and an
// external generative service: the [Provider] interface for text and image
// generation, the multimodal [Part] request type, and the [ServiceError]
// taxonomy that provider implementations translate raw API failures into.
package genai
