// Package openai implements the ai service interfaces against
// OpenAI-compatible HTTP APIs (OpenAI, Ollama, LocalAI, vLLM) via langchaingo.
//
// Both the embedder and the completer are thin adapters; retries, fallback
// vectors, and degradation policy live with the callers.
package openai
