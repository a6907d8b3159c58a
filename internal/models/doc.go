// Package models lists the chat models an OpenAI-compatible completion
// endpoint offers, so users can pick a value for llm.model.
package models
