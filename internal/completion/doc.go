// Package completion asks an LLM completion endpoint to describe a term as a
// dictionary entry and recovers a JSON object from whatever text comes back.
// A malformed completion degrades to a placeholder entry instead of failing
// the lookup; only transport and HTTP errors are reported.
package completion
