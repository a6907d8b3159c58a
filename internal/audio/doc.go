// Package audio talks to text-to-speech services. The primary backend is a
// local synthesizer reachable over HTTP; OpenAI's speech endpoint can serve as
// a hosted fallback. Synthesizers return the encoded audio; persisting it is up
// to the caller.
package audio
