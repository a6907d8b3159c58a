// Package word holds the records that flow through the lookup pipeline: the
// normalized Word Record produced by a lookup and the audio artifacts generated
// for it.
package word
