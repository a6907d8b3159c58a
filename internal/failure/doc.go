// Package failure defines the error taxonomy shared by the lookup, audio and
// export stages. Every error that reaches a user carries a Kind, a readable
// message and, where one exists, a remediation hint.
package failure
