// Package assistants is a minimal typed client for the OpenAI Assistants
// v2 endpoints used by the meta-prompt loop.
//
// The local process never owns conversation state: it holds opaque
// (thread id, run id) references, observes run status by polling, and
// mutates the remote run only by submitting tool outputs.
package assistants
