package ai

import "context"

// Assistant is the text-generation collaborator. One prompt in, raw text
// out; no session state is kept between calls.
type Assistant interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
