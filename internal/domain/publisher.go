package domain

import "context"

// Publisher replicates a fresh artifact somewhere else: a git remote, a chat
// webhook, an object store. Publishers are write-only; retention over the
// export directory stays with the sweeper.
type Publisher interface {
	Publish(ctx context.Context, artifact Artifact) error
}
