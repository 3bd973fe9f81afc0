package domain

import (
	"errors"
	"time"
)

// Artifact is one dump file in the export directory. The artifact set is
// re-derived from the directory every cycle; nothing holds one across cycles.
type Artifact struct {
	DatabaseName string
	Filename     string
	Path         string
	Size         int64
	Compressed   bool
	CreatedAt    time.Time
}

// ErrTooLarge is returned by publishers that refuse an artifact exceeding
// their platform's attachment limit instead of attempting the upload.
var ErrTooLarge = errors.New("artifact exceeds upload size limit")

// ErrNoChanges signals that a publish step found nothing new to do (e.g. a
// clean git tree). Callers treat it as a skip, not a failure.
var ErrNoChanges = errors.New("no changes to publish")
