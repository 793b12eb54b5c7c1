// Package llm provides the capability/inference provider abstraction.
//
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling
//
// A provider reports availability before any session is created; local
// providers may need to download a model first, reported through a
// download monitor with a loaded fraction in [0,1].

package llm

import "context"

// Availability describes whether a provider can serve inference now.
type Availability string

const (
	// Available means a session can be created immediately.
	Available Availability = "available"
	// Downloadable means the model must be fetched before first use.
	Downloadable Availability = "downloadable"
	// Downloading means a model fetch is already in progress.
	Downloading Availability = "downloading"
	// Unavailable is terminal: the provider cannot serve inference.
	Unavailable Availability = "unavailable"
)

// NeedsDownload reports whether session creation will block on a model
// download.
func (a Availability) NeedsDownload() bool {
	return a == Downloadable || a == Downloading
}

// DownloadMonitor receives download progress as a loaded fraction in [0,1].
// May be nil when the caller does not care about progress.
type DownloadMonitor func(loaded float64)

// Provider is the abstract inference capability.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Availability queries whether inference can be served. An error means
	// the capability check itself failed, distinct from a clean
	// Unavailable answer.
	Availability(ctx context.Context) (Availability, error)

	// Create obtains a session handle, downloading the model first when
	// needed. monitor, if non-nil, receives download progress. Create can
	// block for as long as the download takes; cancellation is via ctx.
	Create(ctx context.Context, monitor DownloadMonitor) (Session, error)
}

// Session is a handle for prompting a provisioned model.
type Session interface {
	// Prompt sends text to the model and returns the raw response text.
	Prompt(ctx context.Context, text string) (string, error)

	// Close releases the session.
	Close() error
}
