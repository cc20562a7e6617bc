package tree

import "context"

// DefaultChunkSize is how many entries a streaming listing hands over per
// scheduling tick. Large trees stay responsive because the consumer only
// touches one chunk per message.
const DefaultChunkSize = 256

// Chunk is one ordered slice of a streaming listing. Chunks from a single
// ListStream call never interleave: each one's entries follow all earlier
// entries. Err is set on the terminating chunk when the listing failed, in
// which case the whole listing must be discarded.
type Chunk struct {
	Root       string
	DepthLimit int
	Entries    []Entry
	Final      bool
	Err        error
}

// ListStream runs lister in a producer goroutine and delivers the result as
// ordered chunks. The channel is closed after the final (or failing) chunk.
// Cancellation is by supersession, not interruption: callers tag each stream
// with a generation and drop chunks from stale ones.
func ListStream(ctx context.Context, lister Lister, root string, opts Options, chunkSize int) <-chan Chunk {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	out := make(chan Chunk, 1)

	go func() {
		defer close(out)

		snap, err := lister.List(ctx, root, opts)
		if err != nil {
			out <- Chunk{Root: root, DepthLimit: opts.DepthLimit, Final: true, Err: err}
			return
		}

		entries := snap.Entries
		for len(entries) > chunkSize {
			out <- Chunk{Root: snap.Root, DepthLimit: snap.DepthLimit, Entries: entries[:chunkSize]}
			entries = entries[chunkSize:]
		}
		out <- Chunk{Root: snap.Root, DepthLimit: snap.DepthLimit, Entries: entries, Final: true}
	}()

	return out
}
