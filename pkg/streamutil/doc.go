// Package streamutil provides helpers for byte streams: closing a resource
// without surfacing the error, measuring a stream by draining it, reading a
// stream fully into a fixed or growable buffer with an optional size limit,
// and copying one stream into another with optional closing of either end.
//
// Every helper is a single blocking pass over the stream using a fixed-size
// scratch buffer. None of them keep state between calls, and none of them
// are safe to run concurrently on the same stream.
//
// Example usage:
//
//	f, err := os.Open(path)
//	if err != nil {
//	    return err
//	}
//	defer streamutil.Close(f)
//
//	// Read at most 1 MiB; f is closed on success.
//	data, err := streamutil.ReadAll(f, streamutil.WithMaxBytes(1<<20))
//
//	// Copy without closing the destination.
//	n, err := streamutil.Copy(os.Stdout, src, streamutil.WithCloseDestination(false))
package streamutil
