// Package buffer provides a thread-safe growable buffer for accumulating
// streamed data.
//
// Buffer grows as data is written, so it suits reads where the total size is
// not known up front (draining a stream into memory, collecting the output of
// a copy). It implements io.Reader, io.Writer and io.Closer, and readers block
// until data arrives or the write side is closed, so a Buffer can also stand in
// as an in-memory pipe between a producer and a consumer goroutine.
//
// Shutdown is either graceful through CloseWrite (reads drain what is left and
// then return io.EOF) or immediate through CloseWithError.
//
// Example usage:
//
//	buf := buffer.Bytes()
//	buf.Write([]byte("hello"))
//	buf.CloseWrite()
//
//	data := buf.Bytes() // copy of the accumulated bytes
package buffer
