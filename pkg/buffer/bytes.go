package buffer

// DefaultSize is the initial capacity used by Bytes.
const DefaultSize = 1 << 12

var _ BytesBuffer = (*Buffer[byte])(nil)

// BytesBuffer is the byte-oriented view of a Buffer, for callers that only
// need to write into an accumulator and take the result.
type BytesBuffer interface {
	Write(p []byte) (n int, err error)
	Read(p []byte) (n int, err error)
	Grow(n int)
	Close() error
	CloseWrite() error
	CloseWithError(err error) error
	Error() error
	Reset()
	Bytes() []byte
	Len() int
}

// Bytes creates a growable byte Buffer with DefaultSize initial capacity.
func Bytes() *Buffer[byte] {
	return N[byte](DefaultSize)
}
