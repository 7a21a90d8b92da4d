package aiff

import (
	"errors"
	"io"
)

// memBuffer is a minimal in-memory io.ReadWriteSeeker, used to build one
// chunk's payload bytes through the same bytestream.Stream primitives
// (and therefore the same pstring/padding rules) the file-level framer
// uses, without requiring a real file or bytes.Buffer's lack of Seek.
type memBuffer struct {
	buf []byte
	pos int
}

func newMemBuffer() *memBuffer {
	return &memBuffer{}
}

func (m *memBuffer) Read(p []byte) (int, error) {
	if m.pos >= len(m.buf) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += n
	return n, nil
}

func (m *memBuffer) Write(p []byte) (int, error) {
	end := m.pos + len(p)
	if end > len(m.buf) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memBuffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = int64(m.pos)
	case io.SeekEnd:
		base = int64(len(m.buf))
	default:
		return 0, errors.New("memBuffer: invalid whence")
	}

	newPos := base + offset
	if newPos < 0 {
		return 0, errors.New("memBuffer: negative position")
	}
	m.pos = int(newPos)
	return newPos, nil
}

func (m *memBuffer) Bytes() []byte {
	return m.buf
}
