package finder

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// hashBlockSize is the read buffer for full digests.
const hashBlockSize = 1 << 20 // 1 MiB

// preHashSize is how much of a file the cheap first-pass hash reads.
const preHashSize = 4 << 10 // 4 KiB

var bufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, hashBlockSize)
		return &b
	},
}

// digestFile computes the full SHA-256 of the file as a hex string. Assigned
// to a variable so tests can observe when digests are (not) computed.
var digestFile = func(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := sha256.New()
	bufPtr := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(bufPtr)

	if _, err := io.CopyBuffer(h, file, *bufPtr); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// preHashFile hashes the first 4 KiB with xxhash. Equal files always agree on
// it, so differing values prune a bucket before any full digest is paid for.
var preHashFile = func(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	buf := make([]byte, preHashSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, err
	}
	return xxhash.Sum64(buf[:n]), nil
}
