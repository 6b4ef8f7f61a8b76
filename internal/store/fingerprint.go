package store

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// sampleBytes is how much of the head and tail of a file feeds the
// fingerprint. Sampling instead of hashing the whole file is a deliberate
// performance tradeoff: a collision only risks offering the wrong bookmark.
const sampleBytes = 8192

// FileFingerprint derives a stable identity for file-backed content from a
// sample of leading bytes, trailing bytes, and total length. The "file:"
// prefix keeps file fingerprints in their own keyspace.
func FileFingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}

	h := sha256.New()

	head := make([]byte, sampleBytes)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	h.Write(head[:n])

	if info.Size() > sampleBytes {
		tail := make([]byte, sampleBytes)
		off := info.Size() - sampleBytes
		if m, err := f.ReadAt(tail, off); err == nil || err == io.EOF {
			h.Write(tail[:m])
		}
	}

	var size [8]byte
	binary.BigEndian.PutUint64(size[:], uint64(info.Size()))
	h.Write(size[:])

	return "file:" + hex.EncodeToString(h.Sum(nil))[:32], nil
}

// PasteFingerprint derives an identity for in-memory pasted text from its
// full content.
func PasteFingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "paste:" + hex.EncodeToString(sum[:])[:32]
}

// URLFingerprint derives an identity for URL-sourced content from the
// normalized URL string.
func URLFingerprint(raw string) string {
	sum := sha256.Sum256([]byte(normalizeURL(raw)))
	return "url:" + hex.EncodeToString(sum[:])[:32]
}

// normalizeURL lowercases the scheme and host, drops the fragment, and
// trims a trailing slash so cosmetic variants of the same address share a
// fingerprint.
func normalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	s := u.String()
	return strings.TrimSuffix(s, "/")
}
