package badger

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Key prefixes for different data types
const (
	pageRecordPrefix  = "pagrec"
	pageOrderPrefix   = "pagord"
	pageOrderRevIndex = "pagseq"
	pageOrderSeq      = "pagctr"
	sessionQueryKey   = "sesqry"
	sessionUnitKey    = "sesuni"
)

// makePageRecordKey generates a key for a page record by page identifier.
func makePageRecordKey(pageID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", pageRecordPrefix, pageID))
}

// makePageOrderKey generates a composite key for the insertion-order index.
// Format: prefix:seq
func makePageOrderKey(seq uint64) []byte {
	prefix := pageOrderPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makePageOrderRevKey generates the reverse-index key mapping a page
// identifier to its insertion-order sequence number.
func makePageOrderRevKey(pageID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", pageOrderRevIndex, pageID))
}

// pageIDFromRecordKey recovers the page identifier from a record key.
func pageIDFromRecordKey(key []byte) string {
	return strings.TrimPrefix(string(key), pageRecordPrefix+":")
}

// encodeSeq encodes a sequence number for storage as a value.
func encodeSeq(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return buf
}

// decodeSeq decodes a sequence number stored as a value.
func decodeSeq(data []byte) uint64 {
	if len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}
