package patent

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// ContentHash computes a stable fingerprint over the corpus records in
// insertion order.  Index snapshots are keyed by this hash so a stale
// snapshot is detected whenever any embedded field of any record changes,
// or the record order changes.
func ContentHash(records []Record) string {
	h := sha256.New()
	for _, r := range records {
		h.Write([]byte(r.ID))
		h.Write([]byte{0})
		h.Write([]byte(r.Title))
		h.Write([]byte{0})
		h.Write([]byte(r.ClaimText))
		h.Write([]byte{0})
		h.Write([]byte(strings.Join(r.ClaimKeys, "\x1f")))
		h.Write([]byte{0})
		h.Write([]byte(r.ProductGroup))
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(r.ApplicationYear)))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
