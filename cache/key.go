package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key derives a deterministic cache key from a query parameter struct plus
// any caller-supplied context (such as a preferred display language).
// Marshalling a struct emits fields in declaration order, so two structurally
// equal parameter values always hash identically.
func Key(prefix string, params interface{}, context ...string) string {
	body, err := json.Marshal(params)
	if err != nil {
		// Parameter structs contain only plain data; a marshal failure here
		// would be a programming error. Fall back to an uncacheable-ish key.
		body = []byte(fmt.Sprintf("%+v", params))
	}

	h := sha256.New()
	h.Write([]byte(prefix))
	h.Write([]byte{0})
	h.Write(body)
	for _, c := range context {
		h.Write([]byte{0})
		h.Write([]byte(c))
	}

	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}
