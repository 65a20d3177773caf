package cache

import (
	"fmt"
	"strings"
)

// Key builds a deterministic cache key from a prefix and key/value pairs, in
// the order given: Key("customers:list", "page", 1) == "customers:list:page=1".
// A trailing key without a value is kept with an empty value.
func Key(prefix string, kv ...any) string {
	if len(kv) == 0 {
		return prefix
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte(':')
	for i := 0; i < len(kv); i += 2 {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%v=", kv[i])
		if i+1 < len(kv) {
			fmt.Fprintf(&b, "%v", kv[i+1])
		}
	}
	return b.String()
}
