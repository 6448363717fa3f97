package env

import (
	"os"
	"strings"
)

// Prefix namespaces the variables the tool reads.
const Prefix = "RENTALSMOKE_"

// LoadSystemEnv returns the environment variables starting with prefix,
// keyed by the remainder of their name. An empty prefix returns everything.
func LoadSystemEnv(prefix string) map[string]string {
	result := make(map[string]string)
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if prefix == "" {
			result[key] = value
			continue
		}
		if name, found := strings.CutPrefix(key, prefix); found && name != "" {
			result[name] = value
		}
	}
	return result
}
