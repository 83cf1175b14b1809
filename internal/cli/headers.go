package cli

import "strings"

// parseHeaders converts "Key: Value" strings into a map, skipping malformed ones
func parseHeaders(h []string) map[string]string {
	m := make(map[string]string)
	for _, hdr := range h {
		parts := strings.SplitN(hdr, ":", 2)
		if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
			m[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return m
}
