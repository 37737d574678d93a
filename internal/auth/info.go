package auth

import "strings"

const (
	boundaryChars   = 2
	minRevealLength = 8
)

// SecretInfo is a redacted view of the configured secret for debugging deployments.
type SecretInfo struct {
	Exists bool   `json:"token_exists"`
	Length int    `json:"token_length"`
	Start  string `json:"token_start"`
	End    string `json:"token_end"`
}

// Describe never returns more than boundaryChars from each end, and nothing at all for short secrets.
// Exists agrees with Authenticate: a secret that normalizes to nothing is reported as missing.
// Length and boundaries are counted in characters, not bytes.
func Describe(secret string) SecretInfo {
	r := []rune(strings.TrimSpace(secret))
	info := SecretInfo{Exists: Normalize(secret) != "", Length: len(r)}
	if !info.Exists || len(r) < minRevealLength {
		return info
	}
	info.Start = string(r[:boundaryChars])
	info.End = string(r[len(r)-boundaryChars:])
	return info
}
