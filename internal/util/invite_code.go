package util

import (
	"strings"

	"gorpoker/internal/rng"
)

// invite codes skip easily confused characters (0/O, 1/I/L)
const inviteAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// InviteCodeLength is the length of a game invite code
const InviteCodeLength = 6

// InviteCode returns a new invite code using the supplied generator
func InviteCode(r rng.Generator) string {
	var sb strings.Builder
	for i := 0; i < InviteCodeLength; i++ {
		sb.WriteByte(inviteAlphabet[r.Intn(len(inviteAlphabet))])
	}

	return sb.String()
}

// IsValidInviteCode returns true if the string could be an invite code
func IsValidInviteCode(code string) bool {
	if len(code) != InviteCodeLength {
		return false
	}

	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(inviteAlphabet, rune(code[i])) {
			return false
		}
	}

	return true
}
