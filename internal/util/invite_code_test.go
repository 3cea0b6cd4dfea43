package util

import (
	"testing"

	"gorpoker/internal/rng"

	"github.com/stretchr/testify/assert"
)

type sequenceRNG struct {
	values []int
	i      int
}

func (s *sequenceRNG) Intn(n int) int {
	v := s.values[s.i%len(s.values)] % n
	s.i++
	return v
}

func TestInviteCode(t *testing.T) {
	a := assert.New(t)

	code := InviteCode(&sequenceRNG{values: []int{0, 1, 2, 3, 4, 5}})
	a.Equal("ABCDEF", code)
	a.True(IsValidInviteCode(code))

	code = InviteCode(rng.Crypto{})
	a.Len(code, InviteCodeLength)
	a.True(IsValidInviteCode(code))
}

func TestIsValidInviteCode(t *testing.T) {
	a := assert.New(t)

	a.False(IsValidInviteCode(""))
	a.False(IsValidInviteCode("ABC"))
	a.False(IsValidInviteCode("ABCDEFG"))
	a.False(IsValidInviteCode("ABCDE0")) // 0 is not in the alphabet
	a.False(IsValidInviteCode("abcdef")) // lowercase not allowed
	a.True(IsValidInviteCode("XK7Q2M"))
}
