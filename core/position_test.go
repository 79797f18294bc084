package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionBlockGuard(t *testing.T) {
	const block = int64(7)

	// first is the family stamped at block, second asks to run at the
	// same block. Same family passes, opposite family is rejected.
	cases := []struct {
		first   string
		second  string
		allowed bool
	}{
		{"borrow", "borrow", true},
		{"borrow", "put", true},
		{"borrow", "repay", false},
		{"borrow", "take", false},
		{"repay", "repay", true},
		{"repay", "take", true},
		{"repay", "borrow", false},
		{"repay", "put", false},
	}

	for _, c := range cases {
		p := &Position{}
		switch c.first {
		case "borrow", "put":
			p.BlockBorrowPut = block
		case "repay", "take":
			p.BlockRepayTake = block
		}

		var got bool
		switch c.second {
		case "borrow", "put":
			got = p.AllowBorrowPut(block)
		case "repay", "take":
			got = p.AllowRepayTake(block)
		}

		assert.Equal(t, c.allowed, got, "%s then %s", c.first, c.second)
	}

	// a later block clears the guard in both directions
	p := &Position{BlockBorrowPut: block, BlockRepayTake: block}
	assert.True(t, p.AllowBorrowPut(block+1))
	assert.True(t, p.AllowRepayTake(block+1))
}
