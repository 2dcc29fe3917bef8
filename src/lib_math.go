package gibscript

import (
	"math"
	"math/rand"
	"strconv"
)

// RegisterMathLib registers numeric commands. Arithmetic itself is #{} markup.
func (gs *GibScript) RegisterMathLib() {
	e := gs.executor

	gs.builtin(&Command{
		Name:        "randint",
		Description: "Returns a random integer between $1 and $2",
		Handler: func(ctx *Context) error {
			if ctx.Argc() != 3 {
				return argCountError(ctx)
			}
			low := leadingInt(ctx.Argv(1))
			high := leadingInt(ctx.Argv(2))
			if low > high {
				low, high = high, low
			}
			ctx.Return(strconv.FormatInt(randRange(e.config.Rand, low, high), 10))
			return nil
		},
	})
}

// randRange returns a value in [low, high]. The span is computed unsigned so
// bounds near the int64 limits cannot overflow.
func randRange(r *rand.Rand, low, high int64) int64 {
	span := uint64(high) - uint64(low)
	if span >= math.MaxInt64 {
		for {
			n := int64(r.Uint64())
			if uint64(n)-uint64(low) <= span {
				return n
			}
		}
	}
	return low + r.Int63n(int64(span)+1)
}
