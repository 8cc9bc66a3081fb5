package ports

import (
	"context"
	"math/big"
	"time"
)

// Router is the narrow interface consumed to interact with the external
// exchange: swap execution, pair creation and liquidity provisioning. The
// implementation is assumed correct and is never redesigned here.
//
// The from argument identifies the account paying the input side of a call,
// which on-chain would implicitly be the caller.
type Router interface {
	// PairAddress returns the address of the pool trading the two assets,
	// creating the pair if it does not exist yet.
	PairAddress(ctx context.Context, assetA, assetB string) (string, error)
	// SwapExactInForOut swaps amountIn of path[0] for path[len-1], crediting
	// the output to recipient. It returns the amounts moved along the path.
	// A deadline in the past fails the whole call.
	SwapExactInForOut(
		ctx context.Context,
		from string, amountIn, minAmountOut *big.Int, path []string,
		recipient string, deadline time.Time,
	) ([]*big.Int, error)
	// AddLiquidity supplies up to the desired amounts of the two assets to
	// their pool, crediting LP ownership to lpRecipient. It returns the
	// amounts actually used and the LP tokens issued.
	AddLiquidity(
		ctx context.Context,
		from, assetA, assetB string,
		amountADesired, amountBDesired, amountAMin, amountBMin *big.Int,
		lpRecipient string, deadline time.Time,
	) (usedA, usedB, liquidityTokens *big.Int, err error)
}

// RouterCheckpointer is implemented by in-process routers whose own books
// are not covered by the store transaction. Checkpoint captures the current
// state and returns a function restoring it, so that router calls already
// executed can be undone when the surrounding transaction is discarded.
type RouterCheckpointer interface {
	Checkpoint() func()
}
