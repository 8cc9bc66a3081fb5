package amm

import "errors"

var (
	// ErrInvalidPath is thrown when a swap path is not a direct pair.
	ErrInvalidPath = errors.New("swap path must contain exactly two assets")
	// ErrPairNotFound ...
	ErrPairNotFound = errors.New("pair does not exist")
	// ErrPoolIlliquid is thrown when one of the pool reserves is empty.
	ErrPoolIlliquid = errors.New("pool reserves are too low")
	// ErrAmountTooLow is thrown when a swap would produce no output units.
	ErrAmountTooLow = errors.New("provided amount is too low")
	// ErrAmountTooBig is thrown when a swap would drain the output reserve.
	ErrAmountTooBig = errors.New("provided amount is too big")
	// ErrSlippageExceeded is thrown when the output is below the requested
	// minimum.
	ErrSlippageExceeded = errors.New("output amount below requested minimum")
	// ErrDeadlineExceeded is thrown when a call carries an expired deadline.
	ErrDeadlineExceeded = errors.New("deadline exceeded")
	// ErrInsufficientFunds is thrown when the payer cannot cover the input
	// side of a call.
	ErrInsufficientFunds = errors.New("insufficient funds for pool operation")
)
