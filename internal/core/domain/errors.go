package domain

import "errors"

var (
	// ErrTradingClosed is thrown when non-exempt parties attempt a transfer
	// before the trading window is opened.
	ErrTradingClosed = errors.New("trading is not open yet")
	// ErrTradingAlreadyOpen is thrown when trying to open the trading window twice.
	ErrTradingAlreadyOpen = errors.New("trading is already open")
	// ErrTradingNotOpen is thrown when querying the elapsed time of a window
	// that was never opened.
	ErrTradingNotOpen = errors.New("trading window is not open")
	// ErrMaxHoldingExceeded is thrown when a buy would push a non-exempt
	// recipient over the current holding cap.
	ErrMaxHoldingExceeded = errors.New("recipient balance would exceed max holding")
	// ErrExternalConversion is thrown when the router swap or liquidity call
	// fails during a conversion run.
	ErrExternalConversion = errors.New("external conversion failed")
	// ErrInsufficientBalance ...
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("address must not be empty")
	// ErrInvalidFeeShares ...
	ErrInvalidFeeShares = errors.New("fee shares must all be positive")
	// ErrAccountNotFound ...
	ErrAccountNotFound = errors.New("account not found")
)
