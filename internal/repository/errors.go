package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidReference is returned when a referenced row is missing at write time.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInvalidProductReference and ErrInvalidLocationReference narrow ErrInvalidReference
	// to the referenced table.
	ErrInvalidProductReference  = fmt.Errorf("product: %w", ErrInvalidReference)
	ErrInvalidLocationReference = fmt.Errorf("location: %w", ErrInvalidReference)
	// ErrNegativeAmount is returned when a write would leave a lot below zero.
	ErrNegativeAmount = errors.New("negative amount")
	// ErrAmountOutOfRange is returned when an amount does not fit the amount column.
	ErrAmountOutOfRange = errors.New("amount out of range")
)
