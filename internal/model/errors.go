package model

import "errors"

// Domain errors shared by repositories and services. Every business error
// aborts the enclosing transaction; nothing partial is ever persisted.
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrCategoryInUse     = errors.New("category still referenced by products")

	// ErrConcurrentUpdate means another writer changed the row between our
	// read and our guarded write. The operation rolled back; safe to retry.
	ErrConcurrentUpdate = errors.New("record modified concurrently, retry the operation")
)
