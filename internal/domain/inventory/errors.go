package inventory

import "errors"

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryNameExists    = errors.New("category name already in use")
	ErrItemNotFound          = errors.New("item not found")
	ErrPartNotFound          = errors.New("part not found")
	ErrSerialNumberExists    = errors.New("serial number already registered")
	ErrItemNotAvailable      = errors.New("item is not available for a new ticket")
	ErrPartNotApplicable     = errors.New("part does not apply to this item")
)
