package linking

import "errors"

// Link errors
var (
	ErrLinkNotFound        = errors.New("linking: marketplace link not found")
	ErrLinkAlreadyExists   = errors.New("linking: link already exists for linkable and account")
	ErrLinkInvalidLinkable = errors.New("linking: invalid linkable reference")
	ErrLinkInvalidAccount  = errors.New("linking: invalid account ID")
	ErrLinkInvalidStatus   = errors.New("linking: invalid link status")
	ErrLinkNotVariantLevel = errors.New("linking: operation requires a variant-level link")
	ErrLinkNotProductLevel = errors.New("linking: operation requires a product-level link")
	ErrLinkParentMismatch  = errors.New("linking: parent link belongs to a different account")
)

// Account errors
var (
	ErrAccountNotFound       = errors.New("linking: marketplace account not found")
	ErrAccountInactive       = errors.New("linking: marketplace account is inactive")
	ErrInvalidChannelCode    = errors.New("linking: invalid channel code")
	ErrAccountMissingChannel = errors.New("linking: account has no channel code")
)

// Sync input errors
var (
	ErrSyncMissingExternalID = errors.New("linking: sync data missing external product ID")
	ErrSyncMissingSKU        = errors.New("linking: sync data missing external SKU")
)
