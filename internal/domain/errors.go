package domain

import "errors"

var (
	ErrMissingFullReport = errors.New("full report extract is required")
	ErrUnknownCompany    = errors.New("unknown company")
	ErrNoData            = errors.New("no company data loaded")
	ErrSheetNotFound     = errors.New("sheet not found")
	ErrUnsupportedFormat = errors.New("unsupported extract format")
	ErrStorageDisabled   = errors.New("object storage is not configured")
)
