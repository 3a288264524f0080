package model

import (
	"io"
	"math/big"
)

// AssetUpload is a file selected for publishing to the content-addressed
// store, read once from the request body.
type AssetUpload struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// PublishedAsset is the result of pinning one asset. Immutable once the
// ContentID is assigned: content addressing makes the identifier a pure
// function of the content.
type PublishedAsset struct {
	Name       string `json:"name"`
	ContentID  string `json:"content_id"`
	GatewayURL string `json:"gateway_url"`
}

// CourseDraft holds everything needed to create a course. A draft is never
// partially submitted; the course is created atomically by one contract call
// carrying the whole draft.
type CourseDraft struct {
	Title       string
	Description string
	// PriceUSD is USD fixed-point with 18 decimals.
	PriceUSD *big.Int
	Cover    AssetUpload
	Videos   []AssetUpload
}
