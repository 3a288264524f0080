package model

import "math/big"

// MarketConfig is the marketplace configuration read from the contract.
type MarketConfig struct {
	Admin             string   `json:"admin"`
	CourseCreationFee *big.Int `json:"course_creation_fee"`
	PriceFeedAddress  string   `json:"price_feed_address"`
}
