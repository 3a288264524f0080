package dto

import "coursechain/internal/model"

// FeeUpdateDTO is used for incoming course-creation-fee changes. The fee is
// a whole number of wei given as a string.
type FeeUpdateDTO struct {
	Fee string `json:"fee" validate:"required"`
}

// AddressUpdateDTO is used for incoming admin or price-feed address changes.
type AddressUpdateDTO struct {
	Address string `json:"address" validate:"required"`
}

// MarketConfigResponseDTO is the marketplace configuration read from the
// contract.
type MarketConfigResponseDTO struct {
	Admin             string `json:"admin"`
	CourseCreationFee string `json:"course_creation_fee"`
	PriceFeedAddress  string `json:"price_feed_address"`
}

// FromMarketConfig maps the contract configuration onto its response shape.
func FromMarketConfig(c model.MarketConfig) MarketConfigResponseDTO {
	fee := ""
	if c.CourseCreationFee != nil {
		fee = c.CourseCreationFee.String()
	}
	return MarketConfigResponseDTO{
		Admin:             c.Admin,
		CourseCreationFee: fee,
		PriceFeedAddress:  c.PriceFeedAddress,
	}
}
