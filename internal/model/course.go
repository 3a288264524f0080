package model

import "math/big"

// Course is a read-only projection of a course stored in the marketplace
// contract. The client never mutates it directly, only requests mutation
// via transactions.
type Course struct {
	ID          uint64   `json:"id"`
	Instructor  string   `json:"instructor"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CoverImage  string   `json:"cover_image"`
	VideoURLs   []string `json:"video_urls"`
	// PriceUSD is the course price in USD, fixed-point with 18 decimals
	// (the contract's native representation).
	PriceUSD *big.Int `json:"price_usd"`
}

// Enrollment associates a student with a course. Existence is binary; the
// contract does not expose partial enrollment.
type Enrollment struct {
	Student  string `json:"student"`
	CourseID uint64 `json:"course_id"`
}

// Dashboard groups the two independent read pipelines for an account: the
// courses it teaches and the courses it is enrolled in.
type Dashboard struct {
	Teaching    []Course `json:"teaching"`
	Enrollments []Course `json:"enrollments"`
}
