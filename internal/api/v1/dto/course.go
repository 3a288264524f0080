package dto

import "coursechain/internal/model"

// CourseResponseDTO is returned in API responses for courses. Prices are
// rendered as decimal USD strings.
type CourseResponseDTO struct {
	ID          uint64   `json:"id"`
	Instructor  string   `json:"instructor"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CoverImage  string   `json:"cover_image"`
	VideoURLs   []string `json:"video_urls"`
	PriceUSD    string   `json:"price_usd"`
}

// FromCourse maps a course projection onto its response shape.
func FromCourse(c model.Course) CourseResponseDTO {
	return CourseResponseDTO{
		ID:          c.ID,
		Instructor:  c.Instructor,
		Title:       c.Title,
		Description: c.Description,
		CoverImage:  c.CoverImage,
		VideoURLs:   c.VideoURLs,
		PriceUSD:    model.FormatUSD(c.PriceUSD),
	}
}

// FromCourses maps a list of course projections.
func FromCourses(courses []model.Course) []CourseResponseDTO {
	out := make([]CourseResponseDTO, 0, len(courses))
	for _, c := range courses {
		out = append(out, FromCourse(c))
	}
	return out
}

// DashboardResponseDTO groups the instructor and student read pipelines.
type DashboardResponseDTO struct {
	Teaching    []CourseResponseDTO `json:"teaching"`
	Enrollments []CourseResponseDTO `json:"enrollments"`
}
