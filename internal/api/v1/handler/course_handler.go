package handler

import (
	"net/http"
	"strconv"
	"strings"

	"coursechain/internal/api/v1/dto"
	"coursechain/internal/model"
	"coursechain/internal/service"

	"github.com/rs/zerolog"
)

// maxDraftMemory bounds the in-memory part of a multipart course draft;
// larger video files spill to disk.
const maxDraftMemory = 64 << 20

// CourseHandler handles course browsing, creation and enrollment endpoints.
type CourseHandler struct {
	market service.MarketService
	log    zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(market service.MarketService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{market: market, log: logger.With().Str("handler", "CourseHandler").Logger()}
}

// RegisterRoutes mounts course routes
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/courses", h.handleCourses)
	mux.HandleFunc("/courses/", h.handleCourse)
	mux.HandleFunc("/dashboard", h.dashboard)
}

func (h *CourseHandler) handleCourses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listCourses(w, r)
	case http.MethodPost:
		h.createCourse(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CourseHandler) handleCourse(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/courses/")

	if rest == "search" {
		h.searchCourses(w, r)
		return
	}

	idPart, action, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil {
		http.Error(w, "Invalid course id", http.StatusBadRequest)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.getCourse(w, r, id)
	case action == "enroll" && r.Method == http.MethodPost:
		h.enroll(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// listCourses serves the full catalogue. Works with no signer configured:
// browsing stays available in read-only mode.
func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.market.ListCourses(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list courses")
		http.Error(w, "Failed to fetch courses", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromCourses(courses))
}

func (h *CourseHandler) searchCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	courses, err := h.market.SearchCourses(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to search courses")
		http.Error(w, "Failed to fetch courses", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromCourses(courses))
}

func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request, id uint64) {
	course, err := h.market.GetCourse(r.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Uint64("course_id", id).Msg("failed to get course")
		http.Error(w, "Failed to fetch course", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromCourse(course))
}

// createCourse accepts a multipart draft: title, description, price_usd
// fields plus one cover file and one or more videos files, in the order the
// user selected them.
func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxDraftMemory); err != nil {
		http.Error(w, "Invalid multipart payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	price, err := model.ParseUSD(r.FormValue("price_usd"))
	if err != nil {
		http.Error(w, "Invalid price: "+err.Error(), http.StatusBadRequest)
		return
	}

	draft := model.CourseDraft{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		PriceUSD:    price,
	}

	if covers := r.MultipartForm.File["cover"]; len(covers) > 0 {
		cover, err := covers[0].Open()
		if err != nil {
			http.Error(w, "Failed to read cover file", http.StatusBadRequest)
			return
		}
		defer cover.Close()
		draft.Cover = model.AssetUpload{
			Name:        covers[0].Filename,
			ContentType: covers[0].Header.Get("Content-Type"),
			Content:     cover,
		}
	}

	for _, fh := range r.MultipartForm.File["videos"] {
		video, err := fh.Open()
		if err != nil {
			http.Error(w, "Failed to read video file", http.StatusBadRequest)
			return
		}
		defer video.Close()
		draft.Videos = append(draft.Videos, model.AssetUpload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     video,
		})
	}

	record, err := h.market.CreateCourse(r.Context(), draft)
	writeTx(w, record, err)
}

func (h *CourseHandler) enroll(w http.ResponseWriter, r *http.Request, id uint64) {
	record, err := h.market.Enroll(r.Context(), id)
	writeTx(w, record, err)
}

func (h *CourseHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	dashboard, err := h.market.Dashboard(r.Context())
	if err != nil {
		if status := statusFor(err); status != http.StatusInternalServerError {
			http.Error(w, err.Error(), status)
			return
		}
		h.log.Error().Err(err).Msg("failed to build dashboard")
		http.Error(w, "Failed to fetch dashboard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.DashboardResponseDTO{
		Teaching:    dto.FromCourses(dashboard.Teaching),
		Enrollments: dto.FromCourses(dashboard.Enrollments),
	})
}
