package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"coursechain/internal/api/v1/dto"
	"coursechain/internal/contract"
	"coursechain/internal/model"
	"coursechain/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// fakeMarket records what the handlers pass down and serves canned results.
type fakeMarket struct {
	state     model.ConnectionState
	rebound   bool
	courses   []model.Course
	dashboard model.Dashboard
	config    model.MarketConfig
	record    model.PendingTransaction
	err       error
	txs       []model.PendingTransaction

	searchQuery string
	gotCourseID uint64
	enrolledID  uint64
	draft       model.CourseDraft
	coverBody   []byte
	videoBodies []string
	feeArg      string
	addrArg     string
	withdrawn   bool
}

func (m *fakeMarket) Connection(ctx context.Context, rebind bool) model.ConnectionState {
	if rebind {
		m.rebound = true
	}
	return m.state
}

func (m *fakeMarket) ListCourses(ctx context.Context) ([]model.Course, error) {
	return m.courses, m.err
}

func (m *fakeMarket) GetCourse(ctx context.Context, id uint64) (model.Course, error) {
	m.gotCourseID = id
	if len(m.courses) > 0 {
		return m.courses[0], m.err
	}
	return model.Course{}, m.err
}

func (m *fakeMarket) SearchCourses(ctx context.Context, query string) ([]model.Course, error) {
	m.searchQuery = query
	return m.courses, m.err
}

func (m *fakeMarket) Dashboard(ctx context.Context) (model.Dashboard, error) {
	return m.dashboard, m.err
}

func (m *fakeMarket) MarketConfig(ctx context.Context) (model.MarketConfig, error) {
	return m.config, m.err
}

func (m *fakeMarket) CreateCourse(ctx context.Context, draft model.CourseDraft) (model.PendingTransaction, error) {
	m.draft = draft
	if draft.Cover.Content != nil {
		m.coverBody, _ = io.ReadAll(draft.Cover.Content)
	}
	for _, v := range draft.Videos {
		body, _ := io.ReadAll(v.Content)
		m.videoBodies = append(m.videoBodies, string(body))
	}
	return m.record, m.err
}

func (m *fakeMarket) Enroll(ctx context.Context, courseID uint64) (model.PendingTransaction, error) {
	m.enrolledID = courseID
	return m.record, m.err
}

func (m *fakeMarket) ChangeCreationFee(ctx context.Context, fee string) (model.PendingTransaction, error) {
	m.feeArg = fee
	return m.record, m.err
}

func (m *fakeMarket) UpdatePriceFeed(ctx context.Context, addr string) (model.PendingTransaction, error) {
	m.addrArg = addr
	return m.record, m.err
}

func (m *fakeMarket) ChangeAdmin(ctx context.Context, addr string) (model.PendingTransaction, error) {
	m.addrArg = addr
	return m.record, m.err
}

func (m *fakeMarket) Withdraw(ctx context.Context) (model.PendingTransaction, error) {
	m.withdrawn = true
	return m.record, m.err
}

func (m *fakeMarket) Transactions() []model.PendingTransaction { return m.txs }

func succeededRecord() model.PendingTransaction {
	return model.PendingTransaction{
		ID:          "rec-1",
		Kind:        model.TxEnroll,
		Status:      model.TxSucceeded,
		TxHash:      "0xabc",
		SubmittedAt: time.Now(),
		SettledAt:   time.Now(),
	}
}

func courseMux(market service.MarketService) *http.ServeMux {
	mux := http.NewServeMux()
	NewCourseHandler(market, zerolog.Nop()).RegisterRoutes(mux)
	return mux
}

func adminMux(market service.MarketService) *http.ServeMux {
	mux := http.NewServeMux()
	NewAdminHandler(market, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop()).RegisterRoutes(mux)
	return mux
}

func TestListCourses(t *testing.T) {
	price, _ := model.ParseUSD("19.99")
	market := &fakeMarket{courses: []model.Course{
		{ID: 1, Title: "Solidity", PriceUSD: price},
	}}
	rec := httptest.NewRecorder()
	courseMux(market).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []dto.CourseResponseDTO
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Solidity" {
		t.Fatalf("body = %+v, want the one course", got)
	}
	if got[0].PriceUSD != "19.99" {
		t.Errorf("PriceUSD = %q, want the decimal string 19.99", got[0].PriceUSD)
	}
}

func TestCourseRouting(t *testing.T) {
	market := &fakeMarket{courses: []model.Course{{ID: 7, Title: "Go"}}, record: succeededRecord()}
	mux := courseMux(market)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/7", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /courses/7 = %d, want 200", rec.Code)
	}
	if market.gotCourseID != 7 {
		t.Errorf("fetched course %d, want 7", market.gotCourseID)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("GET /courses/abc = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/courses/7/enroll", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("POST /courses/7/enroll = %d, want 200", rec.Code)
	}
	if market.enrolledID != 7 {
		t.Errorf("enrolled in course %d, want 7", market.enrolledID)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/search?q=go", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /courses/search = %d, want 200", rec.Code)
	}
	if market.searchQuery != "go" {
		t.Errorf("search query = %q, want %q", market.searchQuery, "go")
	}
}

func TestEnrollErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"local validation", &service.InputError{Err: errors.New("bad input")}, http.StatusBadRequest},
		{"read only", service.ErrReadOnly, http.StatusConflict},
		{"already enrolled", contract.NewRevertError("Student already enrolled"), http.StatusConflict},
		{"other revert", contract.NewRevertError("something on-chain"), http.StatusUnprocessableEntity},
		{"transport", errors.New("dial tcp: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := succeededRecord()
			record.Status = model.TxFailed
			market := &fakeMarket{record: record, err: tt.err}

			rec := httptest.NewRecorder()
			courseMux(market).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/courses/1/enroll", nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			var got dto.TransactionResponseDTO
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("failure response is not a transaction record: %v", err)
			}
			if got.Status != string(model.TxFailed) {
				t.Errorf("record status = %q, want %q", got.Status, model.TxFailed)
			}
		})
	}
}

func TestCreateCourseMultipart(t *testing.T) {
	market := &fakeMarket{record: succeededRecord()}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("title", "Intro to Solidity")
	mw.WriteField("description", "From zero to deployed")
	mw.WriteField("price_usd", "19.99")
	writeFile(t, mw, "cover", "cover.png", "image/png", "img-bytes")
	writeFile(t, mw, "videos", "one.mp4", "video/mp4", "v1")
	writeFile(t, mw, "videos", "two.mp4", "video/mp4", "v2")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/courses", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	courseMux(market).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	draft := market.draft
	if draft.Title != "Intro to Solidity" {
		t.Errorf("Title = %q", draft.Title)
	}
	wantPrice, _ := model.ParseUSD("19.99")
	if draft.PriceUSD == nil || draft.PriceUSD.Cmp(wantPrice) != 0 {
		t.Errorf("PriceUSD = %v, want %s", draft.PriceUSD, wantPrice)
	}
	if draft.Cover.Name != "cover.png" || draft.Cover.ContentType != "image/png" {
		t.Errorf("cover = %q (%q)", draft.Cover.Name, draft.Cover.ContentType)
	}
	if string(market.coverBody) != "img-bytes" {
		t.Errorf("cover body = %q", market.coverBody)
	}
	if len(draft.Videos) != 2 || draft.Videos[0].Name != "one.mp4" || draft.Videos[1].Name != "two.mp4" {
		t.Errorf("videos %v lost selection order", draft.Videos)
	}
	if len(market.videoBodies) != 2 || market.videoBodies[0] != "v1" || market.videoBodies[1] != "v2" {
		t.Errorf("video bodies = %v", market.videoBodies)
	}
}

func TestCreateCourseRejectsBadPrice(t *testing.T) {
	market := &fakeMarket{record: succeededRecord()}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("price_usd", "nineteen")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/courses", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	courseMux(market).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if market.draft.Title != "" || market.videoBodies != nil {
		t.Error("a malformed price must not reach the workflow")
	}
}

func writeFile(t *testing.T, mw *multipart.Writer, field, name, contentType, body string) {
	t.Helper()
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("creating part %q: %v", name, err)
	}
	io.Copy(part, strings.NewReader(body))
}

func TestAdminRoutesHiddenFromNonAdmins(t *testing.T) {
	market := &fakeMarket{state: model.ConnectionState{IsAdmin: false}}
	mux := adminMux(market)

	routes := []struct {
		method, path string
	}{
		{http.MethodGet, "/admin/config"},
		{http.MethodPost, "/admin/fee"},
		{http.MethodPost, "/admin/price-feed"},
		{http.MethodPost, "/admin/admin-address"},
		{http.MethodPost, "/admin/withdraw"},
	}
	for _, route := range routes {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s as non-admin = %d, want 404", route.method, route.path, rec.Code)
		}
	}
	if market.feeArg != "" || market.addrArg != "" || market.withdrawn {
		t.Error("hidden routes must not invoke the workflows")
	}
}

func adminState() model.ConnectionState {
	account := "0x2222222222222222222222222222222222222222"
	chain := uint64(31337)
	return model.ConnectionState{Account: &account, ChainID: &chain, IsAdmin: true}
}

func TestAdminChangeFee(t *testing.T) {
	market := &fakeMarket{state: adminState(), record: succeededRecord()}
	mux := adminMux(market)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/fee", strings.NewReader(`{"fee":"42"}`))
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	if market.feeArg != "42" {
		t.Errorf("fee passed down = %q, want %q", market.feeArg, "42")
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/admin/fee", strings.NewReader(`{}`))
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing fee = %d, want 400", rec.Code)
	}
}

func TestAdminConfig(t *testing.T) {
	market := &fakeMarket{state: adminState(), config: model.MarketConfig{
		Admin:             "0x2222222222222222222222222222222222222222",
		CourseCreationFee: big.NewInt(5000),
		PriceFeedAddress:  "0x3333333333333333333333333333333333333333",
	}}
	rec := httptest.NewRecorder()
	adminMux(market).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/config", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got dto.MarketConfigResponseDTO
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.CourseCreationFee != "5000" {
		t.Errorf("CourseCreationFee = %q, want %q", got.CourseCreationFee, "5000")
	}
}

func TestAdminWithdraw(t *testing.T) {
	market := &fakeMarket{state: adminState(), record: succeededRecord()}
	rec := httptest.NewRecorder()
	adminMux(market).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/withdraw", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !market.withdrawn {
		t.Error("withdraw workflow not invoked")
	}
}

func TestWalletRoutes(t *testing.T) {
	account := "0x1111111111111111111111111111111111111111"
	market := &fakeMarket{state: model.ConnectionState{Account: &account}}
	mux := http.NewServeMux()
	NewWalletHandler(market, zerolog.Nop()).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wallet", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /wallet = %d, want 200", rec.Code)
	}
	if market.rebound {
		t.Error("GET /wallet must not re-bind")
	}
	var got dto.ConnectionResponseDTO
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.Account == nil || *got.Account != account {
		t.Errorf("Account = %v, want %q", got.Account, account)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/wallet/bind", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /wallet/bind = %d, want 200", rec.Code)
	}
	if !market.rebound {
		t.Error("POST /wallet/bind must re-bind")
	}
}

func TestListTransactions(t *testing.T) {
	market := &fakeMarket{txs: []model.PendingTransaction{succeededRecord()}}
	mux := http.NewServeMux()
	NewTransactionHandler(market, zerolog.Nop()).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []dto.TransactionResponseDTO
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(got) != 1 || got[0].ID != "rec-1" {
		t.Errorf("body = %+v, want the one record", got)
	}
	if got[0].SettledAt == nil {
		t.Error("settled record must expose settled_at")
	}
}

func TestDashboardReadOnlyConflict(t *testing.T) {
	market := &fakeMarket{err: service.ErrReadOnly}
	rec := httptest.NewRecorder()
	courseMux(market).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("dashboard without signer = %d, want 409", rec.Code)
	}
}
