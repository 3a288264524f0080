package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coursechain/internal/contract"
	"coursechain/internal/ipfs"
	"coursechain/internal/model"
	"coursechain/internal/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MarketService composes the wallet binder, content publisher and contract
// gateway into the user-initiated marketplace workflows.
type MarketService interface {
	// Connection returns the current connection state, re-binding first
	// when rebind is set.
	Connection(ctx context.Context, rebind bool) model.ConnectionState

	ListCourses(ctx context.Context) ([]model.Course, error)
	GetCourse(ctx context.Context, id uint64) (model.Course, error)
	SearchCourses(ctx context.Context, query string) ([]model.Course, error)
	Dashboard(ctx context.Context) (model.Dashboard, error)
	MarketConfig(ctx context.Context) (model.MarketConfig, error)

	CreateCourse(ctx context.Context, draft model.CourseDraft) (model.PendingTransaction, error)
	Enroll(ctx context.Context, courseID uint64) (model.PendingTransaction, error)
	ChangeCreationFee(ctx context.Context, fee string) (model.PendingTransaction, error)
	UpdatePriceFeed(ctx context.Context, addr string) (model.PendingTransaction, error)
	ChangeAdmin(ctx context.Context, addr string) (model.PendingTransaction, error)
	Withdraw(ctx context.Context) (model.PendingTransaction, error)

	Transactions() []model.PendingTransaction
}

// marketService is the implementation of MarketService
type marketService struct {
	binder         *wallet.Binder
	publisher      *ipfs.Publisher
	reader         contract.Reader
	writer         contract.Writer
	chainID        uint64
	confirmTimeout time.Duration
	tracker        *TxTracker
	log            zerolog.Logger
}

// NewMarketService creates a new MarketService. chainID is the network the
// contract is deployed to; every write is guarded against it.
func NewMarketService(
	binder *wallet.Binder,
	publisher *ipfs.Publisher,
	reader contract.Reader,
	writer contract.Writer,
	chainID uint64,
	confirmTimeout time.Duration,
	tracker *TxTracker,
	logger zerolog.Logger,
) MarketService {
	return &marketService{
		binder:         binder,
		publisher:      publisher,
		reader:         reader,
		writer:         writer,
		chainID:        chainID,
		confirmTimeout: confirmTimeout,
		tracker:        tracker,
		log:            logger.With().Str("service", "MarketService").Logger(),
	}
}

func (s *marketService) Connection(ctx context.Context, rebind bool) model.ConnectionState {
	if rebind {
		return s.binder.Bind(ctx)
	}
	return s.binder.Current()
}

func (s *marketService) ListCourses(ctx context.Context) ([]model.Course, error) {
	courses, err := s.reader.GetAllCourses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i] = s.project(courses[i])
	}
	return courses, nil
}

func (s *marketService) GetCourse(ctx context.Context, id uint64) (model.Course, error) {
	course, err := s.reader.GetCourse(ctx, id)
	if err != nil {
		return model.Course{}, err
	}
	return s.project(course), nil
}

// SearchCourses filters the full course list by a case-insensitive title
// match.
func (s *marketService) SearchCourses(ctx context.Context, query string) ([]model.Course, error) {
	courses, err := s.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return courses, nil
	}
	matched := make([]model.Course, 0, len(courses))
	for _, course := range courses {
		if strings.Contains(strings.ToLower(course.Title), query) {
			matched = append(matched, course)
		}
	}
	return matched, nil
}

// Dashboard runs the two independent read pipelines for the bound account:
// courses it teaches and courses it is enrolled in. Each pipeline resolves
// its course ids one read at a time; the pipelines themselves run
// concurrently and share no state.
func (s *marketService) Dashboard(ctx context.Context) (model.Dashboard, error) {
	state := s.binder.Current()
	if !state.CanWrite() {
		return model.Dashboard{}, ErrReadOnly
	}
	account := common.HexToAddress(*state.Account)

	var dashboard model.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := s.reader.GetInstructorCourses(gctx, account)
		if err != nil {
			return err
		}
		courses, err := s.resolveCourses(gctx, ids)
		if err != nil {
			return err
		}
		dashboard.Teaching = courses
		return nil
	})
	g.Go(func() error {
		ids, err := s.reader.GetStudentEnrollments(gctx, account)
		if err != nil {
			return err
		}
		courses, err := s.resolveCourses(gctx, ids)
		if err != nil {
			return err
		}
		dashboard.Enrollments = courses
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.Dashboard{}, err
	}
	return dashboard, nil
}

func (s *marketService) MarketConfig(ctx context.Context) (model.MarketConfig, error) {
	admin, err := s.reader.GetAdmin(ctx)
	if err != nil {
		return model.MarketConfig{}, err
	}
	fee, err := s.reader.CourseCreationFee(ctx)
	if err != nil {
		return model.MarketConfig{}, err
	}
	feed, err := s.reader.PriceFeedAddress(ctx)
	if err != nil {
		return model.MarketConfig{}, err
	}
	return model.MarketConfig{
		Admin:             admin.Hex(),
		CourseCreationFee: fee,
		PriceFeedAddress:  feed.Hex(),
	}, nil
}

// CreateCourse publishes the draft's media and creates the course with one
// atomic contract call carrying the current creation fee. On any failure the
// draft is left with the caller for an explicit retry.
func (s *marketService) CreateCourse(ctx context.Context, draft model.CourseDraft) (model.PendingTransaction, error) {
	id := s.tracker.Begin(model.TxCreateCourse)

	if err := s.writeGuard(); err != nil {
		return s.fail(id, err)
	}
	if err := validateDraft(draft); err != nil {
		return s.fail(id, err)
	}

	s.tracker.Advance(id, model.TxPublishing)
	cover, err := s.publisher.Publish(ctx, draft.Cover, ipfs.KindImage)
	if err != nil {
		return s.fail(id, err)
	}
	videos, err := s.publisher.PublishAll(ctx, draft.Videos, ipfs.KindVideo)
	if err != nil {
		return s.fail(id, err)
	}
	videoURLs := make([]string, len(videos))
	for i, v := range videos {
		videoURLs[i] = v.GatewayURL
	}

	// The fee is read fresh so the attached value matches whatever the
	// admin has configured by now.
	fee, err := s.reader.CourseCreationFee(ctx)
	if err != nil {
		return s.fail(id, err)
	}

	s.tracker.Advance(id, model.TxSubmitting)
	tx, err := s.writer.SubmitCreateCourse(ctx, draft.Title, draft.Description, cover.GatewayURL, videoURLs, draft.PriceUSD, fee)
	if err != nil {
		return s.fail(id, err)
	}
	return s.confirm(ctx, id, tx)
}

// Enroll re-queries the price conversion immediately before building the
// write, so the attached value reflects the oracle rate at submission time,
// not at page load.
func (s *marketService) Enroll(ctx context.Context, courseID uint64) (model.PendingTransaction, error) {
	id := s.tracker.Begin(model.TxEnroll)

	if err := s.writeGuard(); err != nil {
		return s.fail(id, err)
	}

	course, err := s.reader.GetCourse(ctx, courseID)
	if err != nil {
		return s.fail(id, err)
	}
	value, err := s.reader.ConvertFromUSD(ctx, course.PriceUSD)
	if err != nil {
		return s.fail(id, err)
	}

	s.tracker.Advance(id, model.TxSubmitting)
	tx, err := s.writer.SubmitEnroll(ctx, courseID, value)
	if err != nil {
		return s.fail(id, err)
	}
	return s.confirm(ctx, id, tx)
}

func (s *marketService) ChangeCreationFee(ctx context.Context, fee string) (model.PendingTransaction, error) {
	id := s.tracker.Begin(model.TxChangeFee)

	if err := s.adminGuard(); err != nil {
		return s.fail(id, err)
	}
	newFee, err := ParseFeeWei(fee)
	if err != nil {
		return s.fail(id, err)
	}

	s.tracker.Advance(id, model.TxSubmitting)
	tx, err := s.writer.SubmitChangeFee(ctx, newFee)
	if err != nil {
		return s.fail(id, err)
	}
	return s.confirm(ctx, id, tx)
}

func (s *marketService) UpdatePriceFeed(ctx context.Context, addr string) (model.PendingTransaction, error) {
	return s.adminAddressWrite(ctx, model.TxUpdatePriceFeed, addr, s.writer.SubmitUpdatePriceFeed)
}

func (s *marketService) ChangeAdmin(ctx context.Context, addr string) (model.PendingTransaction, error) {
	return s.adminAddressWrite(ctx, model.TxChangeAdmin, addr, s.writer.SubmitChangeAdmin)
}

func (s *marketService) adminAddressWrite(
	ctx context.Context,
	kind model.TxKind,
	addr string,
	submit func(context.Context, common.Address) (*types.Transaction, error),
) (model.PendingTransaction, error) {
	id := s.tracker.Begin(kind)

	if err := s.adminGuard(); err != nil {
		return s.fail(id, err)
	}
	if !common.IsHexAddress(addr) {
		return s.fail(id, invalidInput(fmt.Errorf("%q is not a valid address", addr)))
	}

	s.tracker.Advance(id, model.TxSubmitting)
	tx, err := submit(ctx, common.HexToAddress(addr))
	if err != nil {
		return s.fail(id, err)
	}
	return s.confirm(ctx, id, tx)
}

func (s *marketService) Withdraw(ctx context.Context) (model.PendingTransaction, error) {
	id := s.tracker.Begin(model.TxWithdraw)

	if err := s.adminGuard(); err != nil {
		return s.fail(id, err)
	}

	s.tracker.Advance(id, model.TxSubmitting)
	tx, err := s.writer.SubmitWithdraw(ctx)
	if err != nil {
		return s.fail(id, err)
	}
	return s.confirm(ctx, id, tx)
}

func (s *marketService) Transactions() []model.PendingTransaction {
	return s.tracker.List()
}

// writeGuard enforces the pre-flight checks shared by all writes: a signer
// must be present and the node must serve the deployment network. The
// contract re-enforces everything authoritatively; these checks only avoid
// wasted fee-bearing transactions.
func (s *marketService) writeGuard() error {
	state := s.binder.Current()
	if !state.CanWrite() {
		return ErrReadOnly
	}
	if state.ChainID == nil || *state.ChainID != s.chainID {
		return ErrWrongNetwork
	}
	return nil
}

func (s *marketService) adminGuard() error {
	if err := s.writeGuard(); err != nil {
		return err
	}
	if !s.binder.Current().IsAdmin {
		return ErrNotAuthorized
	}
	return nil
}

// confirm drives the Confirming stage to a terminal state, bounded by the
// configured deadline. There is no retry out of Failed.
func (s *marketService) confirm(ctx context.Context, id string, tx *types.Transaction) (model.PendingTransaction, error) {
	s.tracker.SetHash(id, tx.Hash().Hex())
	s.tracker.Advance(id, model.TxConfirming)

	ctx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()
	if err := s.writer.Confirm(ctx, tx); err != nil {
		return s.fail(id, err)
	}
	s.tracker.Succeed(id)
	record, _ := s.tracker.Get(id)
	return record, nil
}

func (s *marketService) fail(id string, err error) (model.PendingTransaction, error) {
	s.log.Error().Err(err).Str("tx_record", id).Msg("workflow failed")
	s.tracker.Fail(id, userMessage(err))
	record, _ := s.tracker.Get(id)
	return record, err
}

// userMessage converts an error into a single user-visible message. Known
// classes keep their wording; raw transport errors are not leaked.
func userMessage(err error) string {
	var revert *contract.RevertError
	var input *InputError
	switch {
	case errors.As(err, &revert),
		errors.As(err, &input),
		errors.Is(err, contract.ErrNoSigner),
		errors.Is(err, contract.ErrReverted),
		errors.Is(err, ErrReadOnly),
		errors.Is(err, ErrWrongNetwork),
		errors.Is(err, ErrNotAuthorized):
		return err.Error()
	}
	return "the operation could not be completed, please try again"
}

// resolveCourses turns course ids into full course projections, one read per
// id: the gateway offers no batch read.
func (s *marketService) resolveCourses(ctx context.Context, ids []uint64) ([]model.Course, error) {
	courses := make([]model.Course, 0, len(ids))
	for _, id := range ids {
		course, err := s.reader.GetCourse(ctx, id)
		if err != nil {
			return nil, err
		}
		courses = append(courses, s.project(course))
	}
	return courses, nil
}

// project normalizes contract state for clients, mapping ipfs:// URIs onto
// the configured gateway.
func (s *marketService) project(course model.Course) model.Course {
	course.CoverImage = s.publisher.RewriteContentURL(course.CoverImage)
	for i, u := range course.VideoURLs {
		course.VideoURLs[i] = s.publisher.RewriteContentURL(u)
	}
	return course
}
