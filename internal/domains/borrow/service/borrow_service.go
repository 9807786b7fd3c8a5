package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookmodel "lending-library/internal/domains/book/model"
	bookrepo "lending-library/internal/domains/book/repository"
	"lending-library/internal/domains/borrow/model"
	"lending-library/internal/domains/borrow/repository"
	memberrepo "lending-library/internal/domains/member/repository"
	"lending-library/internal/shared/codes"
	"lending-library/pkg/cache"
	"lending-library/pkg/logger"
)

// BorrowService orchestrates the borrow and return workflows across the
// member registry, the catalog and the borrow records.
type BorrowService struct {
	repo       repository.RepositoryInterface
	memberRepo memberrepo.RepositoryInterface
	bookRepo   bookrepo.RepositoryInterface
	cache      cache.Cache

	now func() time.Time
}

// NewService creates a new borrow workflow service.
func NewService(
	repo repository.RepositoryInterface,
	memberRepo memberrepo.RepositoryInterface,
	bookRepo bookrepo.RepositoryInterface,
	cache cache.Cache,
) ServiceInterface {
	return &BorrowService{
		repo:       repo,
		memberRepo: memberRepo,
		bookRepo:   bookRepo,
		cache:      cache,
		now:        time.Now,
	}
}

// BorrowBook implements ServiceInterface.BorrowBook.
//
// The member and stock checks here are advisory and exist to fail fast
// with a precise error; the repository re-runs both against a locked
// snapshot inside the transaction that actually creates the record, and
// that re-run is what decides races.
func (s *BorrowService) BorrowBook(ctx context.Context, memberCode, bookCode string) (*model.BorrowRecord, error) {
	now := s.now()

	member, err := s.memberRepo.GetByCode(ctx, memberCode)
	if err != nil {
		return nil, err
	}

	active, err := s.repo.CountActiveByMember(ctx, memberCode)
	if err != nil {
		return nil, fmt.Errorf("failed to count active loans: %w", err)
	}

	if active >= model.MaxActiveLoans || member.HasActivePenalty(now) {
		logger.Warn("member cannot borrow", map[string]interface{}{
			"member_code":  memberCode,
			"active_loans": active,
			"penalized":    member.HasActivePenalty(now),
		})
		return nil, model.ErrMemberNotEligible
	}

	book, err := s.bookRepo.GetByCode(ctx, bookCode)
	if err != nil {
		return nil, err
	}

	if !book.Available() {
		return nil, bookmodel.ErrBookOutOfStock
	}

	rec, err := s.repo.CreateActive(ctx, memberCode, bookCode, now)
	if err != nil {
		if errors.Is(err, codes.ErrMalformedCode) {
			// A corrupt code sequence is an internal fault, not a
			// business-rule refusal.
			logger.Error("borrow code sequence corrupt", err)
		}
		return nil, err
	}

	s.invalidateBook(ctx, bookCode)

	logger.Info("book borrowed", map[string]interface{}{
		"borrow_code": rec.Code,
		"member_code": memberCode,
		"book_code":   bookCode,
	})

	return rec, nil
}

// ReturnBook implements ServiceInterface.ReturnBook.
//
// The steps run in a fixed order: penalty first, then the irreversible
// state transition, then the stock increment. An increment failure
// after the transition committed leaves a returned-but-not-restocked
// record; that is surfaced as ErrReturnInconsistent and logged loudly
// instead of being folded into an ordinary failure.
func (s *BorrowService) ReturnBook(ctx context.Context, borrowCode string) (*model.BorrowRecord, error) {
	rec, err := s.repo.GetByCode(ctx, borrowCode)
	if err != nil {
		return nil, err
	}

	if !rec.Active() {
		return nil, model.ErrAlreadyReturned
	}

	now := s.now()

	if rec.OverdueAt(now) {
		until := now.Add(model.PenaltyDuration)
		if _, err := s.memberRepo.SetPenaltyUntil(ctx, rec.MemberCode, until); err != nil {
			return nil, fmt.Errorf("failed to impose penalty: %w", err)
		}

		logger.Warn("overdue return, member penalized", map[string]interface{}{
			"borrow_code":   rec.Code,
			"member_code":   rec.MemberCode,
			"penalty_until": until,
		})
	}

	updated, err := s.repo.MarkReturned(ctx, rec.Code, now)
	if err != nil {
		return nil, err
	}

	if _, err := s.bookRepo.IncrementStock(ctx, rec.BookCode); err != nil {
		fault := fmt.Errorf("%w: record=%s book=%s: %v",
			model.ErrReturnInconsistent, rec.Code, rec.BookCode, err)
		logger.Error("return left stock unrestored", fault)
		return nil, fault
	}

	s.invalidateBook(ctx, rec.BookCode)

	logger.Info("book returned", map[string]interface{}{
		"borrow_code": rec.Code,
		"member_code": rec.MemberCode,
		"book_code":   rec.BookCode,
	})

	return updated, nil
}

// ListMemberBorrows implements ServiceInterface.ListMemberBorrows.
func (s *BorrowService) ListMemberBorrows(ctx context.Context, memberCode string) ([]model.BorrowRecord, error) {
	if _, err := s.memberRepo.GetByCode(ctx, memberCode); err != nil {
		return nil, err
	}

	return s.repo.ListByMember(ctx, memberCode)
}

// invalidateBook drops the cached catalog entries the borrow workflow's
// stock mutations just made stale.
func (s *BorrowService) invalidateBook(ctx context.Context, bookCode string) {
	if err := s.cache.Delete(ctx, bookmodel.ListCacheKey, bookmodel.DetailCacheKey(bookCode)); err != nil {
		logger.Error("book cache invalidation failed", err)
	}
}
