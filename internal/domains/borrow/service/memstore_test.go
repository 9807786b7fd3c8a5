package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	bookmodel "lending-library/internal/domains/book/model"
	"lending-library/internal/domains/borrow/model"
	membermodel "lending-library/internal/domains/member/model"
	"lending-library/internal/shared/codes"
)

// memStore is an in-memory stand-in for the three repositories. One
// mutex plays the role of the database's locking so the transactional
// guarantees of CreateActive hold under concurrent use.
type memStore struct {
	mu sync.Mutex

	members map[string]*membermodel.Member
	books   map[string]*bookmodel.Book
	records map[string]*model.BorrowRecord

	lastBorrowCode string

	// failIncrement makes IncrementStock fail, to exercise the
	// returned-but-not-restocked path.
	failIncrement bool
}

func newMemStore() *memStore {
	return &memStore{
		members: make(map[string]*membermodel.Member),
		books:   make(map[string]*bookmodel.Book),
		records: make(map[string]*model.BorrowRecord),
	}
}

func (s *memStore) addMember(code string, penaltyUntil *time.Time) {
	s.members[code] = &membermodel.Member{
		ID:           uuid.New(),
		Code:         code,
		Name:         "Member " + code,
		PenaltyUntil: penaltyUntil,
	}
}

func (s *memStore) addBook(code string, stock int) {
	s.books[code] = &bookmodel.Book{
		ID:    uuid.New(),
		Code:  code,
		Title: "Book " + code,
		Stock: stock,
	}
}

func (s *memStore) stockOf(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.books[code].Stock
}

// --- member repository ---

type memberStore struct{ *memStore }

func (s memberStore) List(ctx context.Context) ([]membermodel.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]membermodel.Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, *m)
	}
	return out, nil
}

func (s memberStore) GetByCode(ctx context.Context, code string) (*membermodel.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[code]
	if !ok {
		return nil, membermodel.NewMemberNotFoundError(code)
	}
	cp := *m
	return &cp, nil
}

func (s memberStore) Create(ctx context.Context, member *membermodel.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[member.Code]; ok {
		return membermodel.ErrMemberCodeExists
	}
	cp := *member
	s.members[member.Code] = &cp
	return nil
}

func (s memberStore) UpdateName(ctx context.Context, code, name string) (*membermodel.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[code]
	if !ok {
		return nil, membermodel.NewMemberNotFoundError(code)
	}
	m.Name = name
	cp := *m
	return &cp, nil
}

func (s memberStore) Delete(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[code]; !ok {
		return membermodel.NewMemberNotFoundError(code)
	}
	delete(s.members, code)
	return nil
}

func (s memberStore) SetPenaltyUntil(ctx context.Context, code string, until time.Time) (*membermodel.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[code]
	if !ok {
		return nil, membermodel.NewMemberNotFoundError(code)
	}
	u := until
	m.PenaltyUntil = &u
	cp := *m
	return &cp, nil
}

// --- book repository ---

type bookStore struct{ *memStore }

func (s bookStore) List(ctx context.Context) ([]bookmodel.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]bookmodel.Book, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, *b)
	}
	return out, nil
}

func (s bookStore) GetByCode(ctx context.Context, code string) (*bookmodel.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[code]
	if !ok {
		return nil, bookmodel.NewBookNotFoundError(code)
	}
	cp := *b
	return &cp, nil
}

func (s bookStore) Create(ctx context.Context, book *bookmodel.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[book.Code]; ok {
		return bookmodel.ErrBookCodeExists
	}
	cp := *book
	s.books[book.Code] = &cp
	return nil
}

func (s bookStore) Update(ctx context.Context, code string, req bookmodel.UpdateBookRequest) (*bookmodel.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[code]
	if !ok {
		return nil, bookmodel.NewBookNotFoundError(code)
	}
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.Stock != nil {
		b.Stock = *req.Stock
	}
	cp := *b
	return &cp, nil
}

func (s bookStore) Delete(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[code]; !ok {
		return bookmodel.NewBookNotFoundError(code)
	}
	delete(s.books, code)
	return nil
}

func (s bookStore) DecrementStock(ctx context.Context, code string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[code]
	if !ok {
		return 0, bookmodel.NewBookNotFoundError(code)
	}
	if b.Stock <= 0 {
		return 0, bookmodel.ErrBookOutOfStock
	}
	b.Stock--
	return b.Stock, nil
}

func (s bookStore) IncrementStock(ctx context.Context, code string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failIncrement {
		return 0, errors.New("stock update failed")
	}

	b, ok := s.books[code]
	if !ok {
		return 0, bookmodel.NewBookNotFoundError(code)
	}
	b.Stock++
	return b.Stock, nil
}

// --- borrow repository ---

type borrowStore struct{ *memStore }

func (s borrowStore) GetByCode(ctx context.Context, code string) (*model.BorrowRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[code]
	if !ok {
		return nil, model.NewBorrowNotFoundError(code)
	}
	cp := *r
	return &cp, nil
}

func (s borrowStore) ListByMember(ctx context.Context, memberCode string) ([]model.BorrowRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.BorrowRecord
	for _, r := range s.records {
		if r.MemberCode == memberCode {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s borrowStore) CountActiveByMember(ctx context.Context, memberCode string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countActiveLocked(memberCode), nil
}

func (s *memStore) countActiveLocked(memberCode string) int {
	n := 0
	for _, r := range s.records {
		if r.MemberCode == memberCode && r.ReturnedAt == nil {
			n++
		}
	}
	return n
}

// CreateActive mirrors the transactional semantics of the real
// repository: eligibility re-check, code allocation and the guarded
// stock decrement all happen under one lock, and a failure at any step
// mutates nothing.
func (s borrowStore) CreateActive(ctx context.Context, memberCode, bookCode string, borrowedAt time.Time) (*model.BorrowRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[memberCode]
	if !ok {
		return nil, membermodel.NewMemberNotFoundError(memberCode)
	}

	active := s.countActiveLocked(memberCode)
	if active >= model.MaxActiveLoans || (m.PenaltyUntil != nil && m.PenaltyUntil.After(borrowedAt)) {
		return nil, model.ErrMemberNotEligible
	}

	b, ok := s.books[bookCode]
	if !ok {
		return nil, bookmodel.NewBookNotFoundError(bookCode)
	}
	if b.Stock <= 0 {
		return nil, bookmodel.ErrBookOutOfStock
	}

	code, err := codes.Next(s.lastBorrowCode, codes.BorrowPrefix)
	if err != nil {
		return nil, err
	}

	b.Stock--
	rec := &model.BorrowRecord{
		ID:         uuid.New(),
		Code:       code,
		MemberCode: memberCode,
		BookCode:   bookCode,
		BorrowedAt: borrowedAt,
	}
	s.records[code] = rec
	s.lastBorrowCode = code

	cp := *rec
	return &cp, nil
}

func (s borrowStore) MarkReturned(ctx context.Context, code string, returnedAt time.Time) (*model.BorrowRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[code]
	if !ok {
		return nil, model.NewBorrowNotFoundError(code)
	}
	if r.ReturnedAt != nil {
		return nil, model.ErrAlreadyReturned
	}
	t := returnedAt
	r.ReturnedAt = &t
	cp := *r
	return &cp, nil
}

// --- cache ---

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) { return false, nil }
func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (noopCache) Ping(ctx context.Context) error                   { return nil }

// newTestService wires a BorrowService onto a fresh memStore with a
// fixed clock.
func newTestService(store *memStore, now time.Time) *BorrowService {
	return &BorrowService{
		repo:       borrowStore{store},
		memberRepo: memberStore{store},
		bookRepo:   bookStore{store},
		cache:      noopCache{},
		now:        func() time.Time { return now },
	}
}
