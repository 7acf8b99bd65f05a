// Package supplier implements the application logic for supplier records:
// criteria search, optimistic-concurrency writes, JSON-Patch application and
// the paired-account create flow.
package supplier

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"supplier_server/core/domain"
	"supplier_server/core/port/out"
	"supplier_server/pkg/apperr"
)

// AccountCreator is the identity collaborator that creates the paired account
// for a new supplier. It fails with a username-exists error when the username
// is already taken.
type AccountCreator interface {
	Create(ctx context.Context, account domain.Account) (*domain.User, error)
}

// RoleSupplier is granted to every paired account on create.
const RoleSupplier = "LIEFERANT"

// Service orchestrates supplier reads and writes. Every storage access is
// wrapped in a bounded wait: a short one for single-document operations, a
// longer one for collection scans.
type Service struct {
	repo     out.SupplierRepository
	accounts AccountCreator
	cache    out.SupplierCache
	notifier out.Notifier
	events   out.EventBus

	timeoutShort time.Duration
	timeoutLong  time.Duration
	log          zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTimeouts overrides the bounded waits for storage calls.
func WithTimeouts(short, long time.Duration) Option {
	return func(s *Service) {
		s.timeoutShort = short
		s.timeoutLong = long
	}
}

// WithCache attaches a per-id read-through cache.
func WithCache(cache out.SupplierCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithNotifier attaches the best-effort create notifier.
func WithNotifier(notifier out.Notifier) Option {
	return func(s *Service) { s.notifier = notifier }
}

// WithEventBus attaches the lifecycle event bus.
func WithEventBus(events out.EventBus) Option {
	return func(s *Service) { s.events = events }
}

// NewService wires a supplier service with its collaborators.
func NewService(repo out.SupplierRepository, accounts AccountCreator, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		accounts:     accounts,
		timeoutShort: 500 * time.Millisecond,
		timeoutLong:  2 * time.Second,
		log:          log.With().Str("component", "supplier_service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindByID looks up a single supplier. Returns (nil, nil) on a miss.
func (s *Service) FindByID(ctx context.Context, id string) (*domain.Supplier, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, id); ok {
			return cached, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeoutShort)
	defer cancel()

	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "findById")
	}
	if found != nil && s.cache != nil {
		s.cache.Put(ctx, found)
	}
	return found, nil
}

// Find searches suppliers by query parameters. Empty parameters return all
// records; an unsatisfiable criterion short-circuits to an empty result
// without touching storage.
func (s *Service) Find(ctx context.Context, params map[string][]string) ([]domain.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeoutLong)
	defer cancel()

	if len(params) == 0 {
		all, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, storageErr(err, "find")
		}
		return all, nil
	}

	criteria, err := BuildCriteria(params)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			s.log.Debug().Msg("unsatisfiable criteria, returning empty result")
			return nil, nil
		}
		return nil, err
	}

	found, err := s.repo.FindByCriteria(ctx, criteria)
	if err != nil {
		return nil, storageErr(err, "find")
	}
	return found, nil
}

// FindAll streams every supplier (event-stream endpoint).
func (s *Service) FindAll(ctx context.Context) ([]domain.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeoutLong)
	defer cancel()

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, storageErr(err, "findAll")
	}
	return all, nil
}

// Create persists a new supplier together with its paired account. The email
// is unique case-insensitively and stored lowercased; the freshly generated
// id is a UUID. A best-effort notification is sent asynchronously.
func (s *Service) Create(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if supplier.Account == nil || supplier.Account.Username == "" || supplier.Account.Password == "" {
		return nil, apperr.InvalidAccount()
	}
	if violations := supplier.Validate(); violations != nil {
		return nil, apperr.Validation(violations)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.timeoutShort)
	existing, err := s.repo.FindByEmail(lookupCtx, supplier.Email)
	cancel()
	if err != nil {
		return nil, storageErr(err, "findByEmail")
	}
	if existing != nil {
		// The caller-supplied spelling is echoed, not the lowercased one.
		return nil, apperr.EmailExists(supplier.Email)
	}

	account := domain.Account{
		Username: supplier.Account.Username,
		Password: supplier.Account.Password,
		Roles:    []string{RoleSupplier},
	}
	user, err := s.accounts.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	created := supplier.Clone()
	created.ID = uuid.NewString()
	created.Version = 0
	created.Email = strings.ToLower(supplier.Email)
	created.Username = user.Username

	insertCtx, cancel := context.WithTimeout(ctx, s.timeoutShort)
	defer cancel()
	if err := s.repo.Insert(insertCtx, &created); err != nil {
		return nil, storageErr(err, "insert")
	}

	s.log.Debug().Str("id", created.ID).Msg("supplier created")

	if s.notifier != nil {
		// Fire and forget: a failed notification never fails the create.
		go s.notifier.NotifyCreated(&created)
	}
	s.publish(domain.EventCreated, created.ID, &created)

	return &created, nil
}

// Update replaces a supplier after validating the caller's version token.
// Returns (nil, nil) when the id is unknown. The stored version is bumped by
// exactly 1 via a conditional write on {id, version}.
func (s *Service) Update(ctx context.Context, incoming domain.Supplier, id, version string) (*domain.Supplier, error) {
	stored, err := s.lookup(ctx, id)
	if err != nil || stored == nil {
		return nil, err
	}

	if err := CheckVersion(stored.Version, version); err != nil {
		return nil, err
	}
	if violations := incoming.Validate(); violations != nil {
		return nil, apperr.Validation(violations)
	}
	if err := s.checkEmail(ctx, stored, incoming.Email); err != nil {
		return nil, err
	}

	candidate := stored.Clone()
	applyChanges(&candidate, &incoming)

	return s.replace(ctx, &candidate, stored.Version, version)
}

// Patch applies JSON-Patch-like operations to a supplier. The version token
// is validated before the patch engine runs; the whole batch is atomic.
func (s *Service) Patch(ctx context.Context, id, version string, ops []PatchOp) (*domain.Supplier, error) {
	stored, err := s.lookup(ctx, id)
	if err != nil || stored == nil {
		return nil, err
	}

	if err := CheckVersion(stored.Version, version); err != nil {
		return nil, err
	}

	candidate, err := ApplyPatch(*stored, ops)
	if err != nil {
		return nil, err
	}
	if violations := candidate.Validate(); violations != nil {
		return nil, apperr.Validation(violations)
	}
	if err := s.checkEmail(ctx, stored, candidate.Email); err != nil {
		return nil, err
	}

	return s.replace(ctx, &candidate, stored.Version, version)
}

// DeleteByID removes a supplier. Deleting an unknown id is a successful no-op.
func (s *Service) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeoutShort)
	defer cancel()

	removed, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return storageErr(err, "deleteById")
	}
	if s.cache != nil {
		s.cache.Remove(ctx, id)
	}
	if removed {
		s.publish(domain.EventDeleted, id, nil)
	}
	return nil
}

// DeleteByEmail removes all suppliers with the given email (at most one, by
// the uniqueness invariant). Unknown emails are a no-op.
func (s *Service) DeleteByEmail(ctx context.Context, email string) error {
	findCtx, cancel := context.WithTimeout(ctx, s.timeoutShort)
	stored, err := s.repo.FindByEmail(findCtx, email)
	cancel()
	if err != nil {
		return storageErr(err, "deleteByEmail")
	}
	if stored == nil {
		return nil
	}

	ctx, cancel = context.WithTimeout(ctx, s.timeoutShort)
	defer cancel()
	if _, err := s.repo.DeleteByEmail(ctx, email); err != nil {
		return storageErr(err, "deleteByEmail")
	}
	if s.cache != nil {
		s.cache.Remove(ctx, stored.ID)
	}
	s.publish(domain.EventDeleted, stored.ID, nil)
	return nil
}

// lookup fetches the stored record for a write path, bypassing the cache.
func (s *Service) lookup(ctx context.Context, id string) (*domain.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeoutShort)
	defer cancel()

	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "findById")
	}
	return stored, nil
}

// checkEmail rejects an email change onto an address already taken by any
// existing record. Unchanged emails are not checked.
func (s *Service) checkEmail(ctx context.Context, stored *domain.Supplier, newEmail string) error {
	if strings.EqualFold(stored.Email, newEmail) {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeoutShort)
	defer cancel()

	existing, err := s.repo.FindByEmail(ctx, newEmail)
	if err != nil {
		return storageErr(err, "findByEmail")
	}
	if existing != nil {
		return apperr.EmailExists(newEmail)
	}
	return nil
}

// replace performs the conditional write and the post-write bookkeeping
// (cache invalidation happens before the call returns, so a subsequent read
// on this process observes the new version).
func (s *Service) replace(ctx context.Context, candidate *domain.Supplier, expectedVersion int, versionToken string) (*domain.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeoutShort)
	defer cancel()

	ok, err := s.repo.Replace(ctx, candidate, expectedVersion)
	if err != nil {
		return nil, storageErr(err, "replace")
	}
	if !ok {
		// A concurrent writer bumped the version between lookup and write.
		return nil, apperr.InvalidVersion(versionToken)
	}
	candidate.Version = expectedVersion + 1

	if s.cache != nil {
		s.cache.Remove(ctx, candidate.ID)
	}
	s.publish(domain.EventUpdated, candidate.ID, candidate)

	s.log.Debug().Str("id", candidate.ID).Int("version", candidate.Version).Msg("supplier updated")
	return candidate, nil
}

// applyChanges copies every client-writable field of the incoming payload
// onto the stored copy. Id, version, username and timestamps are preserved.
func applyChanges(stored *domain.Supplier, incoming *domain.Supplier) {
	stored.LastName = incoming.LastName
	stored.Email = incoming.Email
	stored.Category = incoming.Category
	stored.Newsletter = incoming.Newsletter
	stored.Birthdate = incoming.Birthdate
	stored.Revenue = incoming.Revenue
	stored.Terms = incoming.Terms
	stored.Homepage = incoming.Homepage
	stored.Gender = incoming.Gender
	stored.DeliveryTime = incoming.DeliveryTime
	stored.MaritalStatus = incoming.MaritalStatus
	stored.Interests = incoming.Interests
	stored.Address = incoming.Address
}

func (s *Service) publish(eventType domain.EventType, id string, supplier *domain.Supplier) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.SupplierEvent{Type: eventType, ID: id, Supplier: supplier})
}

// storageErr converts a bound violation into the timeout error of the
// taxonomy; anything else is passed through.
func storageErr(err error, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout(operation).WithError(err)
	}
	return err
}
