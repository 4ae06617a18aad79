package payment

import (
	"context"
	"fmt"

	"github.com/aqarcrm/backend/internal/domain/collection"
	"github.com/aqarcrm/backend/internal/domain/ledger"
	"github.com/aqarcrm/backend/internal/domain/settings"
	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/aqarcrm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxSequenceRetries bounds the regenerate-and-retry loop when a generated
// document number collides with a concurrent writer.
const maxSequenceRetries = 3

// CollectionPaymentService orchestrates the tenant collection pipeline.
// The grace period is read from the settings store on every evaluation so a
// configuration change takes effect on the next request.
type CollectionPaymentService struct {
	repo     collection.CollectionPaymentRepository
	settings settings.Store
	scope    TransactionScope
	clock    shared.Clock
	logger   *zap.Logger
}

// CollectionPaymentServiceOption is a functional option for configuring the service
type CollectionPaymentServiceOption func(*CollectionPaymentService)

// WithCollectionLogger sets the logger
func WithCollectionLogger(logger *zap.Logger) CollectionPaymentServiceOption {
	return func(s *CollectionPaymentService) {
		s.logger = logger
	}
}

// WithCollectionClock sets the clock
func WithCollectionClock(clock shared.Clock) CollectionPaymentServiceOption {
	return func(s *CollectionPaymentService) {
		s.clock = clock
	}
}

// NewCollectionPaymentService creates a new CollectionPaymentService
func NewCollectionPaymentService(
	repo collection.CollectionPaymentRepository,
	settingsStore settings.Store,
	scope TransactionScope,
	opts ...CollectionPaymentServiceOption,
) *CollectionPaymentService {
	s := &CollectionPaymentService{
		repo:     repo,
		settings: settingsStore,
		scope:    scope,
		clock:    shared.SystemClock{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// graceDays reads the configured grace period. Read per evaluation, never
// cached on the service.
func (s *CollectionPaymentService) graceDays(ctx context.Context) (int, error) {
	return s.settings.GetInt(ctx, settings.KeyPaymentDueDays, settings.DefaultPaymentDueDays)
}

// Create generates a payment number, builds the installment and saves it.
// On a number collision with a concurrent writer it regenerates and retries
// a bounded number of times before surfacing SEQUENCE_CONFLICT.
func (s *CollectionPaymentService) Create(ctx context.Context, req CreateCollectionPaymentRequest) (*CollectionPaymentResponse, error) {
	grace, err := s.graceDays(ctx)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxSequenceRetries; attempt++ {
		number, err := s.repo.GeneratePaymentNumber(ctx)
		if err != nil {
			return nil, err
		}

		cp, err := collection.NewCollectionPayment(
			number,
			req.ContractID, req.UnitID, req.PropertyID, req.TenantID,
			valueobject.NewMoneySAR(req.Amount),
			valueobject.NewMoneySAR(req.LateFee),
			req.DueDateStart, req.DueDateEnd,
			s.clock.Now(),
		)
		if err != nil {
			return nil, err
		}

		if err := s.repo.Save(ctx, cp); err != nil {
			if shared.IsCode(err, "SEQUENCE_CONFLICT") {
				s.logger.Warn("payment number collided, regenerating",
					zap.String("payment_number", number),
					zap.Int("attempt", attempt),
				)
				continue
			}
			return nil, err
		}

		s.logger.Info("collection payment created",
			zap.String("payment_number", cp.PaymentNumber),
			zap.String("contract_id", cp.ContractID.String()),
		)

		resp := toCollectionResponse(cp, s.clock.Now(), grace)
		return &resp, nil
	}

	return nil, shared.ErrSequenceConflict
}

// Get returns one payment with its derived status.
func (s *CollectionPaymentService) Get(ctx context.Context, id uuid.UUID) (*CollectionPaymentResponse, error) {
	grace, err := s.graceDays(ctx)
	if err != nil {
		return nil, err
	}

	cp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toCollectionResponse(cp, s.clock.Now(), grace)
	return &resp, nil
}

// List returns payments matching the filter, optionally narrowed to one
// derived status via the compiled set-level predicate.
func (s *CollectionPaymentService) List(ctx context.Context, filter collection.Filter, status *collection.CollectionStatus) (*shared.Paginated[CollectionPaymentResponse], error) {
	grace, err := s.graceDays(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	var payments []collection.CollectionPayment
	var total int64
	if status != nil {
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown collection payment status: "+status.String())
		}
		payments, err = s.repo.FindByStatus(ctx, *status, now, grace, filter)
		if err != nil {
			return nil, err
		}
		total, err = s.repo.CountByStatus(ctx, *status, now, grace, filter)
	} else {
		payments, err = s.repo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		total, err = s.repo.Count(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	items := make([]CollectionPaymentResponse, len(payments))
	for i := range payments {
		items[i] = toCollectionResponse(&payments[i], now, grace)
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// StatusSummary returns the per-status counts evaluated against one instant
// and one grace period, so the buckets are mutually exclusive and sum to the
// total.
func (s *CollectionPaymentService) StatusSummary(ctx context.Context) (*CollectionStatusSummary, error) {
	grace, err := s.graceDays(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	counts, err := s.repo.StatusCounts(ctx, now, grace)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	return &CollectionStatusSummary{
		Counts: counts,
		Total:  total,
		AsOf:   now,
	}, nil
}

// Update applies partial field changes. Rejected once the payment is
// collected; the total is re-derived by the aggregate on every accepted
// amount change.
func (s *CollectionPaymentService) Update(ctx context.Context, id uuid.UUID, req UpdateCollectionPaymentRequest) (*CollectionPaymentResponse, error) {
	grace, err := s.graceDays(ctx)
	if err != nil {
		return nil, err
	}

	cp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cp.IsCollected() {
		return nil, shared.NewDomainError("ILLEGAL_TRANSITION", "Cannot modify an already collected payment")
	}

	if req.Amount != nil || req.LateFee != nil {
		amount := cp.Amount
		lateFee := cp.LateFee
		if req.Amount != nil {
			amount = *req.Amount
		}
		if req.LateFee != nil {
			lateFee = *req.LateFee
		}
		if err := cp.SetAmounts(valueobject.NewMoneySAR(amount), valueobject.NewMoneySAR(lateFee)); err != nil {
			return nil, err
		}
	}

	if req.DueDateStart != nil || req.DueDateEnd != nil {
		start := cp.DueDateStart
		end := cp.DueDateEnd
		if req.DueDateStart != nil {
			start = *req.DueDateStart
		}
		if req.DueDateEnd != nil {
			end = *req.DueDateEnd
		}
		if err := cp.Reschedule(start, end); err != nil {
			return nil, err
		}
	}

	if err := s.repo.SaveWithLock(ctx, cp); err != nil {
		return nil, err
	}

	resp := toCollectionResponse(cp, s.clock.Now(), grace)
	return &resp, nil
}

// Postpone grants a delay on an uncollected, unpostponed payment.
func (s *CollectionPaymentService) Postpone(ctx context.Context, id uuid.UUID, req PostponeRequest) (*CollectionPaymentResponse, error) {
	grace, err := s.graceDays(ctx)
	if err != nil {
		return nil, err
	}

	cp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := cp.Postpone(req.Days, req.Reason); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, cp); err != nil {
		return nil, err
	}

	s.logger.Info("collection payment postponed",
		zap.String("payment_number", cp.PaymentNumber),
		zap.Int("days", req.Days),
	)

	resp := toCollectionResponse(cp, s.clock.Now(), grace)
	return &resp, nil
}

// MarkCollected records the collection, generates the receipt number and
// appends the ledger entry, all inside one database transaction. A rejected
// transition rolls everything back, so the ledger never records a collection
// that did not happen.
func (s *CollectionPaymentService) MarkCollected(ctx context.Context, id uuid.UUID) (*CollectionPaymentResponse, error) {
	grace, err := s.graceDays(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	var collected *collection.CollectionPayment
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.CollectionPaymentRepo()

		cp, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		receiptNumber, err := repo.GenerateReceiptNumber(ctx)
		if err != nil {
			return err
		}

		if err := cp.MarkCollected(now, receiptNumber); err != nil {
			return err
		}

		if err := repo.SaveWithLock(ctx, cp); err != nil {
			return err
		}

		ledgerRepo := repos.LedgerRepo()
		transactionNumber, err := ledgerRepo.GenerateTransactionNumber(ctx)
		if err != nil {
			return err
		}

		entry, err := ledger.NewLedgerEntry(
			transactionNumber,
			ledger.EntryCredit,
			cp.TotalAmount,
			cp.PaymentNumber,
			fmt.Sprintf("Rent collected for %s (%s)", cp.MonthYear, cp.PaymentNumber),
			now,
		)
		if err != nil {
			return err
		}
		if err := ledgerRepo.Record(ctx, entry); err != nil {
			return err
		}

		collected = cp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("collection payment collected",
		zap.String("payment_number", collected.PaymentNumber),
		zap.Stringp("receipt_number", collected.ReceiptNumber),
	)

	resp := toCollectionResponse(collected, now, grace)
	return &resp, nil
}

// Delete always fails: collection payments are financial records and must be
// retained unconditionally.
func (s *CollectionPaymentService) Delete(_ context.Context, _ uuid.UUID) error {
	return shared.ErrDeletionNotAllowed
}
