package payment

import (
	"context"

	"github.com/aqarcrm/backend/internal/domain/settings"
	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/aqarcrm/backend/internal/domain/supply"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SupplyPaymentService orchestrates the owner supply pipeline. Every amount
// write funnels through the fee calculator; the commission rate defaults from
// the settings store when a request omits it.
type SupplyPaymentService struct {
	repo     supply.SupplyPaymentRepository
	calc     supply.FeeCalculator
	settings settings.Store
	clock    shared.Clock
	logger   *zap.Logger
}

// SupplyPaymentServiceOption is a functional option for configuring the service
type SupplyPaymentServiceOption func(*SupplyPaymentService)

// WithSupplyLogger sets the logger
func WithSupplyLogger(logger *zap.Logger) SupplyPaymentServiceOption {
	return func(s *SupplyPaymentService) {
		s.logger = logger
	}
}

// WithSupplyClock sets the clock
func WithSupplyClock(clock shared.Clock) SupplyPaymentServiceOption {
	return func(s *SupplyPaymentService) {
		s.clock = clock
	}
}

// NewSupplyPaymentService creates a new SupplyPaymentService
func NewSupplyPaymentService(
	repo supply.SupplyPaymentRepository,
	calc supply.FeeCalculator,
	settingsStore settings.Store,
	opts ...SupplyPaymentServiceOption,
) *SupplyPaymentService {
	s := &SupplyPaymentService{
		repo:     repo,
		calc:     calc,
		settings: settingsStore,
		clock:    shared.SystemClock{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// commissionRate resolves the rate for a request: the explicit value when
// present, otherwise the configured default.
func (s *SupplyPaymentService) commissionRate(ctx context.Context, requested *decimal.Decimal) (decimal.Decimal, error) {
	if requested != nil {
		return *requested, nil
	}

	raw, err := s.settings.GetString(ctx, settings.KeyDefaultCommissionRate, settings.DefaultCommissionRate)
	if err != nil {
		return decimal.Zero, err
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("INVALID_CONFIGURATION", "Configured commission rate is not numeric: "+raw)
	}
	return rate, nil
}

// Create generates a payment number and builds the supply payment. The net
// amount is computed by the fee calculator, never taken from the request.
func (s *SupplyPaymentService) Create(ctx context.Context, req CreateSupplyPaymentRequest) (*SupplyPaymentResponse, error) {
	rate, err := s.commissionRate(ctx, req.CommissionRate)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxSequenceRetries; attempt++ {
		number, err := s.repo.GeneratePaymentNumber(ctx)
		if err != nil {
			return nil, err
		}

		sp, err := supply.NewSupplyPayment(
			number,
			req.OwnerID, req.PropertyID, req.ContractID,
			req.GrossAmount, rate, req.MaintenanceDeduction, req.OtherDeductions,
			req.DueDate,
			s.calc,
		)
		if err != nil {
			return nil, err
		}

		if err := s.repo.Save(ctx, sp); err != nil {
			if shared.IsCode(err, "SEQUENCE_CONFLICT") {
				s.logger.Warn("supply payment number collided, regenerating",
					zap.String("payment_number", number),
					zap.Int("attempt", attempt),
				)
				continue
			}
			return nil, err
		}

		s.logger.Info("supply payment created",
			zap.String("payment_number", sp.PaymentNumber),
			zap.String("owner_id", sp.OwnerID.String()),
		)

		resp := toSupplyResponse(sp, s.clock.Now())
		return &resp, nil
	}

	return nil, shared.ErrSequenceConflict
}

// Get returns one supply payment with its derived status.
func (s *SupplyPaymentService) Get(ctx context.Context, id uuid.UUID) (*SupplyPaymentResponse, error) {
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toSupplyResponse(sp, s.clock.Now())
	return &resp, nil
}

// List returns supply payments matching the filter, optionally narrowed to
// one derived status.
func (s *SupplyPaymentService) List(ctx context.Context, filter supply.Filter, status *supply.SupplyStatus) (*shared.Paginated[SupplyPaymentResponse], error) {
	now := s.clock.Now()

	var payments []supply.SupplyPayment
	var total int64
	var err error
	if status != nil {
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown supply payment status: "+status.String())
		}
		payments, err = s.repo.FindByStatus(ctx, *status, now, filter)
		if err != nil {
			return nil, err
		}
		total, err = s.repo.CountByStatus(ctx, *status, now, filter)
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

	items := make([]SupplyPaymentResponse, len(payments))
	for i := range payments {
		items[i] = toSupplyResponse(&payments[i], now)
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// StatusSummary returns the per-status counts evaluated against one instant.
func (s *SupplyPaymentService) StatusSummary(ctx context.Context) (*SupplyStatusSummary, error) {
	now := s.clock.Now()

	counts, err := s.repo.StatusCounts(ctx, now)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	return &SupplyStatusSummary{
		Counts: counts,
		Total:  total,
		AsOf:   now,
	}, nil
}

// Update applies partial field changes. Any amount change recomputes the net
// through the fee calculator; rejected once the payment is collected.
func (s *SupplyPaymentService) Update(ctx context.Context, id uuid.UUID, req UpdateSupplyPaymentRequest) (*SupplyPaymentResponse, error) {
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.GrossAmount != nil || req.CommissionRate != nil || req.MaintenanceDeduction != nil || req.OtherDeductions != nil {
		gross := sp.GrossAmount
		rate := sp.CommissionRate
		maintenance := sp.MaintenanceDeduction
		other := sp.OtherDeductions
		if req.GrossAmount != nil {
			gross = *req.GrossAmount
		}
		if req.CommissionRate != nil {
			rate = *req.CommissionRate
		}
		if req.MaintenanceDeduction != nil {
			maintenance = *req.MaintenanceDeduction
		}
		if req.OtherDeductions != nil {
			other = *req.OtherDeductions
		}
		if err := sp.SetAmounts(gross, rate, maintenance, other, s.calc); err != nil {
			return nil, err
		}
	}

	if req.DueDate != nil {
		if err := sp.Reschedule(*req.DueDate); err != nil {
			return nil, err
		}
	}

	if err := s.repo.SaveWithLock(ctx, sp); err != nil {
		return nil, err
	}

	resp := toSupplyResponse(sp, s.clock.Now())
	return &resp, nil
}

// MarkPaid records the payment to the owner. Terminal.
func (s *SupplyPaymentService) MarkPaid(ctx context.Context, id uuid.UUID) (*SupplyPaymentResponse, error) {
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := sp.MarkPaid(now); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, sp); err != nil {
		return nil, err
	}

	s.logger.Info("supply payment paid",
		zap.String("payment_number", sp.PaymentNumber),
	)

	resp := toSupplyResponse(sp, now)
	return &resp, nil
}

// Approve moves the approval workflow to approved.
func (s *SupplyPaymentService) Approve(ctx context.Context, id uuid.UUID, req ApprovalDecisionRequest) (*SupplyPaymentResponse, error) {
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sp.Approve(req.DecidedBy, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, sp); err != nil {
		return nil, err
	}

	resp := toSupplyResponse(sp, s.clock.Now())
	return &resp, nil
}

// Reject moves the approval workflow to rejected.
func (s *SupplyPaymentService) Reject(ctx context.Context, id uuid.UUID, req ApprovalDecisionRequest) (*SupplyPaymentResponse, error) {
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sp.RejectApproval(req.DecidedBy, req.Reason, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, sp); err != nil {
		return nil, err
	}

	resp := toSupplyResponse(sp, s.clock.Now())
	return &resp, nil
}

// Delete removes a supply payment that has not been collected yet. Unlike the
// collection side there is no unconditional retention rule here.
func (s *SupplyPaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if sp.IsPaid() {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Cannot delete a collected supply payment")
	}

	return s.repo.Delete(ctx, id)
}
