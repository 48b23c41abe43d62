package reservation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/laon-cafe/reservation-api/internal/domain"
	"github.com/laon-cafe/reservation-api/internal/pkg/id"
)

type CreateRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email" validate:"required"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Guests        int    `json:"guests"`
	ProgramType   string `json:"program_type"`
	TotalAmount   int    `json:"total_price"`
	PrepaidAmount int    `json:"prepaid_price"`
}

// Store is the subset of the reservation repository this service needs.
type Store interface {
	Put(ctx context.Context, r *domain.Reservation) error
	List(ctx context.Context) ([]domain.Reservation, error)
}

// VerificationChecker reports whether an email holds the verified capability.
type VerificationChecker interface {
	HasVerified(ctx context.Context, email string) (bool, error)
}

type Mailer interface {
	SendEmail(to, subject, body string) error
}

// SMSSender is optional; a nil sender disables the operator SMS alert.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type Service interface {
	// Reserve admits the reservation only when the email has been verified.
	// The store insert is the commit point; the confirmation notifications
	// after it are fire-and-forget and never roll the reservation back.
	Reserve(ctx context.Context, req CreateRequest) (*domain.Reservation, error)
	List(ctx context.Context) ([]domain.Reservation, error)
}

type ServiceDeps struct {
	Store         Store
	Verifications VerificationChecker
	Mailer        Mailer
	SMSSender     SMSSender // may be nil
	OperatorEmail string
	OperatorPhone string // empty disables the SMS alert
	Now           func() time.Time
}

type service struct {
	store         Store
	verifications VerificationChecker
	mailer        Mailer
	smsSender     SMSSender
	operatorEmail string
	operatorPhone string
	now           func() time.Time
}

func NewService(d ServiceDeps) Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &service{
		store:         d.Store,
		verifications: d.Verifications,
		mailer:        d.Mailer,
		smsSender:     d.SMSSender,
		operatorEmail: d.OperatorEmail,
		operatorPhone: d.OperatorPhone,
		now:           d.Now,
	}
}

func (s *service) Reserve(ctx context.Context, req CreateRequest) (*domain.Reservation, error) {
	if req.Email == "" {
		return nil, fmt.Errorf("email required: %w", domain.ErrBadRequest)
	}

	ok, err := s.verifications.HasVerified(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrVerificationRequired
	}

	r := &domain.Reservation{
		ReservationID:   id.New(),
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		ProgramType:     req.ProgramType,
		ReservationDate: req.Date,
		ReservationTime: req.Time,
		Guests:          req.Guests,
		TotalAmount:     req.TotalAmount,
		PrepaidAmount:   req.PrepaidAmount,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.store.Put(ctx, r); err != nil {
		return nil, err
	}

	// The reservation is durable from here on; notification failures are
	// logged and never surfaced to the caller.
	s.notifyConfirmed(ctx, r)
	return r, nil
}

func (s *service) List(ctx context.Context) ([]domain.Reservation, error) {
	return s.store.List(ctx)
}

func (s *service) notifyConfirmed(ctx context.Context, r *domain.Reservation) {
	operatorBody := fmt.Sprintf(
		"새로운 예약이 접수되었습니다.\n\n이름: %s\n연락처: %s\n이메일: %s\n프로그램: %s\n날짜: %s %s\n인원: %d명\n총 금액: %d원 (선결제 %d원)\n예약번호: %s",
		r.Name, r.Phone, r.Email, r.ProgramType, r.ReservationDate, r.ReservationTime,
		r.Guests, r.TotalAmount, r.PrepaidAmount, r.ReservationID,
	)
	if err := s.mailer.SendEmail(s.operatorEmail, "[라온카페] 새로운 예약 접수", operatorBody); err != nil {
		slog.Warn("operator notification failed", "reservation_id", r.ReservationID, "err", err)
	}

	customerBody := fmt.Sprintf(
		"안녕하세요 %s님, 라온카페입니다.\n\n예약이 확정되었습니다.\n날짜: %s %s\n인원: %d명\n예약번호: %s\n\n감사합니다.",
		r.Name, r.ReservationDate, r.ReservationTime, r.Guests, r.ReservationID,
	)
	if err := s.mailer.SendEmail(r.Email, "[라온카페] 예약이 확정되었습니다", customerBody); err != nil {
		slog.Warn("customer notification failed", "reservation_id", r.ReservationID, "err", err)
	}

	if s.smsSender != nil && s.operatorPhone != "" {
		msg := fmt.Sprintf("[라온카페] 새 예약: %s %s, %d명 (%s)", r.ReservationDate, r.ReservationTime, r.Guests, r.Name)
		if err := s.smsSender.SendSMS(ctx, s.operatorPhone, msg); err != nil {
			slog.Warn("operator SMS alert failed", "reservation_id", r.ReservationID, "err", err)
		}
	}
}
