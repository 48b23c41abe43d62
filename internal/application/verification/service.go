package verification

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/laon-cafe/reservation-api/internal/domain"
	"github.com/laon-cafe/reservation-api/internal/pkg/id"
)

// codeTTL is the validity window of an issued verification code.
const codeTTL = 10 * time.Minute

type SendCodeRequest struct {
	Email string `json:"email" validate:"required"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// Store is the subset of the verification repository this service needs.
type Store interface {
	Put(ctx context.Context, v *domain.EmailVerification) error
	FindActiveMatch(ctx context.Context, email, code string, now time.Time) ([]domain.EmailVerification, error)
	// MarkVerified must be a single conditional update: it returns true only
	// for the one caller that transitions the record from unverified to
	// verified before expiry.
	MarkVerified(ctx context.Context, verificationID string, now time.Time) (bool, error)
}

// Mailer delivers the issued code to the requester.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type Service interface {
	// RequestCode issues a fresh 6-digit code for the email, persists the
	// record and mails the code. A mail failure is surfaced so the client
	// knows to retry; the persisted record is left in place.
	RequestCode(ctx context.Context, email string) (*domain.EmailVerification, error)
	// VerifyCode consumes a pending code. Wrong, expired and already-used
	// codes all fail identically — callers must not be able to tell which.
	VerifyCode(ctx context.Context, email, code string) error
}

type ServiceDeps struct {
	Store  Store
	Mailer Mailer
	Now    func() time.Time // defaults to time.Now
}

type service struct {
	store  Store
	mailer Mailer
	now    func() time.Time
}

func NewService(d ServiceDeps) Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &service{store: d.Store, mailer: d.Mailer, now: d.Now}
}

func (s *service) RequestCode(ctx context.Context, email string) (*domain.EmailVerification, error) {
	if email == "" {
		return nil, fmt.Errorf("email required: %w", domain.ErrBadRequest)
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	v := &domain.EmailVerification{
		VerificationID: id.New(),
		Email:          email,
		Code:           code,
		ExpiresAt:      now.Add(codeTTL).Unix(),
		IsVerified:     0,
		CreatedAt:      now,
	}
	if err := s.store.Put(ctx, v); err != nil {
		return nil, err
	}

	subject := "[라온카페] 예약 인증번호 안내"
	body := fmt.Sprintf("안녕하세요, 라온카페입니다.\n\n요청하신 인증번호는 [%s] 입니다.\n10분 내에 입력해 주세요.", code)
	if err := s.mailer.SendEmail(email, subject, body); err != nil {
		return nil, fmt.Errorf("send verification code: %v: %w", err, domain.ErrNotificationFailed)
	}
	return v, nil
}

func (s *service) VerifyCode(ctx context.Context, email, code string) error {
	now := s.now().UTC()
	matches, err := s.store.FindActiveMatch(ctx, email, code, now)
	if err != nil {
		return err
	}
	// A record found active can still lose the conditional update to a
	// concurrent verify on the same record, so walk all candidates.
	for _, m := range matches {
		ok, err := s.store.MarkVerified(ctx, m.VerificationID, now)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return domain.ErrCodeInvalid
}

// generateCode returns a uniformly random 6-digit code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
