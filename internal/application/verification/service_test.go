package verification

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/laon-cafe/reservation-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, v *domain.EmailVerification) error {
	return m.Called(ctx, v).Error(0)
}
func (m *mockStore) FindActiveMatch(ctx context.Context, email, code string, now time.Time) ([]domain.EmailVerification, error) {
	args := m.Called(ctx, email, code, now)
	if vs, _ := args.Get(0).([]domain.EmailVerification); vs != nil {
		return vs, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) MarkVerified(ctx context.Context, verificationID string, now time.Time) (bool, error) {
	args := m.Called(ctx, verificationID, now)
	return args.Bool(0), args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

// --- RequestCode ---

func TestRequestCode_EmptyEmail(t *testing.T) {
	svc := NewService(ServiceDeps{})
	_, err := svc.RequestCode(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestRequestCode_HappyPath(t *testing.T) {
	issuedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	st := &mockStore{}
	ml := &mockMailer{}
	st.On("Put", mock.Anything, mock.AnythingOfType("*domain.EmailVerification")).Return(nil)
	ml.On("SendEmail", "a@x.com", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(ServiceDeps{Store: st, Mailer: ml, Now: func() time.Time { return issuedAt }})
	v, err := svc.RequestCode(context.Background(), "a@x.com")
	require.NoError(t, err)

	assert.NotEmpty(t, v.VerificationID)
	assert.Equal(t, "a@x.com", v.Email)
	assert.Equal(t, 0, v.IsVerified)
	assert.Equal(t, issuedAt.Add(10*time.Minute).Unix(), v.ExpiresAt)

	code, convErr := strconv.Atoi(v.Code)
	require.NoError(t, convErr)
	assert.GreaterOrEqual(t, code, 100000)
	assert.LessOrEqual(t, code, 999999)
	assert.Len(t, v.Code, 6)

	st.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestRequestCode_CodeAlwaysInRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestRequestCode_StorePutFails(t *testing.T) {
	st := &mockStore{}
	ml := &mockMailer{}
	st.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))

	svc := NewService(ServiceDeps{Store: st, Mailer: ml})
	_, err := svc.RequestCode(context.Background(), "a@x.com")
	require.Error(t, err)
	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestCode_MailFails_SurfacesNotificationFailed(t *testing.T) {
	st := &mockStore{}
	ml := &mockMailer{}
	st.On("Put", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp timeout"))

	svc := NewService(ServiceDeps{Store: st, Mailer: ml})
	_, err := svc.RequestCode(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotificationFailed))
	// The record stays persisted — the client retries the send, and extra
	// live records per email are allowed.
	st.AssertCalled(t, "Put", mock.Anything, mock.Anything)
}

// --- VerifyCode ---

func TestVerifyCode_NoMatch(t *testing.T) {
	st := &mockStore{}
	st.On("FindActiveMatch", mock.Anything, "a@x.com", "123456", mock.Anything).Return([]domain.EmailVerification{}, nil)

	svc := NewService(ServiceDeps{Store: st})
	err := svc.VerifyCode(context.Background(), "a@x.com", "123456")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeInvalid))
}

func TestVerifyCode_MatchWins(t *testing.T) {
	st := &mockStore{}
	st.On("FindActiveMatch", mock.Anything, "a@x.com", "123456", mock.Anything).
		Return([]domain.EmailVerification{{VerificationID: "v1"}}, nil)
	st.On("MarkVerified", mock.Anything, "v1", mock.Anything).Return(true, nil)

	svc := NewService(ServiceDeps{Store: st})
	require.NoError(t, svc.VerifyCode(context.Background(), "a@x.com", "123456"))
}

func TestVerifyCode_LosesConditionalUpdate(t *testing.T) {
	st := &mockStore{}
	st.On("FindActiveMatch", mock.Anything, "a@x.com", "123456", mock.Anything).
		Return([]domain.EmailVerification{{VerificationID: "v1"}}, nil)
	st.On("MarkVerified", mock.Anything, "v1", mock.Anything).Return(false, nil)

	svc := NewService(ServiceDeps{Store: st})
	err := svc.VerifyCode(context.Background(), "a@x.com", "123456")
	assert.True(t, errors.Is(err, domain.ErrCodeInvalid))
}

func TestVerifyCode_TriesAllCandidates(t *testing.T) {
	st := &mockStore{}
	st.On("FindActiveMatch", mock.Anything, "a@x.com", "123456", mock.Anything).
		Return([]domain.EmailVerification{{VerificationID: "v1"}, {VerificationID: "v2"}}, nil)
	st.On("MarkVerified", mock.Anything, "v1", mock.Anything).Return(false, nil)
	st.On("MarkVerified", mock.Anything, "v2", mock.Anything).Return(true, nil)

	svc := NewService(ServiceDeps{Store: st})
	require.NoError(t, svc.VerifyCode(context.Background(), "a@x.com", "123456"))
	st.AssertExpectations(t)
}

func TestVerifyCode_StoreError(t *testing.T) {
	st := &mockStore{}
	st.On("FindActiveMatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("dynamo down"))

	svc := NewService(ServiceDeps{Store: st})
	err := svc.VerifyCode(context.Background(), "a@x.com", "123456")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrCodeInvalid))
}

// --- scenario tests against an in-memory store ---
//
// memStore mirrors the DynamoDB repo contract: FindActiveMatch filters on
// code, expiry and the unverified flag; MarkVerified is a mutex-guarded
// compare-and-set matching the conditional update.

type memStore struct {
	mu      sync.Mutex
	records map[string]*domain.EmailVerification
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*domain.EmailVerification)}
}

func (s *memStore) Put(_ context.Context, v *domain.EmailVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *v
	s.records[v.VerificationID] = &cp
	return nil
}

func (s *memStore) FindActiveMatch(_ context.Context, email, code string, now time.Time) ([]domain.EmailVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matches []domain.EmailVerification
	for _, r := range s.records {
		if r.Email == email && r.Code == code && r.ExpiresAt > now.Unix() && r.IsVerified == 0 {
			matches = append(matches, *r)
		}
	}
	return matches, nil
}

func (s *memStore) MarkVerified(_ context.Context, verificationID string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[verificationID]
	if !ok || r.IsVerified != 0 || r.ExpiresAt <= now.Unix() {
		return false, nil
	}
	r.IsVerified = 1
	return true, nil
}

func (s *memStore) HasVerified(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.Email == email && r.IsVerified == 1 {
			return true, nil
		}
	}
	return false, nil
}

type noopMailer struct{}

func (noopMailer) SendEmail(_, _, _ string) error { return nil }

func TestScenario_VerifySucceedsExactlyOnce(t *testing.T) {
	st := newMemStore()
	svc := NewService(ServiceDeps{Store: st, Mailer: noopMailer{}})

	v, err := svc.RequestCode(context.Background(), "a@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.VerifyCode(context.Background(), "a@x.com", v.Code))

	err = svc.VerifyCode(context.Background(), "a@x.com", v.Code)
	assert.True(t, errors.Is(err, domain.ErrCodeInvalid), "re-submitting a used code must fail")
}

func TestScenario_ExpiredCode(t *testing.T) {
	st := newMemStore()
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(ServiceDeps{Store: st, Mailer: noopMailer{}, Now: func() time.Time { return current }})

	v, err := svc.RequestCode(context.Background(), "a@x.com")
	require.NoError(t, err)

	current = current.Add(11 * time.Minute)
	err = svc.VerifyCode(context.Background(), "a@x.com", v.Code)
	assert.True(t, errors.Is(err, domain.ErrCodeInvalid), "correct code after expiry must fail")
}

func TestScenario_WrongThenRightCode(t *testing.T) {
	st := newMemStore()
	svc := NewService(ServiceDeps{Store: st, Mailer: noopMailer{}})

	v, err := svc.RequestCode(context.Background(), "a@x.com")
	require.NoError(t, err)

	wrong := "654321"
	if wrong == v.Code {
		wrong = "123456"
	}
	err = svc.VerifyCode(context.Background(), "a@x.com", wrong)
	assert.True(t, errors.Is(err, domain.ErrCodeInvalid))

	require.NoError(t, svc.VerifyCode(context.Background(), "a@x.com", v.Code))
}

func TestScenario_CodeNeverIssuedForEmail(t *testing.T) {
	st := newMemStore()
	svc := NewService(ServiceDeps{Store: st, Mailer: noopMailer{}})

	v, err := svc.RequestCode(context.Background(), "a@x.com")
	require.NoError(t, err)

	err = svc.VerifyCode(context.Background(), "b@x.com", v.Code)
	assert.True(t, errors.Is(err, domain.ErrCodeInvalid))
}

func TestScenario_ConcurrentVerifies_OneWinner(t *testing.T) {
	st := newMemStore()
	svc := NewService(ServiceDeps{Store: st, Mailer: noopMailer{}})

	v, err := svc.RequestCode(context.Background(), "a@x.com")
	require.NoError(t, err)

	const n = 50
	results := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.VerifyCode(context.Background(), "a@x.com", v.Code)
		}()
	}
	wg.Wait()
	close(results)

	successes, invalids := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrCodeInvalid):
			invalids++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, invalids)
}
