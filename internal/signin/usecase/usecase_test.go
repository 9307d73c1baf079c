package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/glintai/internal/pkg/clock/clocktest"
	"github.com/shandysiswandi/glintai/internal/pkg/config"
	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/pkg/jwt"
	"github.com/shandysiswandi/glintai/internal/pkg/uid"
	"github.com/shandysiswandi/glintai/internal/pkg/validator"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
	"github.com/shandysiswandi/glintai/internal/signin/outbound/code"
	"github.com/shandysiswandi/glintai/internal/signin/outbound/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
jwt:
  ttl_minutes: 15
modules:
  signin:
    resend_cooldown_seconds: 30
    notification_ttl_ms: 6000
    flow_idle_ttl_minutes: 10
    redirect_to: /dashboard
`

type fakeSender struct {
	mu    sync.Mutex
	err   error
	calls []entity.Delivery
}

func (s *fakeSender) Send(_ context.Context, d entity.Delivery) (entity.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, d)
	if s.err != nil {
		return entity.Receipt{}, s.err
	}
	return entity.Receipt{Channel: "test", Reference: "ref"}, nil
}

type fakeMessaging struct {
	mu   sync.Mutex
	err  error
	sent []entity.SignedIn
}

func (m *fakeMessaging) PublishAuthenticated(_ context.Context, msg entity.SignedIn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, msg)
	return m.err
}

type flakyJWT struct {
	jwt.JWT
	err error
}

func (j *flakyJWT) Generate(sessionID, email string) (string, error) {
	if j.err != nil {
		return "", j.err
	}
	return j.JWT.Generate(sessionID, email)
}

type fixedID int64

func (id fixedID) Generate() int64 { return int64(id) }

type fixture struct {
	uc        *Usecase
	store     *store.Memory
	clock     *clocktest.Fake
	sender    *fakeSender
	messaging *fakeMessaging
	jwt       *jwt.Symmetric
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	require.NoError(t, err)

	clk := clocktest.New(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))

	tokens, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "glintai",
		Audiences: []string{"glintai-web"},
		TTL:       15 * time.Minute,
		Clock:     clk,
		UUID:      uid.NewUUID(),
	})
	require.NoError(t, err)

	fx := &fixture{
		store:     store.NewMemory(),
		clock:     clk,
		sender:    &fakeSender{},
		messaging: &fakeMessaging{},
		jwt:       tokens,
	}
	fx.uc = New(Dependency{
		RepoStore:     fx.store,
		RepoMessaging: fx.messaging,
		Validator:     v,
		Sender:        fx.sender,
		Checker:       code.NewStatic(entity.DefaultAcceptedCode),
		Config:        cfg,
		UID:           fixedID(7),
		UUID:          uid.NewUUID(),
		Clock:         clk,
		JWT:           tokens,
		Instrument:    instrument.NewNoop(),
	})

	return fx
}

func (fx *fixture) start(t *testing.T) string {
	t.Helper()

	st, err := fx.uc.StartFlow(context.Background())
	require.NoError(t, err)
	return st.ID
}

func (fx *fixture) pending(t *testing.T) string {
	t.Helper()

	id := fx.start(t)
	_, err := fx.uc.Submit(context.Background(), SubmitInput{FlowID: id, Email: "a@b.com", Password: "Abcdef1!"})
	require.NoError(t, err)
	return id
}

func requireCode(t *testing.T, err error, want goerror.Code) *goerror.Error {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, want, gerr.Code())
	return gerr
}

func TestUsecase_StartFlow(t *testing.T) {
	fx := newFixture(t)

	st, err := fx.uc.StartFlow(context.Background())

	require.NoError(t, err)
	assert.Equal(t, entity.StageCredentials, st.Stage)
	assert.NotEmpty(t, st.ID)
	assert.Equal(t, 1, fx.store.Len())
}

func TestUsecase_GetFlow(t *testing.T) {
	fx := newFixture(t)
	id := fx.start(t)

	st, err := fx.uc.GetFlow(context.Background(), GetFlowInput{FlowID: id})
	require.NoError(t, err)
	assert.Equal(t, id, st.ID)

	_, err = fx.uc.GetFlow(context.Background(), GetFlowInput{FlowID: "nope"})
	requireCode(t, err, goerror.CodeInvalidInput)

	_, err = fx.uc.GetFlow(context.Background(), GetFlowInput{FlowID: "0190a8f6-8d3c-7cc1-9b0e-0f4c3a2b1d00"})
	requireCode(t, err, goerror.CodeNotFound)
}

func TestUsecase_Submit(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		field    string
		message  string
	}{
		{name: "MissingEmail", email: "", password: "Abcdef1!", field: "email", message: "Email is required"},
		{name: "BadEmail", email: "foo", password: "Abcdef1!", field: "email", message: "Invalid email format"},
		{name: "NoSymbol", email: "a@b.com", password: "Abcdef12", field: "password", message: "Password must contain at least one special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t)
			id := fx.start(t)

			_, err := fx.uc.Submit(context.Background(), SubmitInput{FlowID: id, Email: tt.email, Password: tt.password})

			gerr := requireCode(t, err, goerror.CodeInvalidInput)
			var fields map[string]string
			var vErr validator.V10ValidationError
			if errors.As(gerr, &vErr) {
				fields = vErr.Values()
			}
			assert.Equal(t, tt.message, fields[tt.field])

			st, err := fx.uc.GetFlow(context.Background(), GetFlowInput{FlowID: id})
			require.NoError(t, err)
			assert.Equal(t, entity.StageCredentials, st.Stage)
			assert.Equal(t, tt.message, st.Fields[tt.field])
		})
	}

	t.Run("Success", func(t *testing.T) {
		fx := newFixture(t)
		id := fx.start(t)

		st, err := fx.uc.Submit(context.Background(), SubmitInput{FlowID: id, Email: "a@b.com", Password: "Abcdef1!"})

		require.NoError(t, err)
		assert.Equal(t, entity.StageOTPPending, st.Stage)
		require.NotNil(t, st.OTP)
		assert.Equal(t, 30, st.OTP.ResendCooldownSeconds)
		require.NotNil(t, st.Notification)
		assert.Equal(t, entity.MsgOTPSent, st.Notification.Message)
		assert.Equal(t, int64(7), st.Notification.ID)
	})

	t.Run("DeliveryFailure", func(t *testing.T) {
		fx := newFixture(t)
		fx.sender.err = errors.New("smtp down")
		id := fx.start(t)

		_, err := fx.uc.Submit(context.Background(), SubmitInput{FlowID: id, Email: "a@b.com", Password: "Abcdef1!"})

		requireCode(t, err, goerror.CodeInternal)
		st, err := fx.uc.GetFlow(context.Background(), GetFlowInput{FlowID: id})
		require.NoError(t, err)
		assert.Equal(t, entity.StageCredentials, st.Stage)
		require.NotNil(t, st.Notification)
		assert.Equal(t, entity.MsgSendFailed, st.Notification.Message)
	})

	t.Run("WrongStage", func(t *testing.T) {
		fx := newFixture(t)
		id := fx.pending(t)

		_, err := fx.uc.Submit(context.Background(), SubmitInput{FlowID: id, Email: "a@b.com", Password: "Abcdef1!"})

		requireCode(t, err, goerror.CodeConflict)
	})
}

func TestUsecase_Verify(t *testing.T) {
	t.Run("Accepted", func(t *testing.T) {
		fx := newFixture(t)
		id := fx.pending(t)
		code := "123456"

		out, err := fx.uc.Verify(context.Background(), VerifyInput{FlowID: id, Code: &code})

		require.NoError(t, err)
		assert.Equal(t, entity.StageAuthenticated, out.Flow.Stage)
		assert.Equal(t, "/dashboard", out.RedirectTo)
		assert.Equal(t, "Bearer", out.TokenType)
		assert.Equal(t, fx.clock.Now().Add(15*time.Minute), out.ExpiresAt)

		clm, err := fx.jwt.Verify(out.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, id, clm.SessionID)
		assert.Equal(t, "a@b.com", clm.Email)

		require.Len(t, fx.messaging.sent, 1)
		assert.Equal(t, id, fx.messaging.sent[0].FlowID)
	})

	t.Run("FromBuffer", func(t *testing.T) {
		fx := newFixture(t)
		id := fx.pending(t)

		_, err := fx.uc.InputOTP(context.Background(), InputOTPInput{FlowID: id, Code: "123456"})
		require.NoError(t, err)

		out, err := fx.uc.Verify(context.Background(), VerifyInput{FlowID: id})
		require.NoError(t, err)
		assert.Equal(t, entity.StageAuthenticated, out.Flow.Stage)
	})

	t.Run("TokenFailureKeepsCodeStep", func(t *testing.T) {
		fx := newFixture(t)
		tokens := &flakyJWT{JWT: fx.jwt, err: errors.New("signer down")}
		fx.uc.jwt = tokens
		id := fx.pending(t)
		code := "123456"

		_, err := fx.uc.Verify(context.Background(), VerifyInput{FlowID: id, Code: &code})

		requireCode(t, err, goerror.CodeInternal)
		st, err := fx.uc.GetFlow(context.Background(), GetFlowInput{FlowID: id})
		require.NoError(t, err)
		assert.Equal(t, entity.StageOTPPending, st.Stage)
		assert.Empty(t, fx.messaging.sent)

		tokens.err = nil
		out, err := fx.uc.Verify(context.Background(), VerifyInput{FlowID: id, Code: &code})

		require.NoError(t, err)
		assert.Equal(t, entity.StageAuthenticated, out.Flow.Stage)
		assert.NotEmpty(t, out.AccessToken)
	})

	t.Run("PublishFailureIgnored", func(t *testing.T) {
		fx := newFixture(t)
		fx.messaging.err = errors.New("broker down")
		id := fx.pending(t)
		code := "123456"

		_, err := fx.uc.Verify(context.Background(), VerifyInput{FlowID: id, Code: &code})

		require.NoError(t, err)
	})

	tests := []struct {
		name    string
		code    string
		message string
	}{
		{name: "Mismatch", code: "000000", message: entity.MsgOTPMismatch},
		{name: "Short", code: "12345", message: entity.MsgOTPFormat},
		{name: "Long", code: "1234567", message: entity.MsgOTPFormat},
		{name: "Empty", code: "", message: entity.MsgOTPFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t)
			id := fx.pending(t)
			code := tt.code

			_, err := fx.uc.Verify(context.Background(), VerifyInput{FlowID: id, Code: &code})

			gerr := requireCode(t, err, goerror.CodeInvalidInput)
			assert.Equal(t, tt.message, gerr.Fields()["code"])

			st, err := fx.uc.GetFlow(context.Background(), GetFlowInput{FlowID: id})
			require.NoError(t, err)
			assert.Equal(t, entity.StageOTPPending, st.Stage)
			assert.Equal(t, tt.message, st.OTP.Error)
			assert.Empty(t, fx.messaging.sent)
		})
	}
}

func TestUsecase_Resend(t *testing.T) {
	fx := newFixture(t)
	id := fx.pending(t)

	_, err := fx.uc.Resend(context.Background(), ResendInput{FlowID: id})
	gerr := requireCode(t, err, goerror.CodeTooManyRequest)
	assert.Equal(t, entity.MsgResendNotYet, gerr.Msg())
	assert.Equal(t, 30*time.Second, gerr.RetryAfter())

	fx.clock.Advance(30 * time.Second)

	st, err := fx.uc.Resend(context.Background(), ResendInput{FlowID: id})
	require.NoError(t, err)
	assert.Equal(t, 30, st.OTP.ResendCooldownSeconds)
	require.Len(t, fx.sender.calls, 2)
	assert.True(t, fx.sender.calls[1].Resend)
}

func TestUsecase_CodeBuffer(t *testing.T) {
	fx := newFixture(t)
	id := fx.pending(t)
	ctx := context.Background()

	for _, d := range []string{"1", "2", "3"} {
		_, err := fx.uc.EnterDigit(ctx, EnterDigitInput{FlowID: id, Digit: d})
		require.NoError(t, err)
	}

	_, err := fx.uc.EnterDigit(ctx, EnterDigitInput{FlowID: id, Digit: "x"})
	requireCode(t, err, goerror.CodeInvalidInput)

	st, err := fx.uc.DeleteDigit(ctx, DeleteDigitInput{FlowID: id})
	require.NoError(t, err)
	assert.Equal(t, "12", st.OTP.Code)
}

func TestUsecase_ChangeEmail(t *testing.T) {
	fx := newFixture(t)
	id := fx.pending(t)

	st, err := fx.uc.ChangeEmail(context.Background(), ChangeEmailInput{FlowID: id})

	require.NoError(t, err)
	assert.Equal(t, entity.StageCredentials, st.Stage)
	assert.Nil(t, st.OTP)
	assert.Equal(t, "a@b.com", st.Email)
	assert.Equal(t, 0, fx.clock.Pending())
}

func TestUsecase_AckNotification(t *testing.T) {
	fx := newFixture(t)
	id := fx.pending(t)
	ctx := context.Background()

	err := fx.uc.AckNotification(ctx, AckNotificationInput{FlowID: id, NotificationID: 99})
	requireCode(t, err, goerror.CodeNotFound)

	require.NoError(t, fx.uc.AckNotification(ctx, AckNotificationInput{FlowID: id, NotificationID: 7}))

	st, err := fx.uc.GetFlow(ctx, GetFlowInput{FlowID: id})
	require.NoError(t, err)
	assert.False(t, st.Notification.Visible)
}

func TestUsecase_CancelFlow(t *testing.T) {
	fx := newFixture(t)
	id := fx.pending(t)

	require.NoError(t, fx.uc.CancelFlow(context.Background(), CancelFlowInput{FlowID: id}))

	assert.Equal(t, 0, fx.store.Len())
	assert.Equal(t, 0, fx.clock.Pending())

	err := fx.uc.CancelFlow(context.Background(), CancelFlowInput{FlowID: id})
	requireCode(t, err, goerror.CodeNotFound)
}

func TestUsecase_StreamFlow(t *testing.T) {
	fx := newFixture(t)
	id := fx.start(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, events, err := fx.uc.StreamFlow(ctx, StreamFlowInput{FlowID: id})
	require.NoError(t, err)
	assert.Equal(t, entity.StageCredentials, st.Stage)
	assert.Equal(t, int64(1), fx.uc.Subscribers())

	_, err = fx.uc.Submit(context.Background(), SubmitInput{FlowID: id, Email: "a@b.com", Password: "Abcdef1!"})
	require.NoError(t, err)

	evt := <-events
	assert.Equal(t, entity.EventStage, evt.Kind)
	assert.Equal(t, entity.StageOTPPending, evt.Stage)

	fx.clock.Advance(time.Second)
	var cooldown entity.Event
	for evt := range events {
		if evt.Kind == entity.EventCooldown {
			cooldown = evt
			break
		}
	}
	assert.Equal(t, 29, cooldown.CooldownSeconds)

	require.NoError(t, fx.uc.CancelFlow(context.Background(), CancelFlowInput{FlowID: id}))
	for range events {
	}
	assert.Equal(t, int64(0), fx.uc.Subscribers())
}

func TestUsecase_StreamFlow_ContextDone(t *testing.T) {
	fx := newFixture(t)
	id := fx.start(t)
	ctx, cancel := context.WithCancel(context.Background())

	_, events, err := fx.uc.StreamFlow(ctx, StreamFlowInput{FlowID: id})
	require.NoError(t, err)

	cancel()
	for range events {
	}

	assert.Eventually(t, func() bool { return fx.uc.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestUsecase_Me(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.uc.Me(context.Background())
	requireCode(t, err, goerror.CodeUnauthorized)

	token, err := fx.jwt.Generate("flow-1", "a@b.com")
	require.NoError(t, err)
	clm, err := fx.jwt.Verify(token)
	require.NoError(t, err)

	out, err := fx.uc.Me(jwt.SetAuth(context.Background(), clm))
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", out.Email)
	assert.Equal(t, "flow-1", out.SessionID)
	assert.Equal(t, fx.clock.Now().UTC(), out.IssuedAt)
	assert.Equal(t, fx.clock.Now().UTC().Add(15*time.Minute), out.ExpiresAt)
	assert.Equal(t, time.UTC, out.ExpiresAt.Location())
}

func TestUsecase_SweepIdle(t *testing.T) {
	fx := newFixture(t)
	stale := fx.start(t)

	fx.clock.Advance(9 * time.Minute)
	fresh := fx.start(t)

	fx.clock.Advance(2 * time.Minute)
	n, err := fx.uc.SweepIdle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = fx.store.Get(context.Background(), stale)
	assert.ErrorIs(t, err, entity.ErrFlowNotFound)
	_, err = fx.store.Get(context.Background(), fresh)
	assert.NoError(t, err)
}
