package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/shandysiswandi/glintai/internal/pkg/clock"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
	"go.uber.org/atomic"
)

const tickInterval = time.Second

const (
	defaultNotificationTTL = 6 * time.Second
)

// Validator checks the credentials struct tags.
type Validator interface {
	Validate(data any) error
}

// Sender hands a code to the visitor. It may block; it must honour ctx.
type Sender interface {
	Send(ctx context.Context, d entity.Delivery) (entity.Receipt, error)
}

// Checker decides whether a well-formed code is the expected one.
type Checker interface {
	Check(ctx context.Context, email, code string) (bool, error)
}

// IDGenerator produces notification ids.
type IDGenerator interface {
	Generate() int64
}

// Observer receives flow events. It is called without the flow lock held and
// must not block for long.
type Observer func(evt entity.Event)

// Config wires a Flow.
type Config struct {
	ID              string
	Validator       Validator
	Sender          Sender
	Checker         Checker
	Clock           clock.Clocker
	NotificationID  IDGenerator
	Observer        Observer
	ResendCooldown  time.Duration
	NotificationTTL time.Duration
}

// Flow is the sign-in state machine of one visitor.
type Flow struct {
	id              string
	validator       Validator
	sender          Sender
	checker         Checker
	clock           clock.Clocker
	noticeID        IDGenerator
	observer        Observer
	cooldownSeconds int
	noticeTTL       time.Duration

	mu        sync.Mutex
	stage     entity.Stage
	email     string
	fields    entity.ValidationResult
	session   *entity.OTPSession
	notice    *entity.Notification
	sending   bool
	closed    bool
	timer     clock.Timer
	timerGen  uint64
	eventSeq  uint64
	createdAt time.Time
	updatedAt time.Time

	dispatchMu sync.Mutex
	lastSeq    uint64
}

// New returns a flow in StageCredentials.
func New(cfg Config) *Flow {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.ResendCooldown <= 0 {
		cfg.ResendCooldown = entity.DefaultResendCooldown
	}
	if cfg.NotificationTTL <= 0 {
		cfg.NotificationTTL = defaultNotificationTTL
	}
	if cfg.NotificationID == nil {
		cfg.NotificationID = &sequence{}
	}

	now := cfg.Clock.Now()

	return &Flow{
		id:              cfg.ID,
		validator:       cfg.Validator,
		sender:          cfg.Sender,
		checker:         cfg.Checker,
		clock:           cfg.Clock,
		noticeID:        cfg.NotificationID,
		observer:        cfg.Observer,
		cooldownSeconds: int(cfg.ResendCooldown / time.Second),
		noticeTTL:       cfg.NotificationTTL,
		stage:           entity.StageCredentials,
		createdAt:       now,
		updatedAt:       now,
	}
}

// ID returns the flow identifier.
func (f *Flow) ID() string {
	return f.id
}

// Submit validates the credentials and, when they pass, sends a code and moves
// the flow to StageOTPPending. Invalid credentials keep the stage and return a
// *entity.FieldValidationError without emitting a notification.
func (f *Flow) Submit(ctx context.Context, cred entity.Credentials) error {
	f.mu.Lock()
	if err := f.ensureLocked(entity.StageCredentials); err != nil {
		f.mu.Unlock()
		return err
	}
	if f.sending {
		f.mu.Unlock()
		return entity.ErrSendInProgress
	}

	f.email = cred.Email
	result, err := f.validate(cred)
	if err != nil {
		f.mu.Unlock()
		return err
	}

	f.fields = result
	f.touchLocked()
	if !result.Valid() {
		f.mu.Unlock()
		return &entity.FieldValidationError{Fields: result.Clone()}
	}

	f.sending = true
	email := f.email
	f.mu.Unlock()

	receipt, sendErr := f.sender.Send(ctx, entity.Delivery{FlowID: f.id, Email: email})

	f.mu.Lock()
	f.sending = false
	if f.closed || f.stage != entity.StageCredentials {
		f.mu.Unlock()
		return entity.ErrInvalidStage
	}

	if sendErr != nil {
		evt := f.notifyLocked(entity.MsgSendFailed, entity.SeverityError)
		f.mu.Unlock()
		f.dispatch(evt)
		return fmt.Errorf("%w: %w", entity.ErrDeliveryFailure, sendErr)
	}

	f.stage = entity.StageOTPPending
	f.session = &entity.OTPSession{
		Sent:                  true,
		ResendCooldownSeconds: f.cooldownSeconds,
		SentAt:                lo.Ternary(receipt.SentAt.IsZero(), f.clock.Now(), receipt.SentAt),
	}
	f.armLocked()

	events := []entity.Event{f.stageEventLocked(), f.notifyLocked(entity.MsgOTPSent, entity.SeveritySuccess)}
	f.mu.Unlock()
	f.dispatch(events...)

	return nil
}

// Input replaces the code buffer. Non-digits are dropped and the result is
// capped at entity.OTPLength. The previous code error is cleared.
func (f *Flow) Input(code string) error {
	f.mu.Lock()
	if err := f.ensureLocked(entity.StageOTPPending); err != nil {
		f.mu.Unlock()
		return err
	}

	digits := strings.Map(func(r rune) rune {
		if r < '0' || r > '9' {
			return -1
		}
		return r
	}, code)
	if len(digits) > entity.OTPLength {
		digits = digits[:entity.OTPLength]
	}

	f.session.Code = digits
	f.session.Error = ""
	f.touchLocked()
	evt := f.otpEventLocked()
	f.mu.Unlock()
	f.dispatch(evt)

	return nil
}

// EnterDigit appends one digit to the code buffer. A full buffer is left as is.
func (f *Flow) EnterDigit(d rune) error {
	f.mu.Lock()
	if err := f.ensureLocked(entity.StageOTPPending); err != nil {
		f.mu.Unlock()
		return err
	}
	if d < '0' || d > '9' {
		f.mu.Unlock()
		return entity.ErrInvalidDigit
	}

	if len(f.session.Code) < entity.OTPLength {
		f.session.Code += string(d)
	}
	f.session.Error = ""
	f.touchLocked()
	evt := f.otpEventLocked()
	f.mu.Unlock()
	f.dispatch(evt)

	return nil
}

// DeleteDigit removes the last digit of the code buffer, if any.
func (f *Flow) DeleteDigit() error {
	f.mu.Lock()
	if err := f.ensureLocked(entity.StageOTPPending); err != nil {
		f.mu.Unlock()
		return err
	}

	if n := len(f.session.Code); n > 0 {
		f.session.Code = f.session.Code[:n-1]
	}
	f.session.Error = ""
	f.touchLocked()
	evt := f.otpEventLocked()
	f.mu.Unlock()
	f.dispatch(evt)

	return nil
}

// Verify checks code. A code that is not exactly entity.OTPLength long is
// rejected with entity.ErrOTPFormat before any comparison; a wrong code with
// entity.ErrOTPMismatch. Both keep the stage and the buffer. The right code
// moves the flow to StageAuthenticated and discards the OTP session.
func (f *Flow) Verify(ctx context.Context, code string, opts ...VerifyOption) error {
	f.mu.Lock()
	if err := f.ensureLocked(entity.StageOTPPending); err != nil {
		f.mu.Unlock()
		return err
	}

	return f.verifyLocked(ctx, code, opts)
}

// VerifyInput verifies the current content of the code buffer.
func (f *Flow) VerifyInput(ctx context.Context, opts ...VerifyOption) error {
	f.mu.Lock()
	if err := f.ensureLocked(entity.StageOTPPending); err != nil {
		f.mu.Unlock()
		return err
	}

	return f.verifyLocked(ctx, f.session.Code, opts)
}

// VerifyOption tunes a single Verify or VerifyInput call.
type VerifyOption func(*verifyOptions)

type verifyOptions struct {
	onAccept func(email string) error
}

// OnAccept runs fn with the flow email after the code was accepted and before
// the flow leaves StageOTPPending. An error from fn is returned as is and
// leaves the flow, its countdown and its code buffer untouched. fn runs under
// the flow lock and must not call back into the flow.
func OnAccept(fn func(email string) error) VerifyOption {
	return func(o *verifyOptions) {
		o.onAccept = fn
	}
}

// verifyLocked must be called with f.mu held; it releases it.
func (f *Flow) verifyLocked(ctx context.Context, code string, opts []VerifyOption) error {
	var o verifyOptions
	for _, opt := range opts {
		opt(&o)
	}


	f.touchLocked()

	if utf8.RuneCountInString(code) != entity.OTPLength {
		f.session.Error = entity.MsgOTPFormat
		evt := f.otpEventLocked()
		f.mu.Unlock()
		f.dispatch(evt)
		return entity.ErrOTPFormat
	}

	ok, err := f.checker.Check(ctx, f.email, code)
	if err != nil {
		f.mu.Unlock()
		return err
	}

	if !ok {
		f.session.Error = entity.MsgOTPMismatch
		evt := f.otpEventLocked()
		f.mu.Unlock()
		f.dispatch(evt)
		return entity.ErrOTPMismatch
	}

	if o.onAccept != nil {
		if err := o.onAccept(f.email); err != nil {
			f.mu.Unlock()
			return err
		}
	}

	f.session.Verified = true
	f.disarmLocked()
	f.session = nil
	f.fields = nil
	f.stage = entity.StageAuthenticated

	events := []entity.Event{f.stageEventLocked(), f.notifyLocked(entity.MsgOTPVerified, entity.SeveritySuccess)}
	f.mu.Unlock()
	f.dispatch(events...)

	return nil
}

// Resend asks the Sender for a new code. It is rejected with
// entity.ErrResendCooldown, changing nothing, while the countdown runs.
func (f *Flow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if err := f.ensureLocked(entity.StageOTPPending); err != nil {
		f.mu.Unlock()
		return err
	}
	if f.sending {
		f.mu.Unlock()
		return entity.ErrSendInProgress
	}
	if !f.session.CanResend() {
		f.mu.Unlock()
		return entity.ErrResendCooldown
	}

	f.sending = true
	email := f.email
	f.mu.Unlock()

	receipt, sendErr := f.sender.Send(ctx, entity.Delivery{FlowID: f.id, Email: email, Resend: true})

	f.mu.Lock()
	f.sending = false
	if f.closed || f.stage != entity.StageOTPPending || f.session == nil {
		f.mu.Unlock()
		return entity.ErrInvalidStage
	}

	if sendErr != nil {
		evt := f.notifyLocked(entity.MsgSendFailed, entity.SeverityError)
		f.mu.Unlock()
		f.dispatch(evt)
		return fmt.Errorf("%w: %w", entity.ErrDeliveryFailure, sendErr)
	}

	f.session.Sent = true
	f.session.Error = ""
	f.session.ResendCooldownSeconds = f.cooldownSeconds
	f.session.SentAt = lo.Ternary(receipt.SentAt.IsZero(), f.clock.Now(), receipt.SentAt)
	f.armLocked()
	f.touchLocked()

	events := []entity.Event{f.cooldownEventLocked(), f.notifyLocked(entity.MsgOTPSent, entity.SeveritySuccess)}
	f.mu.Unlock()
	f.dispatch(events...)

	return nil
}

// ChangeEmail abandons the code step and goes back to StageCredentials with
// the previously entered email kept for editing.
func (f *Flow) ChangeEmail() error {
	f.mu.Lock()
	if err := f.ensureLocked(entity.StageOTPPending); err != nil {
		f.mu.Unlock()
		return err
	}

	f.disarmLocked()
	f.session = nil
	f.fields = nil
	f.stage = entity.StageCredentials
	f.touchLocked()

	evt := f.stageEventLocked()
	f.mu.Unlock()
	f.dispatch(evt)

	return nil
}

// AckNotification marks the current notification as shown.
func (f *Flow) AckNotification(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.notice == nil || f.notice.ID != id {
		return entity.ErrNoticeNotFound
	}
	f.notice.Visible = false

	return nil
}

// Snapshot returns a copy of the current state.
func (f *Flow) Snapshot() entity.FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := entity.FlowState{
		ID:        f.id,
		Stage:     f.stage,
		Email:     f.email,
		Fields:    f.fields.Clone(),
		Sending:   f.sending,
		CreatedAt: f.createdAt,
		UpdatedAt: f.updatedAt,
	}
	if f.session != nil {
		s := *f.session
		st.OTP = &s
	}
	if f.notice != nil {
		n := *f.notice
		st.Notification = &n
	}

	return st
}

// IdleSince reports the time of the last operation.
func (f *Flow) IdleSince() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.updatedAt
}

// Close cancels the countdown. Later operations fail with entity.ErrInvalidStage.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.disarmLocked()
}

func (f *Flow) validate(cred entity.Credentials) (entity.ValidationResult, error) {
	err := f.validator.Validate(cred)
	if err == nil {
		return nil, nil
	}

	var fields interface{ Values() map[string]string }
	if errors.As(err, &fields) {
		return entity.ValidationResult(lo.Assign(fields.Values())), nil
	}

	return nil, err
}

func (f *Flow) ensureLocked(want entity.Stage) error {
	if f.closed || f.stage != want {
		return entity.ErrInvalidStage
	}
	return nil
}

func (f *Flow) touchLocked() {
	f.updatedAt = f.clock.Now()
}

// dispatch hands events to the observer in Seq order. A cooldown event that
// lost the race against a later change is dropped, since the later event
// already carries the current stage and countdown.
func (f *Flow) dispatch(events ...entity.Event) {
	if f.observer == nil {
		return
	}

	f.dispatchMu.Lock()
	defer f.dispatchMu.Unlock()

	for _, evt := range events {
		if evt.Seq < f.lastSeq && evt.Kind == entity.EventCooldown {
			continue
		}
		f.lastSeq = max(f.lastSeq, evt.Seq)
		f.observer(evt)
	}
}

func (f *Flow) nextSeqLocked() uint64 {
	f.eventSeq++
	return f.eventSeq
}

func (f *Flow) notifyLocked(msg string, sev entity.Severity) entity.Event {
	now := f.clock.Now()
	f.notice = &entity.Notification{
		ID:        f.noticeID.Generate(),
		Message:   msg,
		Severity:  sev,
		Visible:   true,
		CreatedAt: now,
		ExpiresAt: now.Add(f.noticeTTL),
	}
	n := *f.notice

	return entity.Event{FlowID: f.id, Seq: f.nextSeqLocked(), Kind: entity.EventNotification, Stage: f.stage, Notification: &n, At: now}
}

func (f *Flow) stageEventLocked() entity.Event {
	evt := entity.Event{FlowID: f.id, Seq: f.nextSeqLocked(), Kind: entity.EventStage, Stage: f.stage, At: f.clock.Now()}
	if f.session != nil {
		evt.CooldownSeconds = f.session.ResendCooldownSeconds
	}
	return evt
}

func (f *Flow) cooldownEventLocked() entity.Event {
	return entity.Event{
		FlowID:          f.id,
		Seq:             f.nextSeqLocked(),
		Kind:            entity.EventCooldown,
		Stage:           f.stage,
		CooldownSeconds: f.session.ResendCooldownSeconds,
		At:              f.clock.Now(),
	}
}

func (f *Flow) otpEventLocked() entity.Event {
	return entity.Event{
		FlowID:          f.id,
		Seq:             f.nextSeqLocked(),
		Kind:            entity.EventOTP,
		Stage:           f.stage,
		CooldownSeconds: f.session.ResendCooldownSeconds,
		OTPError:        f.session.Error,
		At:              f.clock.Now(),
	}
}

type sequence struct {
	n atomic.Int64
}

func (s *sequence) Generate() int64 {
	return s.n.Inc()
}
