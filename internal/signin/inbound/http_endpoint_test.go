package inbound

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
	"github.com/shandysiswandi/glintai/internal/pkg/router"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
	"github.com/shandysiswandi/glintai/internal/signin/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flowID = "0190a8f6-8d3c-7cc1-9b0e-0f4c3a2b1d00"

type stubUC struct {
	uc

	submitIn usecase.SubmitInput
	verifyIn usecase.VerifyInput
	ackIn    usecase.AckNotificationInput
	state    *entity.FlowState
	err      error
	events   chan entity.Event
}

func (s *stubUC) StartFlow(context.Context) (*entity.FlowState, error) {
	return s.state, s.err
}

func (s *stubUC) Submit(_ context.Context, in usecase.SubmitInput) (*entity.FlowState, error) {
	s.submitIn = in
	return s.state, s.err
}

func (s *stubUC) Verify(_ context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error) {
	s.verifyIn = in
	if s.err != nil {
		return nil, s.err
	}
	return &usecase.VerifyOutput{Flow: *s.state, AccessToken: "tok", TokenType: "Bearer", RedirectTo: "/dashboard"}, nil
}

func (s *stubUC) AckNotification(_ context.Context, in usecase.AckNotificationInput) error {
	s.ackIn = in
	return s.err
}

func (s *stubUC) StreamFlow(context.Context, usecase.StreamFlowInput) (*entity.FlowState, <-chan entity.Event, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.state, s.events, nil
}

func newRequest(method, target, body string, params ...httprouter.Param) *router.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), httprouter.ParamsKey, httprouter.Params(params))
	return &router.Request{Request: req.WithContext(ctx)}
}

func TestHTTPEndpoint_StartFlow(t *testing.T) {
	st := &entity.FlowState{ID: flowID, Stage: entity.StageCredentials}
	end := &HTTPEndpoint{uc: &stubUC{state: st}}

	resp, err := end.StartFlow(newRequest(http.MethodPost, "/api/v1/signin/flows", ""))

	require.NoError(t, err)
	fr, ok := resp.(FlowResponse)
	require.True(t, ok)
	assert.Equal(t, http.StatusCreated, fr.StatusCode())
	assert.Equal(t, flowID, fr.ID)
}

func TestHTTPEndpoint_Submit(t *testing.T) {
	stub := &stubUC{state: &entity.FlowState{
		ID:    flowID,
		Stage: entity.StageOTPPending,
		OTP:   &entity.OTPSession{Sent: true, ResendCooldownSeconds: 30},
	}}
	end := &HTTPEndpoint{uc: stub}

	req := newRequest(http.MethodPost, "/submit", `{"email":"a@b.com","password":"Abcdef1!"}`, httprouter.Param{Key: "id", Value: flowID})
	req.Header.Set(headerIdempotencyKey, "k-1")

	resp, err := end.Submit(req)

	require.NoError(t, err)
	assert.Equal(t, usecase.SubmitInput{FlowID: flowID, IdempotencyKey: "k-1", Email: "a@b.com", Password: "Abcdef1!"}, stub.submitIn)
	fr := resp.(FlowResponse)
	require.NotNil(t, fr.OTP)
	assert.False(t, fr.OTP.CanResend)
	assert.Equal(t, 30, fr.OTP.ResendCooldownSeconds)
}

func TestHTTPEndpoint_Submit_BadBody(t *testing.T) {
	end := &HTTPEndpoint{uc: &stubUC{}}

	_, err := end.Submit(newRequest(http.MethodPost, "/submit", `{"email":`, httprouter.Param{Key: "id", Value: flowID}))

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeInvalidFormat, gerr.Code())
}

func TestHTTPEndpoint_Verify(t *testing.T) {
	st := &entity.FlowState{ID: flowID, Stage: entity.StageAuthenticated}

	t.Run("WithCode", func(t *testing.T) {
		stub := &stubUC{state: st}
		end := &HTTPEndpoint{uc: stub}

		resp, err := end.Verify(newRequest(http.MethodPost, "/verify", `{"code":"123456"}`, httprouter.Param{Key: "id", Value: flowID}))

		require.NoError(t, err)
		require.NotNil(t, stub.verifyIn.Code)
		assert.Equal(t, "123456", *stub.verifyIn.Code)
		vr := resp.(VerifyResponse)
		assert.Equal(t, "/dashboard", vr.RedirectTo)
		assert.Equal(t, entity.MsgOTPVerified, vr.Message())
	})

	t.Run("EmptyBody", func(t *testing.T) {
		stub := &stubUC{state: st}
		end := &HTTPEndpoint{uc: stub}

		_, err := end.Verify(newRequest(http.MethodPost, "/verify", "", httprouter.Param{Key: "id", Value: flowID}))

		require.NoError(t, err)
		assert.Nil(t, stub.verifyIn.Code)
	})
}

func TestHTTPEndpoint_AckNotification(t *testing.T) {
	stub := &stubUC{}
	end := &HTTPEndpoint{uc: stub}

	resp, err := end.AckNotification(newRequest(http.MethodPost, "/ack", "",
		httprouter.Param{Key: "id", Value: flowID},
		httprouter.Param{Key: "nid", Value: "42"},
	))

	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, int64(42), stub.ackIn.NotificationID)

	_, err = end.AckNotification(newRequest(http.MethodPost, "/ack", "",
		httprouter.Param{Key: "id", Value: flowID},
		httprouter.Param{Key: "nid", Value: "x"},
	))
	assert.Error(t, err)
}

func TestSSEEndpoint_StreamFlow(t *testing.T) {
	events := make(chan entity.Event, 2)
	stub := &stubUC{state: &entity.FlowState{ID: flowID, Stage: entity.StageOTPPending}, events: events}
	end := &SSEEndpoint{uc: stub, heartbeat: time.Hour}

	events <- entity.Event{FlowID: flowID, Kind: entity.EventCooldown, Stage: entity.StageOTPPending, CooldownSeconds: 29}
	close(events)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/signin/flows/"+flowID+"/events", nil)
	req = req.WithContext(context.WithValue(req.Context(), httprouter.ParamsKey, httprouter.Params{{Key: "id", Value: flowID}}))
	rec := httptest.NewRecorder()

	end.StreamFlow(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	var names []string
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		if name, ok := strings.CutPrefix(sc.Text(), "event: "); ok {
			names = append(names, name)
		}
	}
	assert.Equal(t, []string{"flow", "cooldown", "closed"}, names)
	assert.Contains(t, body, `"cooldown_seconds":29`)
}

func TestSSEEndpoint_StreamFlow_NotFound(t *testing.T) {
	stub := &stubUC{err: goerror.NewBusiness("Sign-in flow not found", goerror.CodeNotFound)}
	end := &SSEEndpoint{uc: stub, heartbeat: time.Hour}

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()

	end.StreamFlow(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
