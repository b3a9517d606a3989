package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/base/delivery"
	"github.com/x-xyz/goguard/base/lock"
	"github.com/x-xyz/goguard/base/log"
	"github.com/x-xyz/goguard/domain/counter"
	"github.com/x-xyz/goguard/domain/counter/mocks"
	"github.com/x-xyz/goguard/stores/counter/usecase"
)

type handlerSuite struct {
	suite.Suite
	e   *echo.Echo
	svc counter.Usecase
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	log.Use(zap.NewNop())

	svc, err := usecase.New(ctx.Background(), &usecase.Config{Initial: 5, Mode: lock.ModeAtomic})
	s.Require().NoError(err)
	s.svc = svc
	s.e = echo.New()
	New(s.e, svc)
}

type body struct {
	Data   json.RawMessage             `json:"data"`
	Status delivery.JsonResponseStatus `json:"status"`
}

func (s *handlerSuite) do(method, path string) (int, body) {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var b body
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &b))
	return rec.Code, b
}

func (s *handlerSuite) counterResp(b body) CounterResponse {
	var r CounterResponse
	s.Require().NoError(json.Unmarshal(b.Data, &r))
	return r
}

func (s *handlerSuite) TestDescribe() {
	code, b := s.do(http.MethodGet, "/counter")
	s.Equal(http.StatusOK, code)
	s.Equal(delivery.JsonResponseStatusSuccess, b.Status)

	r := s.counterResp(b)
	s.Equal(s.svc.Ref().ID(), r.ID)
	s.Equal(int64(5), r.Value)
}

func (s *handlerSuite) TestDecrement() {
	id := s.svc.Ref().ID()

	code, b := s.do(http.MethodPost, "/counter/"+id+"/decrement")
	s.Equal(http.StatusOK, code)
	s.Equal(int64(4), s.counterResp(b).Value)

	code, b = s.do(http.MethodGet, "/counter/"+id)
	s.Equal(http.StatusOK, code)
	s.Equal(int64(4), s.counterResp(b).Value)
}

func (s *handlerSuite) TestUnknownID() {
	code, b := s.do(http.MethodPost, "/counter/not-a-counter/decrement")
	s.Equal(http.StatusBadRequest, code)
	s.Equal(delivery.JsonResponseStatusFail, b.Status)

	code, _ = s.do(http.MethodGet, "/counter/not-a-counter")
	s.Equal(http.StatusBadRequest, code)

	v, err := s.svc.Load(ctx.Background(), s.svc.Ref())
	s.NoError(err)
	s.Equal(int64(5), v)
}

func (s *handlerSuite) TestUsecaseFailure() {
	ref := counter.NewRef("c-1")
	m := mocks.NewUsecase(s.T())
	m.On("Ref").Return(ref)
	m.On("Load", mock.Anything, ref).Return(int64(0), errors.New("boom"))

	e := echo.New()
	New(e, m)

	req := httptest.NewRequest(http.MethodGet, "/counter", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	s.Equal(http.StatusInternalServerError, rec.Code)
}
