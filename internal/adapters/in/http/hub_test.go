package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/core/domain/model/order"

	"github.com/gorilla/websocket"
)

func (s *ServerTestSuite) TestWebSocket_ReceivesOrderEvents() {
	srv := httptest.NewServer(s.e)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	s.Require().NoError(err)
	defer conn.Close()
	s.Require().Eventually(func() bool { return s.hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	rec := s.do(http.MethodPost, "/api/orders", `{"items":[{"productId":7,"qty":1}],"customerRef":"walk-in"}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, body, err := conn.ReadMessage()
	s.Require().NoError(err)

	var msg notify.Message
	s.Require().NoError(json.Unmarshal(body, &msg))
	s.Equal(string(order.EventNewOrder), msg.Type)
	s.Equal("walk-in", msg.Order.CustomerRef)
	s.Equal(order.ChannelWeb, msg.Order.Channel)
}

func (s *ServerTestSuite) TestWebSocket_ClientLeaves() {
	srv := httptest.NewServer(s.e)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	s.Require().NoError(err)
	s.Require().Eventually(func() bool { return s.hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	s.Require().NoError(conn.Close())

	s.Eventually(func() bool { return s.hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}
