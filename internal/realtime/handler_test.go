package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/sharebox/internal/features/auth"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

type tokenAuth map[string]*auth.User

func (m tokenAuth) Authenticate(_ context.Context, token string) (*auth.User, error) {
	if u, ok := m[token]; ok {
		return u, nil
	}
	return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid token")
}

func TestWebsocketReceivesEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	user := &auth.User{ID: primitive.NewObjectID(), UserType: auth.UserTypeReceiver}
	h := NewHandler(hub, tokenAuth{"good": user}, []string{"*"})

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), h)
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/realtime"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=bad", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL+"?token=good&tables=users", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token=good&tables=donations", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	ev, err := NewEvent(TableDonations, EventDelete, "d42", nil)
	require.NoError(t, err)
	require.NoError(t, hub.Publish(context.Background(), ev))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, EventDelete, got.Type)
	require.Equal(t, "d42", got.ID)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
