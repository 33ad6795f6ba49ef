package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"callwatch/internal/auth"
	"callwatch/internal/config"
	"callwatch/internal/model"
	"callwatch/internal/state"
	"callwatch/internal/stream"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// CallView is the read/subscribe slice of the synchronizer the
// dashboard needs.
type CallView interface {
	Calls() []model.Call
	ConnState() stream.ConnState
	Updates() state.Subscriber
	ReleaseUpdates(state.Subscriber)
}

// Dashboard streams the synchronized call view to browser clients:
// one snapshot frame on connect, then every store mutation as it
// happens.
func Dashboard(sync CallView, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		// =======================
		// AUTH
		// =======================
		// browsers pass the JWT as a query param; other clients can
		// send a standard Authorization header instead
		var authCtx *auth.AuthContext
		var err error
		if token := r.URL.Query().Get("token"); token != "" {
			authCtx, err = auth.ParseToken(token, cfg.JWT.Secret)
		} else {
			authCtx, err = auth.ParseTokenFromRequest(r, cfg.JWT.Secret)
		}
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		// =======================
		// WS UPGRADE
		// =======================
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		log.Println("ws: dashboard connect", authCtx.Username, "role:", authCtx.Role)

		// =======================
		// SUBSCRIBE + SNAPSHOT
		// =======================
		// subscribe first so no update slips between the snapshot
		// and the live feed
		sub := sync.Updates()
		defer sync.ReleaseUpdates(sub)

		conn.WriteJSON(map[string]any{
			"type": "snapshot",
			"data": map[string]any{
				"calls":           sync.Calls(),
				"connectionState": sync.ConnState().String(),
			},
		})

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		// =======================
		// LOOP
		// =======================
		for {
			select {
			case u, ok := <-sub:
				if !ok {
					return
				}
				if err := conn.WriteJSON(map[string]any{
					"type": u.Type,
					"call": u.Call,
				}); err != nil {
					return
				}

			case <-done:
				log.Println("ws: dashboard disconnect", authCtx.Username)
				return
			}
		}
	}
}
