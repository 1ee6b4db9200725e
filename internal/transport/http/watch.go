package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Muhammaduzair321/ip-checker/internal/gate"
	"github.com/Muhammaduzair321/ip-checker/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

type watchMessage struct {
	Hosts []string `json:"hosts"`
}

// watchHandler streams the host list: once on connect, then after every
// accepted host.
func watchHandler(svc *gate.Service, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Debug("websocket upgrade failed", "err", err)
			return
		}
		defer conn.Close()

		updates, cancel := svc.Subscribe()
		defer cancel()

		// The reader only exists to notice the peer going away.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		send := func(hosts []string) error {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteJSON(watchMessage{Hosts: hosts})
		}

		if err := send(svc.Recent()); err != nil {
			return
		}

		ping := time.NewTicker(pingPeriod)
		defer ping.Stop()

		for {
			select {
			case <-closed:
				return
			case <-c.Request.Context().Done():
				return
			case hosts, ok := <-updates:
				if !ok {
					return
				}
				if err := send(hosts); err != nil {
					return
				}
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}
}
