package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 64
)

// client is one connection. Every write goes through writeLoop.
type client struct {
	conn *websocket.Conn
	id   string

	send chan *Message
	done chan struct{}
	once sync.Once
}

func newClient(conn *websocket.Conn, id string) *client {
	return &client{
		conn: conn,
		id:   id,
		send: make(chan *Message, sendBuffer),
		done: make(chan struct{}),
	}
}

// push queues a message without blocking, reporting false when it was dropped.
func (that *client) push(message *Message) bool {
	select {
	case <-that.done:
		return false
	default:
	}

	select {
	case that.send <- message:
		return true
	default:
		return false
	}
}

// reply queues a response, waiting for room unless the connection is gone.
func (that *client) reply(message *Message) {
	select {
	case that.send <- message:
	case <-that.done:
	}
}

func (that *client) close() {
	that.once.Do(func() {
		close(that.done)
		_ = that.conn.Close()
	})
}

func (that *client) writeLoop(logger *slog.Logger) {
	log := logger.With("method", "writeLoop")

	defer that.close()

	for {
		select {
		case <-that.done:
			return
		case message := <-that.send:
			if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error("failed to set write deadline", "error", err)
				return
			}

			if err := that.conn.WriteJSON(message); err != nil {
				log.Error("failed to write message", "error", err)
				return
			}
		}
	}
}
