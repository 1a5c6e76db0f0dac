package host

import "github.com/gorilla/websocket"

// Wire is one message-oriented connection to the editor host. The production
// wire is a websocket; tests substitute an in-memory implementation.
type Wire interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

type wsWire struct {
	conn *websocket.Conn
}

// Dial connects to the host's websocket endpoint.
func Dial(url string) (Wire, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return &wsWire{conn: conn}, nil
}

func (w *wsWire) ReadMessage() ([]byte, error) {
	_, data, err := w.conn.ReadMessage()
	return data, err
}

func (w *wsWire) WriteMessage(data []byte) error {
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *wsWire) Close() error { return w.conn.Close() }
