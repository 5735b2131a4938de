package transport

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestTCP_Dial(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()

	d := &TCP{}
	conn, err := d.Dial(context.Background(), ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	var server net.Conn
	select {
	case server = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted")
	}
	defer server.Close()

	if _, err := conn.Write([]byte("hello\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	server.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(server).ReadString('\n')
	if err != nil {
		t.Fatalf("server read: %v", err)
	}
	if line != "hello\n" {
		t.Errorf("server read %q, want %q", line, "hello\n")
	}
}

func TestTCP_DialRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	d := &TCP{Timeout: time.Second}
	if _, err := d.Dial(context.Background(), addr); err == nil {
		t.Error("Dial to closed port should fail")
	}
}

// mockWSServer creates a test WebSocket server.
func mockWSServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))

	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWebSocket_FramesBecomeLines(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte("PONG"))
		conn.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02}) // skipped
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"NewBlock"}`))
		// Keep the connection open until the client is done.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	d := &WebSocket{}
	conn, err := d.Dial(context.Background(), wsURL(server))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	for _, want := range []string{"PONG\n", `{"type":"NewBlock"}` + "\n"} {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if line != want {
			t.Errorf("read %q, want %q", line, want)
		}
	}
}

func TestWebSocket_LinesBecomeFrames(t *testing.T) {
	received := make(chan string, 2)
	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- string(msg)
		}
	})
	defer server.Close()

	d := &WebSocket{}
	conn, err := d.Dial(context.Background(), wsURL(server))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	// A partial write buffers; the terminator flushes one frame per line.
	if _, err := conn.Write([]byte(`{"subscribe":`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := conn.Write([]byte("[\"NewBlock\"]}\nPING\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, want := range []string{`{"subscribe":["NewBlock"]}`, "PING"} {
		select {
		case got := <-received:
			if got != want {
				t.Errorf("server received %q, want %q", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("server never received %q", want)
		}
	}
}

func TestWebSocket_NormalCloseIsEOF(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
	})
	defer server.Close()

	d := &WebSocket{}
	conn, err := d.Dial(context.Background(), wsURL(server))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	buf := make([]byte, 16)
	if _, err := conn.Read(buf); err == nil {
		t.Fatal("Read after close should fail")
	}
}
