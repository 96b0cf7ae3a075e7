package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// Handler processes one control command for the running session.
type Handler interface {
	Handle(context.Context, Request) Response
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(context.Context, Request) Response

func (f HandlerFunc) Handle(ctx context.Context, req Request) Response {
	return f(ctx, req)
}

// Serve answers control clients on the session socket until the context is
// cancelled or the listener closes. Each connection carries exactly one
// request line and receives one response line.
func Serve(ctx context.Context, listener net.Listener, handler Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var wg sync.WaitGroup

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				wg.Wait()
				return nil
			}
			return fmt.Errorf("accept control connection: %w", err)
		}

		wg.Add(1)
		go func(c net.Conn) {
			defer wg.Done()
			defer c.Close()
			serveConn(ctx, c, handler, logger)
		}(conn)
	}
}

func serveConn(ctx context.Context, conn net.Conn, handler Handler, logger *slog.Logger) {
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		respond(conn, Response{OK: false, Error: fmt.Sprintf("read request: %v", err)})
		return
	}

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		respond(conn, Response{OK: false, Error: fmt.Sprintf("decode request: %v", err)})
		return
	}

	resp := handler.Handle(ctx, req)
	logger.Debug("control command served",
		"command", req.Command,
		"ok", resp.OK,
		"state", resp.State)
	respond(conn, resp)
}

func respond(conn net.Conn, resp Response) {
	_ = json.NewEncoder(conn).Encode(resp)
}
