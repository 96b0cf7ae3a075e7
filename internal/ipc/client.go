package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"time"
)

// Send performs one control roundtrip against a running listener session.
// The deadline covers dial, write, and read.
func Send(ctx context.Context, path string, req Request, timeout time.Duration) (Response, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return Response{}, fmt.Errorf("set deadline: %w", err)
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Response{}, fmt.Errorf("read response: %w", err)
		}
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}

// Status asks the running session for its lifecycle state and dispatch
// counters. Counts is nil when the session did not report any.
func Status(ctx context.Context, path string, timeout time.Duration) (string, *Counts, error) {
	resp, err := Send(ctx, path, Request{Command: "status"}, timeout)
	if err != nil {
		return "", nil, err
	}
	if !resp.OK {
		return resp.State, nil, errors.New(resp.Error)
	}
	return resp.State, resp.Counts, nil
}

// Probe checks whether a responsive session owns the socket at path. Any
// well-formed response counts as alive; a missing socket or refused
// connection does not.
func Probe(ctx context.Context, path string, timeout time.Duration) (bool, error) {
	if _, err := Send(ctx, path, Request{Command: "status"}, timeout); err != nil {
		if isSocketMissing(err) || isConnectionRefused(err) {
			return false, nil
		}
		return false, fmt.Errorf("probe socket: %w", err)
	}
	return true, nil
}

func isSocketMissing(err error) bool {
	return err != nil && errors.Is(err, os.ErrNotExist)
}

func isConnectionRefused(err error) bool {
	return err != nil && errors.Is(err, syscall.ECONNREFUSED)
}
