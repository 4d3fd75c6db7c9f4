package channel

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Error codes sent back in Response.Error.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeUnimplemented   = "UNIMPLEMENTED"
	CodeInternal        = "INTERNAL"
)

// Request is one line of input.
type Request struct {
	ID     int64           `json:"id"`
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// Response is one line of output.
type Response struct {
	ID     int64          `json:"id"`
	Result any            `json:"result,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const maxLine = 1 << 20

var errLineTooLong = fmt.Errorf("request line longer than %d bytes", maxLine)

// input is one request line, or a marker for a line that was dropped for
// exceeding maxLine.
type input struct {
	line    []byte
	tooLong bool
}

// Serve reads newline-delimited JSON requests from r and writes one response
// line per request to w. Lines longer than maxLine are skipped and answered
// with BAD_REQUEST. It returns nil at EOF and ctx.Err() on cancellation.
func Serve(ctx context.Context, r io.Reader, w io.Writer, h *Handler) error {
	lines := make(chan input)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		br := bufio.NewReader(r)
		for {
			line, tooLong, err := readLine(br)
			if len(line) > 0 || tooLong {
				select {
				case lines <- input{line: line, tooLong: tooLong}:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					readErr <- err
				}
				return
			}
		}
	}()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return ctx.Err()
				}
			}
			resp := Response{Error: &ResponseError{Code: CodeBadRequest, Message: errLineTooLong.Error()}}
			if !in.tooLong {
				resp = h.handleLine(in.line)
			}
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("channel: write response: %w", err)
			}
		}
	}
}

// readLine returns the next line without its terminator. A line longer than
// maxLine is consumed up to its newline and reported as tooLong with no data.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		frag, err := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(frag) > maxLine+1 {
				tooLong, line = true, nil
			} else {
				line = append(line, frag...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		line = bytes.TrimSuffix(line, []byte("\n"))
		line = bytes.TrimSuffix(line, []byte("\r"))
		return line, tooLong, err
	}
}

func (h *Handler) handleLine(line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Response{Error: &ResponseError{Code: CodeBadRequest, Message: err.Error()}}
	}
	if req.Method == "" {
		return Response{ID: req.ID, Error: &ResponseError{Code: CodeBadRequest, Message: "missing method"}}
	}
	result, err := h.Call(req.Method, req.Args)
	if err != nil {
		return Response{ID: req.ID, Error: &ResponseError{Code: errorCode(err), Message: err.Error()}}
	}
	return Response{ID: req.ID, Result: result}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotImplemented):
		return CodeUnimplemented
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	}
	return CodeInternal
}
