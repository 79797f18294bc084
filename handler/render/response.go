package render

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Response internal error msg as hint
var ResponseErrorMessageAsHint bool

func init() {
	v := os.Getenv("RESPONSE_ERROR_MESSAGE_AS_HINT")
	ResponseErrorMessageAsHint, _ = strconv.ParseBool(v)
}

type wrapResponse struct {
	status int
	header http.Header
	buf    *bytes.Buffer
}

func (w *wrapResponse) Header() http.Header {
	return w.header
}

func (w *wrapResponse) WriteHeader(statusCode int) {
	w.status = statusCode
}

func (w *wrapResponse) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

func (w *wrapResponse) isJsonContent() bool {
	typ := w.header.Get("Content-Type")
	return strings.HasPrefix(typ, "application/json")
}

type dataResponse struct {
	Data json.RawMessage `json:"data,omitempty"`
}

type errorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Hint string `json:"hint,omitempty"`
}

// WrapResponse json envelope middleware. Successful payloads go out
// under "data"; error payloads keep their code, and the raw message
// moves to "hint" unless ResponseErrorMessageAsHint says otherwise.
func WrapResponse(wrapData bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrap := &wrapResponse{
				status: http.StatusOK,
				header: w.Header(),
				buf:    &bytes.Buffer{},
			}
			next.ServeHTTP(wrap, r)

			body := wrap.buf.Bytes()
			if !wrap.isJsonContent() {
				w.WriteHeader(wrap.status)
				_, _ = w.Write(body)
				return
			}

			if wrap.status < http.StatusBadRequest {
				if wrapData {
					body, _ = json.Marshal(dataResponse{Data: body})
				}
				w.WriteHeader(wrap.status)
				_, _ = w.Write(body)
				return
			}

			var e errorResponse
			_ = json.Unmarshal(body, &e)
			if e.Msg == "" {
				e.Msg = http.StatusText(wrap.status)
			}

			if ResponseErrorMessageAsHint {
				e.Hint = e.Msg
				e.Msg = http.StatusText(wrap.status)
			}

			body, _ = json.Marshal(e)
			w.WriteHeader(wrap.status)
			_, _ = w.Write(body)
		})
	}
}
