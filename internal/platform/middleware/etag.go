package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// bufferedWriter holds the response until the ETag is known.
type bufferedWriter struct {
	writer http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *bufferedWriter) Header() http.Header         { return w.writer.Header() }
func (w *bufferedWriter) Write(b []byte) (int, error) { return w.buf.Write(b) }
func (w *bufferedWriter) WriteHeader(code int)        { w.status = code }

func (w *bufferedWriter) flush() error {
	w.writer.WriteHeader(w.status)
	if w.buf.Len() == 0 {
		return nil
	}
	_, err := w.writer.Write(w.buf.Bytes())
	return err
}

// ETag tags successful GET responses with a weak validator over the body
// and answers a matching If-None-Match with 304. Views are recomputed on
// every request, so responses are marked for revalidation rather than
// cached for a fixed time.
func ETag() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet {
				return next(c)
			}

			res := c.Response()
			orig := res.Writer
			buf := &bufferedWriter{writer: orig, status: http.StatusOK}
			res.Writer = buf
			err := next(c)
			res.Writer = orig
			if err != nil {
				return err
			}

			if buf.status != http.StatusOK {
				return buf.flush()
			}

			tag := computeETag(buf.buf.Bytes())
			h := res.Header()
			h.Set("ETag", tag)
			h.Set("Cache-Control", "no-cache")

			if inm := req.Header.Get("If-None-Match"); inm != "" && etagMatch(inm, tag) {
				h.Del("Content-Type")
				h.Del("Content-Length")
				orig.WriteHeader(http.StatusNotModified)
				// The handler already committed a 200; record what was sent.
				res.Status = http.StatusNotModified
				res.Size = 0
				return nil
			}
			return buf.flush()
		}
	}
}

func computeETag(body []byte) string {
	sum := sha256.Sum256(body)
	return `W/"` + hex.EncodeToString(sum[:16]) + `"`
}

// etagMatch reports whether an If-None-Match value names tag, using weak
// comparison. "*" matches anything.
func etagMatch(header, tag string) bool {
	if strings.TrimSpace(header) == "*" {
		return true
	}
	want := strings.TrimPrefix(tag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		if strings.TrimPrefix(strings.TrimSpace(candidate), "W/") == want {
			return true
		}
	}
	return false
}
