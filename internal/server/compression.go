package server

import (
	"compress/gzip"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// compressionMiddleware compresses response bodies according to the
// request's Accept-Encoding header. Base64 JSON payloads shrink well, so the
// full download response benefits. Preference order: zstd, brotli, gzip.
func compressionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoding := negotiateEncoding(r.Header.Get("Accept-Encoding"))
		if encoding == "" {
			next.ServeHTTP(w, r)
			return
		}

		var compressor io.WriteCloser
		switch encoding {
		case "zstd":
			zw, err := zstd.NewWriter(w)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			compressor = zw
		case "br":
			compressor = brotli.NewWriter(w)
		case "gzip":
			compressor = gzip.NewWriter(w)
		}
		defer compressor.Close()

		w.Header().Set("Content-Encoding", encoding)
		w.Header().Add("Vary", "Accept-Encoding")
		// Length of the compressed stream is unknown up front.
		w.Header().Del("Content-Length")

		next.ServeHTTP(&compressedResponseWriter{ResponseWriter: w, writer: compressor}, r)
	})
}

// negotiateEncoding picks the strongest supported encoding the client
// accepts, or "" when the response should stay uncompressed. A quality of
// zero means the client refuses that coding.
func negotiateEncoding(acceptEncoding string) string {
	accepted := make(map[string]bool)
	for _, token := range strings.Split(acceptEncoding, ",") {
		name := strings.TrimSpace(token)
		q := 1.0
		if idx := strings.IndexByte(name, ';'); idx >= 0 {
			for _, param := range strings.Split(name[idx+1:], ";") {
				param = strings.ToLower(strings.TrimSpace(param))
				if value, ok := strings.CutPrefix(param, "q="); ok {
					if parsed, err := strconv.ParseFloat(value, 64); err == nil {
						q = parsed
					}
				}
			}
			name = strings.TrimSpace(name[:idx])
		}
		if name != "" && q > 0 {
			accepted[strings.ToLower(name)] = true
		}
	}

	for _, candidate := range []string{"zstd", "br", "gzip"} {
		if accepted[candidate] {
			return candidate
		}
	}
	return ""
}

// compressedResponseWriter routes body bytes through the negotiated
// compressor while headers and status pass through untouched.
type compressedResponseWriter struct {
	http.ResponseWriter
	writer io.Writer
}

func (w *compressedResponseWriter) Write(b []byte) (int, error) {
	return w.writer.Write(b)
}
