package gatewayproxy

import (
	"io"
	"net/http"

	"go.uber.org/zap"
)

// streamChunkCapacity bounds the handoff channel between the upstream byte
// stream and the client response body: neither side buffers unboundedly.
const streamChunkCapacity = 16

const readChunkSize = 32 * 1024

// pumpUpstream copies body to w through a bounded handoff channel,
// regardless of whether the original request declared stream. Frames are
// forwarded in source order with no reordering or merging. When the client
// disconnects (a write to w fails), the upstream reader goroutine is told
// to stop and the upstream connection is abandoned for this request. When
// upstream read fails mid-stream, already-delivered bytes remain valid and
// the response simply ends.
func pumpUpstream(w http.ResponseWriter, body io.ReadCloser, logger *zap.Logger) {
	defer body.Close()

	flusher, _ := w.(http.Flusher)
	chunks := make(chan []byte, streamChunkCapacity)
	done := make(chan struct{})

	go func() {
		defer close(chunks)
		buf := make([]byte, readChunkSize)
		for {
			n, err := body.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case chunks <- chunk:
				case <-done:
					return
				}
			}
			if err != nil {
				if err != io.EOF && logger != nil {
					logger.Warn("upstream stream ended with error", zap.Error(err))
				}
				return
			}
		}
	}()

	for chunk := range chunks {
		if _, err := w.Write(chunk); err != nil {
			close(done)
			if logger != nil {
				logger.Debug("client disconnected mid-stream", zap.Error(err))
			}
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}
