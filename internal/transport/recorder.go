package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/petasbytes/nanocode/internal/telemetry"
)

// Recorder wraps an http.RoundTripper and, while payload persistence is
// enabled, writes each request and response body under
// <artifacts>/payloads/. Headers are never written, so credentials stay out.
type Recorder struct {
	Base http.RoundTripper
	seq  atomic.Int64
}

// NewClient returns an http.Client whose transport records payloads.
func NewClient() *http.Client {
	return &http.Client{Transport: &Recorder{}}
}

func (r *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	base := r.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if !telemetry.PersistPayloadsEnabled() {
		return base.RoundTrip(req)
	}

	turnID, ok := telemetry.TurnIDFromContext(req.Context())
	if !ok {
		turnID = "no-turn"
	}
	prefix := fmt.Sprintf("%s-%03d", turnID, r.seq.Add(1))

	if req.Body != nil && req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			b, _ := io.ReadAll(body)
			_ = body.Close()
			writePayload(prefix+"-request.json", b)
		}
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	b, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(b))
	writePayload(prefix+"-response.json", b)
	return resp, nil
}

func writePayload(name string, b []byte) {
	dir := filepath.Join(telemetry.ArtifactsDir(), "payloads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "transport: mkdir %s: %v\n", dir, err)
		return
	}
	if err := os.WriteFile(filepath.Join(dir, name), b, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "transport: write %s: %v\n", name, err)
	}
}
