package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteY4M writes a tiny 16x16 4:2:0 YUV4MPEG2 stream with the requested
// number of grey frames. A count <= 0 writes a single frame.
func WriteY4M(t testing.TB, path string, frames int) {
	t.Helper()

	if frames <= 0 {
		frames = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	const width, height = 16, 16
	plane := width*height + 2*(width/2)*(height/2)
	var buf bytes.Buffer
	buf.WriteString("YUV4MPEG2 W16 H16 F25:1 Ip A1:1 C420jpeg\n")
	frame := bytes.Repeat([]byte{0x80}, plane)
	for range frames {
		buf.WriteString("FRAME\n")
		buf.Write(frame)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
