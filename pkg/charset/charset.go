package charset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// detectSampleSize bounds how many bytes the detector inspects.
const detectSampleSize = 8192

// DetectFile reports the probable charset of the file at path. The
// name is lowercased ("utf-8", "windows-1252", ...). Empty files
// report "utf-8".
func DetectFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for detection: %w", err)
	}
	defer f.Close()

	sample := make([]byte, detectSampleSize)
	n, err := f.Read(sample)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read detection sample: %w", err)
	}
	return detect(sample[:n]), nil
}

func detect(sample []byte) string {
	if len(sample) == 0 {
		return "utf-8"
	}
	det, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || det == nil {
		return "utf-8"
	}
	return strings.ToLower(det.Charset)
}

// decoderFor maps a detected charset name to an x/text decoder.
// Unknown charsets return nil and are passed through as raw bytes.
func decoderFor(name string) *encoding.Decoder {
	switch name {
	case "utf-8", "utf8", "ascii", "us-ascii":
		return nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder()
	case "iso-8859-15":
		return charmap.ISO8859_15.NewDecoder()
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder()
	case "windows-1251", "cp1251":
		return charmap.Windows1251.NewDecoder()
	default:
		return nil
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

// NewReader opens the file at path, detects its encoding from a
// peeked sample and returns a reader that yields UTF-8 text. A UTF-8
// byte order mark is stripped so the first CSV header keeps its
// literal name.
func NewReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	sample, _ := br.Peek(detectSampleSize)
	cs := detect(sample)

	var r io.Reader = br
	if dec := decoderFor(cs); dec != nil {
		r = transform.NewReader(br, dec)
	} else {
		// BOM strip only applies to the UTF-8 passthrough path; the
		// UTF-16 decoders consume their BOM themselves.
		if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
			br.Discard(3)
		}
	}

	return &readCloser{Reader: r, Closer: f}, nil
}
