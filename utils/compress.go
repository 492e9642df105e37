package utils

import (
	"bytes"
	"compress/gzip"
	"strings"

	"github.com/andybalholm/brotli"
)

func CompressGzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	if err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func CompressBrotli(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, err := w.Write(data)
	if err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Negotiate compresses data with the best encoding listed in acceptEncoding,
// preferring br over gzip. An empty encoding means data is returned as is.
func Negotiate(acceptEncoding string, data []byte) ([]byte, string, error) {
	if strings.Contains(acceptEncoding, "br") {
		compressed, err := CompressBrotli(data)
		if err == nil {
			return compressed, "br", nil
		}
	}
	if strings.Contains(acceptEncoding, "gzip") {
		compressed, err := CompressGzip(data)
		if err != nil {
			return nil, "", err
		}
		return compressed, "gzip", nil
	}
	return data, "", nil
}
