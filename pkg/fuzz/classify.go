package fuzz

import (
	"mime"
	"strings"

	"github.com/spaolacci/murmur3"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/fuzzai/fuzzai/pkg/filter"
	"github.com/fuzzai/fuzzai/pkg/httpclient"
)

// Classify derives the filterable attributes of a response. Size and hash
// use the raw bytes; line and word counts use the body decoded with the
// charset from Content-Type.
func Classify(resp *httpclient.Response) filter.Response {
	text := decodeBody(resp.Body, resp.ContentType)
	return filter.Response{
		StatusCode: resp.StatusCode,
		Size:       len(resp.Body),
		Lines:      strings.Count(text, "\n"),
		Words:      len(strings.Fields(text)),
		Elapsed:    resp.Elapsed,
		BodyHash:   bodyHash(resp.Body),
	}
}

// bodyHash goes through the streaming hasher; Sum32 trips checkptr under -race.
func bodyHash(body []byte) uint32 {
	h := murmur3.New32()
	_, _ = h.Write(body)
	return h.Sum32()
}

// decodeBody falls back to the raw bytes when the charset is absent,
// unknown or fails to decode.
func decodeBody(body []byte, contentType string) string {
	if len(body) == 0 || contentType == "" {
		return string(body)
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body)
	}
	charset := strings.ToLower(strings.TrimSpace(params["charset"]))
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return string(body)
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(body)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
