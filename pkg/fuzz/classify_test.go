package fuzz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fuzzai/fuzzai/pkg/httpclient"
	"github.com/fuzzai/fuzzai/pkg/testutil"
)

func TestClassify(t *testing.T) {
	body := []byte("<html>\n  <p>hello  world</p>\n</html>")
	got := Classify(&httpclient.Response{
		StatusCode:  200,
		Body:        body,
		ContentType: "text/html; charset=utf-8",
		Elapsed:     5 * time.Millisecond,
	})

	assert.Equal(t, 200, got.StatusCode)
	assert.Equal(t, len(body), got.Size)
	assert.Equal(t, 2, got.Lines)
	assert.Equal(t, 4, got.Words)
	assert.Equal(t, 5*time.Millisecond, got.Elapsed)
	assert.NotZero(t, got.BodyHash)
}

func TestClassify_BodyHash(t *testing.T) {
	// Capacity beyond length, as with a body read into a pooled buffer.
	body := make([]byte, 0, 64)
	body = append(body, "hello"...)

	got := Classify(&httpclient.Response{StatusCode: 200, Body: body})
	assert.Equal(t, uint32(0x248bfa47), got.BodyHash)

	same := Classify(&httpclient.Response{StatusCode: 200, Body: []byte("hello")})
	assert.Equal(t, got.BodyHash, same.BodyHash)

	other := Classify(&httpclient.Response{StatusCode: 200, Body: []byte("admin panel")})
	assert.Equal(t, uint32(0xb99f0142), other.BodyHash)
}

func TestClassify_ConcurrentHashing(t *testing.T) {
	bodies := [][]byte{[]byte("a"), []byte("abcd"), []byte("abcdefg"), make([]byte, 3, 100)}
	testutil.RunConcurrently(16, func(i int) {
		b := bodies[i%len(bodies)]
		want := bodyHash(append([]byte(nil), b...))
		assert.Equal(t, want, Classify(&httpclient.Response{StatusCode: 200, Body: b}).BodyHash)
	})
}

func TestClassify_EmptyBody(t *testing.T) {
	got := Classify(&httpclient.Response{StatusCode: 204})
	assert.Zero(t, got.Size)
	assert.Zero(t, got.Lines)
	assert.Zero(t, got.Words)
}

func TestClassify_NoTrailingNewline(t *testing.T) {
	got := Classify(&httpclient.Response{StatusCode: 200, Body: []byte("one line")})
	assert.Equal(t, 0, got.Lines)
	assert.Equal(t, 2, got.Words)
}

func TestDecodeBody_Charset(t *testing.T) {
	// "café" in ISO-8859-1; the size stays the raw byte count.
	raw := []byte{'c', 'a', 'f', 0xe9}
	assert.Equal(t, "café", decodeBody(raw, "text/plain; charset=ISO-8859-1"))
	assert.Equal(t, string(raw), decodeBody(raw, "text/plain; charset=bogus"))
	assert.Equal(t, string(raw), decodeBody(raw, "not a media type;;"))
	assert.Equal(t, string(raw), decodeBody(raw, ""))

	got := Classify(&httpclient.Response{Body: raw, ContentType: "text/plain; charset=latin1"})
	assert.Equal(t, 4, got.Size)
	assert.Equal(t, 1, got.Words)
}
