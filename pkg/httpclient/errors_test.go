package httpclient

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{ErrTimeout, ErrConnection, ErrProxyConnect, ErrDNS, ErrTLS, ErrInvalidRequest, ErrTransport}
	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.False(t, errors.Is(sentinels[i], sentinels[j]), "sentinel %d and %d must be distinct", i, j)
		}
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"deadline", fmt.Errorf("Get: %w", context.DeadlineExceeded), KindTimeout},
		{"net timeout", timeoutErr{}, KindTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "nope.invalid"}, KindDNS},
		{"tls", x509.UnknownAuthorityError{}, KindTLS},
		{"proxy", &net.OpError{Op: "proxyconnect", Net: "tcp", Err: errors.New("refused")}, KindProxy},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, KindConnection},
		{"eof", fmt.Errorf("read: %w", io.ErrUnexpectedEOF), KindConnection},
		{"other", errors.New("something odd"), KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestTransportError_Is(t *testing.T) {
	cause := &net.DNSError{Err: "no such host", Name: "x.invalid"}
	err := newTransportError("http://x.invalid/", cause)

	assert.Equal(t, KindDNS, err.Kind)
	assert.ErrorIs(t, err, ErrDNS)
	assert.NotErrorIs(t, err, ErrTimeout)

	var dnsErr *net.DNSError
	assert.ErrorAs(t, err, &dnsErr)
	assert.Contains(t, err.Error(), "http://x.invalid/")
	assert.Equal(t, KindDNS, Classify(fmt.Errorf("wrapped: %w", err)))
}
