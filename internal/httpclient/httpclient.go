package httpclient

import (
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// NewHTTPClient builds the hardened client both external adapters share.
// The overall timeout is per-adapter: short for balance reads, longer for
// transfer submission.
func NewHTTPClient(timeout time.Duration) (http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: timeout,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return http.Client{}, err
	}

	return http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}
