package tool

import (
	"crypto/tls"
	"net/http"
	"time"
)

var (
	DefaultTimeout   = 30 * time.Second
	UploadHttpClient *http.Client
)

func init() {
	UploadHttpClient = NewHTTPClient()
}

// NewHTTPClient creates an HTTP client, skipping self-signed certificate verification in HTTPS mode.
func NewHTTPClient() *http.Client {
	transport := &http.Transport{
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     300 * time.Millisecond,
		DisableKeepAlives:   false,
	}
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}
}

func GetHttpClient() *http.Client {
	return UploadHttpClient
}
