package tool

import (
	"net/url"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// QuickICMPProbe sends a single unprivileged ICMP echo to host and reports
// whether a reply arrived before timeout. Used only as a reachability hint;
// callers must not treat a failed probe as fatal (ICMP is often filtered).
func QuickICMPProbe(host string, timeout time.Duration) bool {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return false
	}
	pinger.Count = 1
	pinger.Timeout = timeout
	pinger.SetPrivileged(false)
	if err := pinger.Run(); err != nil {
		return false
	}
	return pinger.Statistics().PacketsRecv > 0
}

// EndpointHost extracts the hostname of an upload endpoint URL.
func EndpointHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
