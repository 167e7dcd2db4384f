// Package discovery provides the neighbour list for a node. The ledger only
// depends on the Provider interface so the scanning strategy can be swapped.
package discovery

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider returns the current list of reachable neighbour addresses.
type Provider interface {
	Find(ctx context.Context) ([]string, error)
}

// =============================================================================

// Static always returns the configured hosts.
type Static struct {
	Hosts []string
}

// Find implements the Provider interface.
func (s Static) Find(ctx context.Context) ([]string, error) {
	hosts := make([]string, len(s.Hosts))
	copy(hosts, s.Hosts)
	return hosts, nil
}

// =============================================================================

// Scanner probes a small range of neighbouring IP addresses and ports and
// reports the ones accepting TCP connections.
type Scanner struct {
	Host           string        // IPv4 address of this node.
	Port           int           // Port this node listens on.
	IPRangeStart   int           // First offset added to the last octet.
	IPRangeEnd     int           // Offset added to the last octet, exclusive.
	PortRangeStart int           // First port probed.
	PortRangeEnd   int           // Last port probed, exclusive.
	DialTimeout    time.Duration // Time allowed per probe.
	EvHandler      func(v string, args ...any)
}

// Find implements the Provider interface.
func (s Scanner) Find(ctx context.Context) ([]string, error) {
	prefix, last, err := splitIPv4(s.Host)
	if err != nil {
		return nil, err
	}

	self := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))

	var neighbours []string
	for port := s.PortRangeStart; port < s.PortRangeEnd; port++ {
		for offset := s.IPRangeStart; offset < s.IPRangeEnd; offset++ {
			if ctx.Err() != nil {
				return neighbours, ctx.Err()
			}

			address := net.JoinHostPort(fmt.Sprintf("%s%d", prefix, last+offset), strconv.Itoa(port))
			if address == self {
				continue
			}

			if s.isReachable(ctx, address) {
				neighbours = append(neighbours, address)
			}
		}
	}

	return neighbours, nil
}

// isReachable attempts a TCP connection to the address.
func (s Scanner) isReachable(ctx context.Context, address string) bool {
	d := net.Dialer{Timeout: s.DialTimeout}

	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		if s.EvHandler != nil {
			s.EvHandler("discovery: isReachable: %s: %s", address, err)
		}
		return false
	}
	conn.Close()

	return true
}

// splitIPv4 breaks an IPv4 address into the "a.b.c." prefix and the
// last octet.
func splitIPv4(host string) (string, int, error) {
	ip := net.ParseIP(host)
	if ip == nil || ip.To4() == nil {
		return "", 0, fmt.Errorf("host %q is not an IPv4 address", host)
	}

	s := ip.To4().String()
	idx := strings.LastIndex(s, ".")

	last, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return "", 0, err
	}

	return s[:idx+1], last, nil
}

// =============================================================================

// LocalHost returns the IPv4 address this machine's hostname resolves to,
// falling back to the loopback address.
func LocalHost() string {
	name, err := os.Hostname()
	if err != nil {
		return "127.0.0.1"
	}

	addrs, err := net.LookupHost(name)
	if err != nil {
		return "127.0.0.1"
	}

	for _, addr := range addrs {
		if ip := net.ParseIP(addr); ip != nil && ip.To4() != nil {
			return addr
		}
	}

	return "127.0.0.1"
}
