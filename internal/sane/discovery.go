package sane

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/grandcat/zeroconf"
)

// mDNS service type Avahi advertises for saned.
const mdnsService = "_sane-port._tcp"

// Server is a saned endpoint found on the local network.
type Server struct {
	Name string
	Host string
	Port int
}

// Addr returns the host:port to dial.
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DiscoverOptions configures server discovery.
type DiscoverOptions struct {
	Timeout time.Duration // how long to browse; default 5s
	Domain  string        // mDNS domain; default "local."
}

// Discover browses mDNS for saned servers until the timeout elapses and
// returns every endpoint seen.
func Discover(ctx context.Context, opts DiscoverOptions) ([]Server, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Domain == "" {
		opts.Domain = "local."
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("mdns resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(ctx, mdnsService, opts.Domain, entries); err != nil {
		return nil, fmt.Errorf("mdns browse: %w", err)
	}

	var servers []Server
	for entry := range entries {
		srv := Server{Name: entry.Instance, Port: entry.Port}
		switch {
		case len(entry.AddrIPv4) > 0:
			srv.Host = entry.AddrIPv4[0].String()
		case len(entry.AddrIPv6) > 0:
			srv.Host = entry.AddrIPv6[0].String()
		default:
			srv.Host = entry.HostName
		}
		slog.Info("found saned server", "name", srv.Name, "host", srv.Host, "port", srv.Port)
		servers = append(servers, srv)
	}
	return servers, nil
}
