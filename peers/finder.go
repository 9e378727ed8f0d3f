// Package peers discovers reachable neighbours on the local subnet by
// probing host:port candidates with a short TCP dial, and holds the most
// recently discovered set for the gossip package to fan requests out to
// (spec.md §4.5).
package peers

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/ikuhiroo/pyblockchain/internal/log"
)

var logger = log.NewModuleLogger(log.ModulePeers)

const probeTimeout = 1 * time.Second

var ipv4Pattern = regexp.MustCompile(`^(\d{1,3}\.\d{1,3}\.\d{1,3}\.)(\d{1,3})$`)

// Range describes the scan space for one discovery pass: the ports to try
// and the offsets to add to the host's own last IPv4 octet.
type Range struct {
	StartPort    int
	EndPort      int
	StartOffset  int
	EndOffset    int
}

// Finder probes the subnet of (myHost, myPort) for reachable peers.
type Finder struct {
	myHost string
	myPort int
	rng    Range

	// recentlyDown remembers candidates that failed their last probe so a
	// repeated failure is logged as "peer still down"; it only affects
	// logging — Discover always re-probes every candidate in range.
	recentlyDown *lru.Cache
}

// New returns a Finder that discovers peers of (myHost, myPort) within rng.
func New(myHost string, myPort int, rng Range) *Finder {
	cache, _ := lru.New(256)
	return &Finder{myHost: myHost, myPort: myPort, rng: rng, recentlyDown: cache}
}

// Discover runs one full scan of the configured range and returns every
// candidate that accepted a TCP connection within the probe timeout,
// excluding (myHost, myPort) itself. A non-IPv4 myHost yields an empty
// result (spec.md §4.5 "Failure handling").
func (f *Finder) Discover() []string {
	prefix, last, ok := splitIPv4(f.myHost)
	if !ok {
		logger.Debug("peer discovery skipped: host is not a dotted-quad IPv4 address", "host", f.myHost)
		return nil
	}

	self := fmt.Sprintf("%s:%d", f.myHost, f.myPort)
	var found []string
	for port := f.rng.StartPort; port < f.rng.EndPort; port++ {
		for offset := f.rng.StartOffset; offset < f.rng.EndOffset; offset++ {
			host := fmt.Sprintf("%s%d", prefix, last+offset)
			address := fmt.Sprintf("%s:%d", host, port)
			if address == self {
				continue
			}
			if f.isFoundHost(address, host, port) {
				found = append(found, address)
				f.recentlyDown.Remove(address)
			} else {
				f.recentlyDown.Add(address, time.Now())
			}
		}
	}
	return found
}

func (f *Finder) isFoundHost(address, host string, port int) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), probeTimeout)
	if err != nil {
		wrapped := errors.Wrapf(err, "probe %s", address)
		if _, alreadyDown := f.recentlyDown.Get(address); alreadyDown {
			logger.Debug("peer still down", "host", host, "port", port, "error", wrapped)
		} else {
			logger.Debug("peer probe failed", "host", host, "port", port, "error", wrapped)
		}
		return false
	}
	conn.Close()
	return true
}

func splitIPv4(host string) (prefix string, last int, ok bool) {
	m := ipv4Pattern.FindStringSubmatch(host)
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], n, true
}
