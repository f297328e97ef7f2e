// Package netcheck monitors internet reachability on a fixed interval.
// It runs independently of request handling; the router only reads the
// cached flag.
package netcheck

import (
	"log"
	"net"
	"sync"
	"time"
)

var probeHosts = []string{"8.8.8.8:53", "1.1.1.1:53"}

const probeTimeout = 3 * time.Second

// Monitor tracks whether an internet connection is available.
type Monitor struct {
	interval time.Duration
	onChange func(online bool)
	dial     func(network, addr string, timeout time.Duration) (net.Conn, error)

	mu     sync.Mutex
	online bool
	stop   chan struct{}
	done   chan struct{}
}

// NewMonitor creates a monitor checking connectivity every interval.
// onChange may be nil.
func NewMonitor(interval time.Duration, onChange func(online bool)) *Monitor {
	return &Monitor{
		interval: interval,
		onChange: onChange,
		dial:     net.DialTimeout,
	}
}

// Online returns the last observed connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Start performs an immediate check and then polls in the background.
// Calling Start on a running monitor is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.stop != nil {
		m.mu.Unlock()
		return
	}
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	stop, done := m.stop, m.done
	m.mu.Unlock()

	m.update(m.check())
	log.Println("Network monitoring started")

	go func() {
		defer close(done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.update(m.check())
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts background polling and waits for the loop to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	stop, done := m.stop, m.done
	m.stop, m.done = nil, nil
	m.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
	log.Println("Network monitoring stopped")
}

// check dials the probe hosts in order; any success means online.
func (m *Monitor) check() bool {
	for _, host := range probeHosts {
		conn, err := m.dial("tcp", host, probeTimeout)
		if err == nil {
			conn.Close()
			return true
		}
	}
	return false
}

func (m *Monitor) update(online bool) {
	m.mu.Lock()
	changed := online != m.online
	m.online = online
	m.mu.Unlock()

	if changed {
		status := "offline"
		if online {
			status = "online"
		}
		log.Printf("Network status changed: %s", status)
		if m.onChange != nil {
			m.onChange(online)
		}
	}
}
