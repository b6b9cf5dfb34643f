package session

import (
	"github.com/sirupsen/logrus"

	"github.com/anaailiesei/EchoWave/internal/catalog"
	"github.com/anaailiesei/EchoWave/internal/clock"
	"github.com/anaailiesei/EchoWave/internal/ledger"
	"github.com/anaailiesei/EchoWave/internal/revenue"
	"github.com/anaailiesei/EchoWave/pkg/models"
)

// Manager owns the simulation clock, the shared revenue allocator and every
// session of the run. Sessions observe clock advances in the order they
// were created.
type Manager struct {
	clock    *clock.Clock
	catalog  *catalog.Catalog
	alloc    *revenue.Allocator
	opts     Options
	sessions map[string]*Session
	order    []string
	owners   map[string]*ledger.OwnerLedger
	log      *logrus.Entry
}

// NewManager creates a manager over the catalog.
func NewManager(cat *catalog.Catalog, opts Options) *Manager {
	return &Manager{
		clock:    clock.New(),
		catalog:  cat,
		alloc:    revenue.NewAllocator(cat.OwnerOf),
		opts:     opts,
		sessions: make(map[string]*Session),
		owners:   make(map[string]*ledger.OwnerLedger),
		log:      logrus.WithField("component", "manager"),
	}
}

// Session returns the listener's session, creating and registering it on
// first use. A listener the catalog knows as premium starts subscribed.
func (m *Manager) Session(listener string) *Session {
	if s, ok := m.sessions[listener]; ok {
		return s
	}
	s := NewSession(listener, m.catalog, m.alloc, m, m.opts)
	if user, ok := m.catalog.User(listener); ok && user.Premium {
		s.Subscribe()
	}
	m.sessions[listener] = s
	m.order = append(m.order, listener)
	m.clock.Register(s)
	m.log.WithFields(logrus.Fields{"listener": listener, "session": s.ID()}).Debug("session created")
	return s
}

// Advance moves the clock to timestamp, playing every session forward by
// the elapsed delta.
func (m *Manager) Advance(timestamp int) (int, error) {
	return m.clock.Advance(timestamp)
}

// Now returns the current simulated time.
func (m *Manager) Now() int { return m.clock.Now() }

// OwnerListen credits a completed listen to the content owner's aggregate.
func (m *Manager) OwnerListen(track models.Track, listener string, count int) {
	m.OwnerLedger(track.Owner).AddListen(track, listener, count)
}

// OwnerLedger returns the owner's aggregate, creating it on first use.
func (m *Manager) OwnerLedger(owner string) *ledger.OwnerLedger {
	l, ok := m.owners[owner]
	if !ok {
		l = ledger.NewOwnerLedger()
		m.owners[owner] = l
	}
	return l
}

// EndProgram finalizes every session in creation order and produces the
// revenue report.
func (m *Manager) EndProgram() []revenue.OwnerReport {
	for _, listener := range m.order {
		m.sessions[listener].Finalize()
	}
	report := m.alloc.Report()
	m.log.WithField("owners", len(report)).Info("run finalized")
	return report
}
