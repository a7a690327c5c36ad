package page

import "github.com/spiffcs/tunnelview/internal/tunnel"

type fakeSurface struct {
	loads []string
	stops int
	next  NavigationID
}

func (s *fakeSurface) Load(url string) NavigationID {
	s.loads = append(s.loads, url)
	s.next++
	return s.next
}

func (s *fakeSurface) StopLoading() { s.stops++ }

type fakeRenderer struct {
	decisions []Decision
}

func (r *fakeRenderer) Render(d Decision) { r.decisions = append(r.decisions, d) }

func (r *fakeRenderer) last() (Decision, bool) {
	if len(r.decisions) == 0 {
		return Decision{}, false
	}
	return r.decisions[len(r.decisions)-1], true
}

type memStore struct {
	status LoadStatus
	sets   int
}

func (m *memStore) Load() LoadStatus { return m.status }

func (m *memStore) SetLoad(s LoadStatus) {
	m.status = s
	m.sets++
}

func connected() *tunnel.Connection {
	return &tunnel.Connection{Tunneled: tunnel.Connected}
}
