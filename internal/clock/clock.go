// Package clock supplies the current local calendar date to the stores.
package clock

import (
	"sync"
	"time"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/utils"
)

// Clock reports today's date as YYYY-MM-DD in the user's calendar
type Clock interface {
	Today() string
}

// Func adapts a plain function to Clock
type Func func() string

func (f Func) Today() string { return f() }

// System reads the wall clock in a fixed location
type System struct {
	loc *time.Location
	now func() time.Time
}

// NewSystem returns a clock for the given IANA timezone ("Local" or "" for the system zone)
func NewSystem(timezone string) (*System, error) {
	loc, err := utils.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &System{loc: loc, now: time.Now}, nil
}

func (s *System) Today() string {
	return s.now().In(s.loc).Format(constants.DateFormat)
}

// Location returns the zone the clock reports dates in
func (s *System) Location() *time.Location {
	return s.loc
}

// Manual is a settable clock for tests and previews
type Manual struct {
	mu    sync.Mutex
	today string
}

func NewManual(today string) *Manual {
	return &Manual{today: today}
}

func (m *Manual) Today() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.today
}

// Set moves the clock to another date
func (m *Manual) Set(today string) {
	m.mu.Lock()
	m.today = today
	m.mu.Unlock()
}
