// Package session holds the process-wide record of who is logged in and
// which spot, if any, they currently hold.
package session

import (
	"sync"

	"parkvision-client/internal/common/logger"
	"parkvision-client/internal/models"
)

// Listener is notified after every effective state change.
type Listener func(models.SessionState)

// Context is the single source of truth for the authenticated user and the
// active parking session. Fields are only changed through its methods.
type Context struct {
	mu        sync.RWMutex
	user      models.User
	state     models.SessionState
	listeners []Listener
	logger    logger.Logger
}

func NewContext(log logger.Logger) *Context {
	return &Context{logger: log.WithFields(map[string]interface{}{"component": "session"})}
}

// LogIn replaces the stored user. A user without an id is rejected.
func (c *Context) LogIn(user models.User, isAdmin bool) {
	if !user.HasID() {
		c.logger.Error("login rejected: user has no id", map[string]interface{}{"email": user.Email})
		return
	}

	c.mu.Lock()
	c.user = user
	c.state.IsAuthenticated = true
	c.state.IsAdmin = isAdmin
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("user logged in", map[string]interface{}{"userId": user.ID, "isAdmin": isAdmin})
	c.publish(snapshot)
}

// LogOut clears everything. Safe to call when already logged out.
func (c *Context) LogOut() {
	c.mu.Lock()
	changed := c.state.IsAuthenticated || c.user.HasID()
	c.user = models.User{}
	c.state = models.SessionState{}
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	if changed {
		c.logger.Info("user logged out", nil)
		c.publish(snapshot)
	}
}

// StartParking marks spotID as the active session. It does not contact the
// Parking Service; callers invoke it after a confirmed booking.
func (c *Context) StartParking(spotID models.SpotID) {
	c.mu.Lock()
	if !c.state.IsAuthenticated {
		c.mu.Unlock()
		c.logger.Warn("startParking ignored: not authenticated", map[string]interface{}{"spotId": spotID})
		return
	}
	if c.state.IsParked {
		active := *c.state.ActiveParkingID
		c.mu.Unlock()
		c.logger.Warn("startParking ignored: session already active", map[string]interface{}{
			"spotId":       spotID,
			"activeSpotId": active,
		})
		return
	}
	id := spotID
	userID := c.user.ID
	c.state.IsParked = true
	c.state.ActiveParkingID = &id
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("parking started", map[string]interface{}{"spotId": spotID, "userId": userID})
	c.publish(snapshot)
}

// StopParking clears the active session.
func (c *Context) StopParking() {
	c.mu.Lock()
	if !c.state.IsAuthenticated || !c.state.IsParked {
		c.mu.Unlock()
		c.logger.Debug("stopParking ignored: no active session", nil)
		return
	}
	spot := *c.state.ActiveParkingID
	c.state.IsParked = false
	c.state.ActiveParkingID = nil
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("parking stopped", map[string]interface{}{"spotId": spot})
	c.publish(snapshot)
}

// State returns a copy of the session flags.
func (c *Context) State() models.SessionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Context) User() models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// IsParkedAt reports whether spotID is the active session.
func (c *Context) IsParkedAt(spotID models.SpotID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.IsParked && *c.state.ActiveParkingID == spotID
}

// Subscribe registers fn for state changes. Listeners run on the goroutine
// that made the change, after the lock is released.
func (c *Context) Subscribe(fn Listener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

func (c *Context) snapshotLocked() models.SessionState {
	s := c.state
	if s.ActiveParkingID != nil {
		id := *s.ActiveParkingID
		s.ActiveParkingID = &id
	}
	return s
}

func (c *Context) publish(s models.SessionState) {
	c.mu.RLock()
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.RUnlock()

	for _, fn := range listeners {
		fn(s)
	}
}
