// Package memory holds the process-local collections both stores keep in
// RAM: user accounts, settings and the trash bin. Nothing here is persisted.
package memory

import (
	"sync"

	"github.com/dmitrijs2005/promptvault/internal/common"
	"github.com/dmitrijs2005/promptvault/internal/server/models"
)

// Users is an in-memory user registry with unique usernames.
type Users struct {
	mu   sync.RWMutex
	next int
	byID map[int]*models.User
}

func NewUsers() *Users {
	return &Users{next: 1, byID: make(map[int]*models.User)}
}

func (u *Users) Get(id int) (*models.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *user
	return &c, nil
}

func (u *Users) GetByUsername(username string) (*models.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	if user := u.findLocked(username); user != nil {
		c := *user
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

// Create stores a new account under the next sequential id.
func (u *Users) Create(data models.NewUser) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.findLocked(data.Username) != nil {
		return nil, common.ErrorAlreadyExists
	}
	user := &models.User{ID: u.next, Username: data.Username, Password: data.Password}
	u.next++
	u.byID[user.ID] = user
	c := *user
	return &c, nil
}

// Update replaces username and password of an existing account.
func (u *Users) Update(id int, username, password string) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	user, ok := u.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if other := u.findLocked(username); other != nil && other.ID != id {
		return nil, common.ErrorAlreadyExists
	}
	user.Username = username
	user.Password = password
	c := *user
	return &c, nil
}

// EnsureUser creates the account unless the username is already taken.
func (u *Users) EnsureUser(username, password string) bool {
	_, err := u.Create(models.NewUser{Username: username, Password: password})
	return err == nil
}

func (u *Users) findLocked(username string) *models.User {
	for _, user := range u.byID {
		if user.Username == username {
			return user
		}
	}
	return nil
}
