package domain

import "time"

// SessionExpiration is the horizon applied to new sessions at creation time.
const SessionExpiration = 30 * 24 * time.Hour

type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	ImageID string `json:"imageId,omitempty"`
}

type Session struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	AccessToken    string    `json:"-"`
	ExpirationDate time.Time `json:"expirationDate"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Expired reports whether the session is past its expiration date.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpirationDate)
}

// SessionData is what a resolved session exposes to request handlers: the
// local user identity and the bearer credential for the remote API.
type SessionData struct {
	UserID      string
	AccessToken string
}

// Organisation scopes dashboard data. It is never persisted locally; the list
// a user belongs to is fetched from the remote API on every request that
// needs it.
type Organisation struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       Owner  `json:"owner"`
	CreatedAt   string `json:"createdAt"`
}

type Owner struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Profile is the remote profile payload, merged over the local user record
// when served to the browser.
type Profile struct {
	FirstName         *string `json:"firstName"`
	LastName          *string `json:"lastName"`
	PhoneNumber       string  `json:"phoneNumber"`
	Email             *string `json:"email"`
	Role              string  `json:"role"`
	RemainingMessages string  `json:"remainingMessages"`
	MessageLimit      string  `json:"messageLimit"`
	UsedMessages      int     `json:"usedMessages"`
}

type DailyTotals struct {
	NewLeads            int `json:"newLeads"`
	NewUsers            int `json:"newUsers"`
	NewMessages         int `json:"newMessages"`
	NewWhatsappMessages int `json:"newWhatsappMessages"`
	NewAudioMessages    int `json:"newAudioMessages"`
	DailyChats          int `json:"dailyChats"`
}
