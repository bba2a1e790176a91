// Package domain defines the marketplace records, their insert shapes and the
// query filters shared by the store, the dispatcher and the HTTP surface.
package domain

import (
	"strings"
	"time"
)

// EntityType identifies the kind of record held by the store.
type EntityType string

// Supported record kinds. Each kind is mirrored under its own durable key.
const (
	// EntityUser identifies a registered user.
	EntityUser EntityType = "user"
	// EntityProperty identifies a property listing.
	EntityProperty EntityType = "property"
	// EntityAgent identifies a listing agent.
	EntityAgent EntityType = "agent"
	// EntityContact identifies a contact form submission.
	EntityContact EntityType = "contact"
)

// PropertyStatus is the closed set of listing states.
type PropertyStatus string

// Canonical listing states.
const (
	PropertyStatusForSale PropertyStatus = "For Sale"
	PropertyStatusForRent PropertyStatus = "For Rent"
)

// Valid reports whether s is one of the canonical listing states.
func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyStatusForSale, PropertyStatusForRent:
		return true
	default:
		return false
	}
}

// PropertyStatuses lists the canonical listing states in display order.
func PropertyStatuses() []PropertyStatus {
	return []PropertyStatus{PropertyStatusForSale, PropertyStatusForRent}
}

// PropertyType is an open-ended listing category such as "Villa" or "Condo".
type PropertyType string

// MaxPropertyTypeLength bounds the free-text category.
const MaxPropertyTypeLength = 64

// Valid reports whether t is usable as a category: non-blank, trimmed and bounded.
func (t PropertyType) Valid() bool {
	s := string(t)
	if strings.TrimSpace(s) == "" || strings.TrimSpace(s) != s {
		return false
	}
	return len(s) <= MaxPropertyTypeLength
}

// User is a registered account. Password is opaque and compared by equality.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     *string   `json:"phone"`
	UserType  string    `json:"userType"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicUser is a User without its password, safe to hand to callers.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     *string   `json:"phone"`
	UserType  string    `json:"userType"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public strips the password.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     cloneString(u.Phone),
		UserType:  u.UserType,
		CreatedAt: u.CreatedAt,
	}
}

// Property is a listing. Price and Bathrooms are decimals kept as text;
// AgentID is not checked against existing agents.
type Property struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Price        string         `json:"price"`
	Location     string         `json:"location"`
	City         string         `json:"city"`
	Bedrooms     int            `json:"bedrooms"`
	Bathrooms    string         `json:"bathrooms"`
	Area         int            `json:"area"`
	Status       PropertyStatus `json:"status"`
	PropertyType PropertyType   `json:"propertyType"`
	Featured     bool           `json:"featured"`
	Images       []string       `json:"images"`
	AgentID      string         `json:"agentId"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Agent is a listing agent. ActiveListings is maintained independently of the
// properties that reference the agent.
type Agent struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Title          string    `json:"title"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Photo          string    `json:"photo"`
	ActiveListings int       `json:"activeListings"`
	Experience     string    `json:"experience"`
	Specialty      *string   `json:"specialty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Contact is a contact form submission.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy of the property.
func (p Property) Clone() Property {
	cp := p
	cp.Images = append([]string(nil), p.Images...)
	return cp
}

// Clone returns a deep copy of the agent.
func (a Agent) Clone() Agent {
	cp := a
	cp.Specialty = cloneString(a.Specialty)
	return cp
}

// Clone returns a deep copy of the user.
func (u User) Clone() User {
	cp := u
	cp.Phone = cloneString(u.Phone)
	return cp
}

// Clone returns a deep copy of the contact.
func (c Contact) Clone() Contact {
	cp := c
	cp.Phone = cloneString(c.Phone)
	return cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }
