package domain

import "context"

// Repository is the read/write surface of the marketplace store. Single record
// lookups report absence through the boolean; list reads never fail.
type Repository interface {
	GetUser(id string) (User, bool)
	GetUserByEmail(email string) (User, bool)
	CreateUser(ctx context.Context, in NewUser) User

	GetProperties(filter PropertyFilter) []Property
	GetProperty(id string) (Property, bool)
	CreateProperty(ctx context.Context, in NewProperty) Property

	GetAgents(filter AgentFilter) []Agent
	GetAgent(id string) (Agent, bool)
	CreateAgent(ctx context.Context, in NewAgent) Agent

	CreateContact(ctx context.Context, in NewContact) Contact
	GetContacts() []Contact
}
