package domain

// The insert shapes below omit ID and CreatedAt, which the store assigns.
// Struct tags drive the validation layer; the store itself never rejects input.

// NewUser is the payload for creating a User.
type NewUser struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required"`
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=1"`
	UserType  string  `json:"userType" validate:"required"`
}

// NewProperty is the payload for creating a Property. Featured defaults to false.
type NewProperty struct {
	Title        string         `json:"title" validate:"required"`
	Description  string         `json:"description" validate:"required"`
	Price        string         `json:"price" validate:"required,decimal"`
	Location     string         `json:"location" validate:"required"`
	City         string         `json:"city" validate:"required"`
	Bedrooms     int            `json:"bedrooms" validate:"gte=0"`
	Bathrooms    string         `json:"bathrooms" validate:"required,decimal"`
	Area         int            `json:"area" validate:"gte=0"`
	Status       PropertyStatus `json:"status" validate:"property_status"`
	PropertyType PropertyType   `json:"propertyType" validate:"property_type"`
	Featured     *bool          `json:"featured,omitempty"`
	Images       []string       `json:"images" validate:"required,min=1,dive,required"`
	AgentID      string         `json:"agentId" validate:"required"`
}

// NewAgent is the payload for creating an Agent. ActiveListings defaults to 0
// and Specialty to nil.
type NewAgent struct {
	Name           string  `json:"name" validate:"required"`
	Title          string  `json:"title" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          string  `json:"phone" validate:"required"`
	Photo          string  `json:"photo" validate:"required"`
	ActiveListings *int    `json:"activeListings,omitempty" validate:"omitempty,gte=0"`
	Experience     string  `json:"experience" validate:"required"`
	Specialty      *string `json:"specialty,omitempty"`
}

// NewContact is the payload for creating a Contact.
type NewContact struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone,omitempty"`
	Message string  `json:"message" validate:"required"`
}

// PropertyFilter narrows property listings. Empty fields impose no constraint;
// all present fields must match.
type PropertyFilter struct {
	// City matches as a case-insensitive substring.
	City string `json:"city,omitempty" query:"city"`
	// Status matches exactly.
	Status PropertyStatus `json:"status,omitempty" query:"status"`
	// PropertyType matches exactly.
	PropertyType PropertyType `json:"propertyType,omitempty" query:"propertyType"`
}

// IsZero reports whether the filter imposes no constraint.
func (f PropertyFilter) IsZero() bool {
	return f == PropertyFilter{}
}

// AgentFilter narrows agent listings.
type AgentFilter struct {
	// Specialty matches exactly.
	Specialty string `json:"specialty,omitempty" query:"specialty"`
}

// IsZero reports whether the filter imposes no constraint.
func (f AgentFilter) IsZero() bool {
	return f == AgentFilter{}
}
