package validation

import (
	"errors"
	"strings"
	"testing"

	"primenest/pkg/domain"
)

func validProperty() domain.NewProperty {
	return domain.NewProperty{
		Title:        "Loft",
		Description:  "Bright loft",
		Price:        "495000",
		Location:     "Chicago, IL",
		City:         "Chicago",
		Bedrooms:     2,
		Bathrooms:    "1.5",
		Area:         1200,
		Status:       domain.PropertyStatusForRent,
		PropertyType: "Apartment",
		Images:       []string{"a.png"},
		AgentID:      "agent-1",
	}
}

func TestPropertyValid(t *testing.T) {
	if err := New().Struct(validProperty()); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestPropertyFieldErrors(t *testing.T) {
	in := validProperty()
	in.Price = "-5"
	in.Bathrooms = "two"
	in.Status = "Sold"
	in.PropertyType = "  "
	in.Images = nil
	in.Bedrooms = -1

	err := New().Struct(in)
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T %v", err, err)
	}
	for _, field := range []string{"price", "bathrooms", "status", "propertyType", "images", "bedrooms"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("missing field %s in %v", field, verr.Fields)
		}
	}
	if !strings.HasPrefix(verr.Error(), "validation failed: ") {
		t.Fatalf("unexpected message %q", verr.Error())
	}
}

func TestEmptyImageEntryRejected(t *testing.T) {
	in := validProperty()
	in.Images = []string{"a.png", ""}
	var verr *Error
	if err := New().Struct(in); !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if _, ok := verr.Fields["images[1]"]; !ok {
		t.Fatalf("expected images[1] failure, got %v", verr.Fields)
	}
}

func TestContactAndUser(t *testing.T) {
	v := New()
	if err := v.Struct(domain.NewContact{Name: "A", Email: "a@b.co", Message: "hi"}); err != nil {
		t.Fatalf("contact: %v", err)
	}
	err := v.Struct(domain.NewContact{Name: "A", Email: "nope", Message: ""})
	var verr *Error
	if !errors.As(err, &verr) || verr.Fields["email"] == "" || verr.Fields["message"] != "is required" {
		t.Fatalf("unexpected %v", err)
	}
	user := domain.NewUser{Email: "u@x.io", Password: "pw", FirstName: "U", LastName: "X", UserType: "buyer"}
	if err := v.Validate(user); err != nil {
		t.Fatalf("user: %v", err)
	}
	empty := ""
	user.Phone = &empty
	if err := v.Validate(user); err == nil {
		t.Fatalf("empty phone must be rejected")
	}
}

func TestMinMessageFollowsKind(t *testing.T) {
	v := New()
	user := domain.NewUser{Email: "u@x.io", Password: "pw", FirstName: "U", LastName: "X", UserType: "buyer", Phone: domain.StringPtr("")}
	var verr *Error
	if err := v.Struct(user); !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if got := verr.Fields["phone"]; got != "must be at least 1 characters" {
		t.Fatalf("phone message = %q", got)
	}
	in := validProperty()
	in.Images = []string{}
	if err := v.Struct(in); !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if got := verr.Fields["images"]; got != "must have at least 1 entries" {
		t.Fatalf("images message = %q", got)
	}
}

func TestNotBlank(t *testing.T) {
	type payload struct {
		Message string `json:"message" validate:"required,notblank"`
	}
	var verr *Error
	if err := New().Struct(payload{Message: " \t\n"}); !errors.As(err, &verr) || verr.Fields["message"] != "must not be blank" {
		t.Fatalf("expected blank rejection, got %v", err)
	}
	if err := New().Struct(payload{Message: "hi"}); err != nil {
		t.Fatalf("unexpected %v", err)
	}
}

func TestAgentDefaultsAllowed(t *testing.T) {
	in := domain.NewAgent{Name: "N", Title: "T", Email: "n@p.com", Phone: "1", Photo: "p.png", Experience: "1 Year"}
	if err := New().Struct(in); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	neg := -1
	in.ActiveListings = &neg
	if err := New().Struct(in); err == nil {
		t.Fatalf("negative listings must fail")
	}
}

func TestIsDecimal(t *testing.T) {
	for _, ok := range []string{"0", "3.5", "1800000", "2.50"} {
		if !IsDecimal(ok) {
			t.Fatalf("%q should be decimal", ok)
		}
	}
	for _, bad := range []string{"", " 1", "abc", "-1", "1,000"} {
		if IsDecimal(bad) {
			t.Fatalf("%q should not be decimal", bad)
		}
	}
}
