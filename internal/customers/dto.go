package customers

// CreateCustomerInput carries validated input for registering a customer.
type CreateCustomerInput struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	PhoneNumber string  `json:"phone_number" validate:"required,min=3,max=32"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=255"`
}

// ListCustomersFilter narrows customer listings.
type ListCustomersFilter struct {
	PhoneNumber string
	Limit       int
	Cursor      string
}
