package service

import (
	"time"

	"github.com/notifyhub/dashcore/internal/domain"
)

// CustomerDTO is the read model returned by customer queries and commands.
type CustomerDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Country     string    `json:"country"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCustomerDTO(c *domain.Customer) CustomerDTO {
	return CustomerDTO{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Country:     c.Country,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCustomerDTOs(cs []*domain.Customer) []CustomerDTO {
	out := make([]CustomerDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCustomerDTO(c))
	}
	return out
}

func newCustomer(id string, cmd *CreateCustomerCommand, now time.Time) *domain.Customer {
	return &domain.Customer{
		ID:          id,
		Name:        cmd.Name,
		Email:       cmd.Email,
		Phone:       cmd.Phone,
		Country:     cmd.Country,
		Description: cmd.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func applyUpdate(c *domain.Customer, cmd *UpdateCustomerCommand, now time.Time) {
	c.Name = cmd.Name
	c.Email = cmd.Email
	c.Phone = cmd.Phone
	c.Country = cmd.Country
	c.Description = cmd.Description
	c.UpdatedAt = now
}
