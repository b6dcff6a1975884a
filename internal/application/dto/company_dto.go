package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	CompanyName string `json:"companyName" validate:"required,min=1,max=200"`
}

// UpdateCompanyRequest entrada para renombrar una empresa.
type UpdateCompanyRequest struct {
	CompanyName string `json:"companyName" validate:"required,min=1,max=200"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"companyName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
