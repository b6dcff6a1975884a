package entity

import "time"

// Company representa una empresa cliente de la imprenta. Las órdenes la referencian por nombre.
type Company struct {
	ID        string
	Name      string // único (comparación sin distinguir mayúsculas)
	CreatedAt time.Time
	UpdatedAt time.Time
}
