package repositories

import "handmadehub/internal/models"

// UserRepository defines the interface for user data access. Emails passed
// in are expected to be canonicalized already (models.CanonicalEmail).
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	ListByRole(role models.Role) ([]models.User, error)
	Update(user *models.User) error
	Delete(id string) error
	Count() (int64, error)
}
