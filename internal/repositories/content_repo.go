package repositories

import "handmadehub/internal/models"

// BlogRepository defines read access to published blog posts.
type BlogRepository interface {
	List() ([]models.Blog, error)
	GetBySlug(slug string) (*models.Blog, error)
}

// StateRepository defines read access to shipping states.
type StateRepository interface {
	List() ([]models.State, error)
}

// ContactRepository defines access to the support inbox.
type ContactRepository interface {
	Create(contact *models.Contact) error
	List(limit int) ([]models.Contact, error)
	GetByID(id string) (*models.Contact, error)
	Update(contact *models.Contact) error
}
