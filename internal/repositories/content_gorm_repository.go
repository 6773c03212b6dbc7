package repositories

import (
	"errors"
	"fmt"

	"handmadehub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBlogRepository is a GORM implementation of BlogRepository.
type GORMBlogRepository struct {
	db *gorm.DB
}

func NewGORMBlogRepository(db *gorm.DB) *GORMBlogRepository {
	return &GORMBlogRepository{db: db}
}

// List retrieves all posts, newest publication date first.
func (r *GORMBlogRepository) List() ([]models.Blog, error) {
	var posts []models.Blog
	if err := r.db.Order("date DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, nil
}

// GetBySlug retrieves one post by its slug.
func (r *GORMBlogRepository) GetBySlug(slug string) (*models.Blog, error) {
	var post models.Blog
	if err := r.db.First(&post, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("blog post %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get blog post %s: %w", slug, err)
	}
	return &post, nil
}

// GORMStateRepository is a GORM implementation of StateRepository.
type GORMStateRepository struct {
	db *gorm.DB
}

func NewGORMStateRepository(db *gorm.DB) *GORMStateRepository {
	return &GORMStateRepository{db: db}
}

// List retrieves all states sorted by name.
func (r *GORMStateRepository) List() ([]models.State, error) {
	var states []models.State
	if err := r.db.Order("name ASC").Find(&states).Error; err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	return states, nil
}

// GORMContactRepository is a GORM implementation of ContactRepository.
type GORMContactRepository struct {
	db *gorm.DB
}

func NewGORMContactRepository(db *gorm.DB) *GORMContactRepository {
	return &GORMContactRepository{db: db}
}

// Create stores a new inbox message.
func (r *GORMContactRepository) Create(contact *models.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if err := r.db.Create(contact).Error; err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

// List retrieves the most recent messages up to limit (0 means no limit).
func (r *GORMContactRepository) List(limit int) ([]models.Contact, error) {
	q := r.db.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var messages []models.Contact
	if err := q.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return messages, nil
}

// GetByID retrieves one inbox message.
func (r *GORMContactRepository) GetByID(id string) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("contact message %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get contact message %s: %w", id, err)
	}
	return &contact, nil
}

// Update persists all fields of an existing message.
func (r *GORMContactRepository) Update(contact *models.Contact) error {
	res := r.db.Save(contact)
	if res.Error != nil {
		return fmt.Errorf("failed to update contact message: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("contact message %s: %w", contact.ID, ErrNotFound)
	}
	return nil
}
