package services

import (
	"handmadehub/internal/models"
	"handmadehub/internal/repositories"
)

// ContentService covers the simple read-mostly collections: blog posts,
// shipping states and the contact inbox.
type ContentService struct {
	blogRepo    repositories.BlogRepository
	stateRepo   repositories.StateRepository
	contactRepo repositories.ContactRepository
}

// NewContentService creates a new ContentService.
func NewContentService(blogRepo repositories.BlogRepository, stateRepo repositories.StateRepository, contactRepo repositories.ContactRepository) *ContentService {
	return &ContentService{
		blogRepo:    blogRepo,
		stateRepo:   stateRepo,
		contactRepo: contactRepo,
	}
}

// ListBlogs returns all posts, newest first.
func (s *ContentService) ListBlogs() ([]models.Blog, error) {
	return s.blogRepo.List()
}

// GetBlogBySlug returns one post.
func (s *ContentService) GetBlogBySlug(slug string) (*models.Blog, error) {
	return s.blogRepo.GetBySlug(slug)
}

// ListStates returns the shipping states sorted by name.
func (s *ContentService) ListStates() ([]models.State, error) {
	return s.stateRepo.List()
}

// SubmitContact stores a new support message from the public form.
func (s *ContentService) SubmitContact(contact *models.Contact) error {
	if contact.Name == "" || contact.Email == "" || contact.Message == "" {
		return ErrMissingFields
	}
	contact.Email = models.CanonicalEmail(contact.Email)
	return s.contactRepo.Create(contact)
}

// ListContacts returns the most recent inbox messages for admin triage.
func (s *ContentService) ListContacts(limit int) ([]models.Contact, error) {
	return s.contactRepo.List(limit)
}

// MarkContactHandled flips the triage flag on one message.
func (s *ContentService) MarkContactHandled(id string, handled bool) (*models.Contact, error) {
	contact, err := s.contactRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	contact.Handled = handled
	if err := s.contactRepo.Update(contact); err != nil {
		return nil, err
	}
	return contact, nil
}
