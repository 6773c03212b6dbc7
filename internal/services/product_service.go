package services

import (
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"handmadehub/internal/models"
	"handmadehub/internal/repositories"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo      repositories.ProductRepository
	uploadDir string
}

// NewProductService creates a new ProductService. uploadDir is where
// locally uploaded product images live; it may be empty when image cleanup
// is not wanted.
func NewProductService(repo repositories.ProductRepository, uploadDir string) *ProductService {
	return &ProductService{
		repo:      repo,
		uploadDir: uploadDir,
	}
}

// List retrieves products matching the filter.
func (s *ProductService) List(filter repositories.ProductFilter) ([]models.Product, error) {
	return s.repo.List(filter)
}

// GetByID retrieves a single product by its ID.
func (s *ProductService) GetByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// Create creates a new product.
func (s *ProductService) Create(product *models.Product) error {
	return s.repo.Create(product)
}

// Update updates an existing product.
func (s *ProductService) Update(product *models.Product) error {
	return s.repo.Update(product)
}

// SetFeatured sets the promotional flag. A nil value toggles the current
// state instead.
func (s *ProductService) SetFeatured(id string, featured *bool) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if featured != nil {
		product.Featured = *featured
	} else {
		product.Featured = !product.Featured
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product. If its image is a local upload, the file is
// removed as a best-effort side effect; failure there never blocks the
// record deletion.
func (s *ProductService) Delete(id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if s.uploadDir != "" && strings.HasPrefix(product.Image, "/uploads/") {
		// Base strips any traversal in the stored path.
		name := path.Base(product.Image)
		if err := os.Remove(filepath.Join(s.uploadDir, name)); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: failed to delete product image %s: %v", product.Image, err)
		}
	}

	return s.repo.Delete(id)
}

// Count returns the total number of products.
func (s *ProductService) Count() (int64, error) {
	return s.repo.Count()
}

// CountByArtisan returns the number of products owned by one artisan.
func (s *ProductService) CountByArtisan(artisanID string) (int64, error) {
	return s.repo.CountByArtisan(artisanID)
}
