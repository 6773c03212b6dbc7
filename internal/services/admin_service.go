package services

import (
	"handmadehub/internal/models"
	"handmadehub/internal/repositories"
)

// AdminService backs the admin console: artisan account management and the
// dashboard summary.
type AdminService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repositories.UserRepository, productRepo repositories.ProductRepository, orderRepo repositories.OrderRepository) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// ListArtisans returns all artisan accounts, newest first.
func (s *AdminService) ListArtisans() ([]models.User, error) {
	return s.userRepo.ListByRole(models.RoleArtisan)
}

// ApproveArtisan flips both the approval and verification flags. Approval
// takes effect on the artisan's next login attempt; no re-registration is
// needed.
func (s *AdminService) ApproveArtisan(id string) (*models.User, error) {
	artisan, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	artisan.IsApproved = true
	artisan.IsVerified = true
	if err := s.userRepo.Update(artisan); err != nil {
		return nil, err
	}
	return artisan, nil
}

// DeleteArtisan removes a non-admin account. Admin accounts are exempt from
// deletion through this path.
func (s *AdminService) DeleteArtisan(id string) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return ErrCannotDeleteAdmin
	}
	return s.userRepo.Delete(id)
}

// Summary aggregates the dashboard counters.
type Summary struct {
	UsersCount    int64 `json:"usersCount"`
	ProductsCount int64 `json:"productsCount"`
	OrdersCount   int64 `json:"ordersCount"`
}

// GetSummary counts users, products and orders.
func (s *AdminService) GetSummary() (*Summary, error) {
	users, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.Count()
	if err != nil {
		return nil, err
	}
	return &Summary{
		UsersCount:    users,
		ProductsCount: products,
		OrdersCount:   orders,
	}, nil
}
