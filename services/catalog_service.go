package services

import (
	"context"
	"errors"

	"backend/models"

	"gorm.io/gorm"
)

var (
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrProductNotFound = errors.New("product not found")
)

// CatalogService reads recipes, products and plan templates. Catalog data is
// read-only to the planning core.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Preload("Items.Product").First(&recipe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes optionally filters out recipes conflicting with the
// restriction mask (pass 0 for no filtering).
func (s *CatalogService) ListRecipes(ctx context.Context, restrictions int64) ([]models.Recipe, error) {
	var recipes []models.Recipe
	q := s.db.WithContext(ctx).Preload("Items")
	if restrictions != 0 {
		q = q.Where("allergens & ? = 0", restrictions)
	}
	err := q.Order("name ASC").Find(&recipes).Error
	return recipes, err
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (s *CatalogService) GetTemplate(ctx context.Context, id uint) (*models.DietPlanTemplate, error) {
	var tpl models.DietPlanTemplate
	err := s.db.WithContext(ctx).First(&tpl, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *CatalogService) ListTemplates(ctx context.Context) ([]models.DietPlanTemplate, error) {
	var tpls []models.DietPlanTemplate
	err := s.db.WithContext(ctx).Order("name ASC").Find(&tpls).Error
	return tpls, err
}
