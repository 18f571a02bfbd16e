package services

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"dukanBack/internal/models"
	"dukanBack/internal/repositories"
	"dukanBack/utils"
)

type StoreService struct {
	StoreRepo  *repositories.StoreRepository
	PlanRepo   *repositories.PlanRepository
	ThemeCache *repositories.ThemeCache
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// CreateStore registers a new storefront. The slug derives from the name and
// gets a random suffix on collision.
func (s *StoreService) CreateStore(ctx context.Context, store models.Store) (models.Store, error) {
	if strings.TrimSpace(store.Name) == "" {
		return models.Store{}, fmt.Errorf("store name is required")
	}
	slug := slugify(store.Name)
	if slug == "" {
		slug = "store"
	}

	if _, err := s.StoreRepo.GetStoreBySlug(ctx, slug); err == nil {
		slug = fmt.Sprintf("%s-%s", slug, strings.ToLower(uuid.NewString()[:6]))
	} else if err != models.ErrStoreNotFound {
		return models.Store{}, err
	}
	store.Slug = slug

	return s.StoreRepo.CreateStore(ctx, store)
}

func (s *StoreService) GetStore(ctx context.Context, id int) (models.Store, error) {
	return s.StoreRepo.GetStoreByID(ctx, id)
}

func (s *StoreService) GetStoreBySlug(ctx context.Context, slug string) (models.Store, error) {
	return s.StoreRepo.GetStoreBySlug(ctx, slug)
}

func (s *StoreService) GetStoreByOwner(ctx context.Context, ownerID int) (models.Store, error) {
	return s.StoreRepo.GetStoreByOwner(ctx, ownerID)
}

// UpdateProfile edits name, description, policies and social links. Theme
// state is owned by the designer flow and never touched here.
func (s *StoreService) UpdateProfile(ctx context.Context, store models.Store) error {
	current, err := s.StoreRepo.GetStoreByID(ctx, store.ID)
	if err != nil {
		return err
	}
	if store.Name == "" {
		store.Name = current.Name
	}
	if store.LogoURL == "" {
		store.LogoURL = current.LogoURL
	}
	return s.StoreRepo.UpdateStore(ctx, store)
}

// UploadLogo pushes the image to object storage and saves the returned URL.
func (s *StoreService) UploadLogo(ctx context.Context, storeID int, fileName string, data []byte, contentType string) (string, error) {
	store, err := s.StoreRepo.GetStoreByID(ctx, storeID)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d_%s%s", storeID, uuid.NewString()[:8], filepath.Ext(fileName))
	url, err := utils.UploadFileToS3(data, name, "store-logos", contentType)
	if err != nil {
		return "", err
	}

	store.LogoURL = url
	if err := s.StoreRepo.UpdateStore(ctx, store); err != nil {
		return "", err
	}
	return url, nil
}

// PublicTheme serves the published stylesheet for the storefront, cache
// first. Stores without a published theme serve an empty sheet.
func (s *StoreService) PublicTheme(ctx context.Context, slug string) (string, error) {
	store, err := s.StoreRepo.GetStoreBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if store.ThemeState != models.ThemeStatePublished {
		return "", nil
	}

	if css, ok := s.ThemeCache.GetThemeCSS(ctx, store.ID); ok {
		return css, nil
	}
	// cache write failures must not break the storefront
	_ = s.ThemeCache.SetThemeCSS(ctx, store.ID, store.ThemeCSS)
	return store.ThemeCSS, nil
}
