package repositories

import (
	"context"
	"database/sql"

	"dukanBack/internal/models"
)

type StoreRepository struct {
	DB *sql.DB
}

const storeColumns = `id, owner_id, name, slug, description, logo_url, policies, social_links, theme_state, theme_css, plan_id, created_at, updated_at`

func scanStore(scanner interface{ Scan(dest ...any) error }) (models.Store, error) {
	var s models.Store
	var themeState string
	var description, logoURL, policies, socialLinks, themeCSS sql.NullString
	var planID sql.NullInt64
	var updated sql.NullTime
	err := scanner.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Slug, &description, &logoURL, &policies, &socialLinks, &themeState, &themeCSS, &planID, &s.CreatedAt, &updated)
	if err != nil {
		return models.Store{}, err
	}
	s.Description = description.String
	s.LogoURL = logoURL.String
	s.Policies = policies.String
	s.SocialLinks = socialLinks.String
	s.ThemeCSS = themeCSS.String
	s.ThemeState = models.ThemeState(themeState)
	if planID.Valid {
		id := int(planID.Int64)
		s.PlanID = &id
	}
	if updated.Valid {
		t := updated.Time
		s.UpdatedAt = &t
	}
	return s, nil
}

func (r *StoreRepository) CreateStore(ctx context.Context, s models.Store) (models.Store, error) {
	res, err := r.DB.ExecContext(ctx, `
INSERT INTO stores (owner_id, name, slug, description, logo_url, policies, social_links, theme_state)
VALUES (?, ?, ?, ?, ?, ?, ?, 'none')`,
		s.OwnerID, s.Name, s.Slug, s.Description, s.LogoURL, s.Policies, s.SocialLinks)
	if err != nil {
		return models.Store{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Store{}, err
	}
	return r.GetStoreByID(ctx, int(id))
}

func (r *StoreRepository) GetStoreByID(ctx context.Context, id int) (models.Store, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = ?`, id)
	s, err := scanStore(row)
	if err == sql.ErrNoRows {
		return models.Store{}, models.ErrStoreNotFound
	}
	return s, err
}

func (r *StoreRepository) GetStoreBySlug(ctx context.Context, slug string) (models.Store, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+storeColumns+` FROM stores WHERE slug = ?`, slug)
	s, err := scanStore(row)
	if err == sql.ErrNoRows {
		return models.Store{}, models.ErrStoreNotFound
	}
	return s, err
}

func (r *StoreRepository) GetStoreByOwner(ctx context.Context, ownerID int) (models.Store, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+storeColumns+` FROM stores WHERE owner_id = ?`, ownerID)
	s, err := scanStore(row)
	if err == sql.ErrNoRows {
		return models.Store{}, models.ErrStoreNotFound
	}
	return s, err
}

func (r *StoreRepository) UpdateStore(ctx context.Context, s models.Store) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE stores
SET name = ?, description = ?, logo_url = ?, policies = ?, social_links = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`,
		s.Name, s.Description, s.LogoURL, s.Policies, s.SocialLinks, s.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrStoreNotFound
	}
	return nil
}

// SetThemeState persists the theme lifecycle in one atomic update: published
// CSS on publish, the reset sentinel on reset. The sentinel is a shared-row
// fact so every session of the store agrees on it.
func (r *StoreRepository) SetThemeState(ctx context.Context, storeID int, state models.ThemeState, themeCSS string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE stores SET theme_state = ?, theme_css = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, string(state), themeCSS, storeID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrStoreNotFound
	}
	return nil
}

// ClearResetSentinel moves a store off the reset sentinel once a new design is
// staged. Published stores are untouched; their live theme stays live.
func (r *StoreRepository) ClearResetSentinel(ctx context.Context, storeID int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE stores SET theme_state = 'none', updated_at = CURRENT_TIMESTAMP WHERE id = ? AND theme_state = 'reset'`, storeID)
	return err
}

func (r *StoreRepository) SetPlan(ctx context.Context, storeID, planID int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE stores SET plan_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, planID, storeID)
	return err
}
