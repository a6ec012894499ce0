package repository

import (
	"context"
	"database/sql"

	"github.com/unclebandit/collabhub-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	ListCampaigns(ctx context.Context) ([]model.Campaign, error)
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	Create(ctx context.Context, c *model.Campaign) error
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, title, business, category, description, min_followers`

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	query := `
        INSERT INTO campaigns (id, title, business, category, description, min_followers)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.DB.ExecContext(ctx, query, c.ID.String(), c.Title, c.Business, c.Category, c.Description, c.MinFollowers)
	return err
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1`
	c, err := scanCampaign(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	return listCampaigns(ctx, r.DB)
}

func listCampaigns(ctx context.Context, q querier) ([]model.Campaign, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+campaignColumns+` FROM campaigns ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*model.Campaign, error) {
	var (
		c           model.Campaign
		id          string
		category    sql.NullString
		description sql.NullString
	)
	if err := row.Scan(&id, &c.Title, &c.Business, &category, &description, &c.MinFollowers); err != nil {
		return nil, err
	}
	c.ID = model.FlexID(id)
	c.Category = category.String
	c.Description = description.String
	return &c, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
