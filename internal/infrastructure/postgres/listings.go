package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cartribe/backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listingColumns = `id::text, year, make, model, price, miles, location, images,
	COALESCE(description, ''), COALESCE(engine, ''), COALESCE(transmission, ''),
	COALESCE(drivetrain, ''), COALESCE(vin, ''), COALESCE(seller_name, ''), status`

// ListingStore reads member-submitted listings from Postgres
type ListingStore struct {
	pool *pgxpool.Pool
}

// Open connects to Postgres and verifies the connection
func Open(ctx context.Context, databaseURL string) (*ListingStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &ListingStore{pool: pool}, nil
}

func (s *ListingStore) Close() { s.pool.Close() }

// EnsureSchema creates the listings table if it does not exist
func (s *ListingStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE TABLE IF NOT EXISTS listings (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			year          INTEGER NOT NULL,
			make          TEXT NOT NULL,
			model         TEXT NOT NULL,
			price         INTEGER NOT NULL,
			miles         INTEGER NOT NULL DEFAULT 0,
			location      TEXT NOT NULL,
			images        TEXT[] NOT NULL DEFAULT '{}',
			description   TEXT,
			engine        TEXT,
			transmission  TEXT,
			drivetrain    TEXT,
			vin           TEXT,
			seller_name   TEXT,
			status        TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'active', 'sold')),
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_status_created ON listings(status, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// ListActive returns approved listings, newest first
func (s *ListingStore) ListActive(ctx context.Context) ([]domain.Listing, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE status = 'active' ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query active listings: %w", err)
	}
	defer rows.Close()

	out := []domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active listings: %w", err)
	}
	return out, nil
}

// GetByID returns one listing regardless of status
func (s *ListingStore) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	l, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrListingNotFound
	}
	return l, err
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var r listingRow
	err := row.Scan(&r.ID, &r.Year, &r.Make, &r.Model, &r.Price, &r.Miles, &r.Location, &r.Images,
		&r.Description, &r.Engine, &r.Transmission, &r.Drivetrain, &r.VIN, &r.SellerName, &r.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan listing: %w", err)
	}
	return r.toDomain(), nil
}

type listingRow struct {
	ID           string
	Year         int
	Make         string
	Model        string
	Price        int
	Miles        int
	Location     string
	Images       []string
	Description  string
	Engine       string
	Transmission string
	Drivetrain   string
	VIN          string
	SellerName   string
	Status       string
}

func (r listingRow) toDomain() *domain.Listing {
	tag := domain.TribeForMake(r.Make)
	images := r.Images
	if images == nil {
		images = []string{}
	}
	imageURL := ""
	if len(images) > 0 {
		imageURL = images[0]
	}

	return &domain.Listing{
		ID:           r.ID,
		Year:         r.Year,
		Make:         r.Make,
		Model:        r.Model,
		Price:        r.Price,
		MSRP:         r.Price,
		CurrentBid:   r.Price,
		Tag:          tag,
		Miles:        r.Miles,
		MilesDisplay: domain.MilesDisplay(r.Miles),
		Location:     r.Location,
		Description:  r.Description,
		Media:        domain.Media{PhotoLinks: images},
		Images:       images,
		ImageURL:     imageURL,
		Specs: domain.Specs{
			Engine:       r.Engine,
			Transmission: r.Transmission,
			Drivetrain:   r.Drivetrain,
			VIN:          r.VIN,
		},
		VIN: r.VIN,
		Seller: domain.Seller{
			Name:   r.SellerName,
			Type:   domain.SellerTypePrivate,
			Tribes: []domain.Tribe{tag},
		},
		Origin: domain.OriginTribe,
		Source: domain.SourceInternal,
		Status: r.Status,
	}
}
