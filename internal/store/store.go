package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"freightcalc/internal/engine"
	"freightcalc/internal/fuel"
	"freightcalc/internal/zones"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInactive = errors.New("product is not active")
	ErrOriginNotFound  = errors.New("origin postal code is not configured")
	ErrZoneNotFound    = errors.New("destination postal code is not mapped to a zone")
)

// Store reads rate data from Postgres and hands the engine immutable,
// already-typed snapshots.
type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Product loads an active product with its rate table and surcharge catalog
// decoded into typed structures.
func (s *Store) Product(ctx context.Context, id int64) (*engine.Product, error) {
	var (
		name, carrier, status string
		dimFactor             float64
		ratesRaw, catalogRaw  []byte
	)
	err := s.db.QueryRow(ctx, `
        SELECT name, carrier, status, COALESCE(dim_factor, 250),
               zone_rates, COALESCE(surcharges, '[]'::jsonb)
        FROM products
        WHERE id = $1
    `, id).Scan(&name, &carrier, &status, &dimFactor, &ratesRaw, &catalogRaw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}
	if status != "active" {
		return nil, ErrProductInactive
	}

	table, err := parseRateTable(ratesRaw)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	catalog, err := parseCatalog(catalogRaw)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}

	return &engine.Product{
		ID:        id,
		Name:      name,
		Carrier:   carrier,
		DimFactor: dimFactor,
		Rates:     table,
		Catalog:   catalog,
	}, nil
}

// ActiveFuelRate returns the fuel rate in effect at the given time, newest
// effective date first. No active record is not an error: the engine then
// charges 0% fuel.
func (s *Store) ActiveFuelRate(ctx context.Context, at time.Time) (*fuel.Rate, error) {
	var (
		pct       float64
		effective time.Time
		expiry    *time.Time
	)
	err := s.db.QueryRow(ctx, `
        SELECT rate, effective_date, expiry_date
        FROM fuel_rates
        WHERE is_active
          AND effective_date <= $1
          AND (expiry_date IS NULL OR expiry_date >= $1)
        ORDER BY effective_date DESC
        LIMIT 1
    `, at).Scan(&pct, &effective, &expiry)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load fuel rate: %w", err)
	}
	return &fuel.Rate{
		Percent:   decimal.NewFromFloat(pct),
		Effective: effective,
		Expiry:    expiry,
		Active:    true,
	}, nil
}

// Resolve maps an origin/destination postal pair to a zone and remote
// classification. Implements zones.Resolver.
func (s *Store) Resolve(ctx context.Context, fromPostal, toPostal string) (zones.Info, error) {
	var originID int64
	err := s.db.QueryRow(ctx, `SELECT id FROM origin_postals WHERE postal_code = $1`, fromPostal).Scan(&originID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zones.Info{}, ErrOriginNotFound
		}
		return zones.Info{}, fmt.Errorf("resolve origin %q: %w", fromPostal, err)
	}

	var zone int
	err = s.db.QueryRow(ctx, `
        SELECT zone
        FROM postal_zone_ranges
        WHERE origin_id = $1 AND $2 BETWEEN range_start AND range_end
        LIMIT 1
    `, originID, toPostal).Scan(&zone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zones.Info{}, ErrZoneNotFound
		}
		return zones.Info{}, fmt.Errorf("resolve zone for %q: %w", toPostal, err)
	}

	info := zones.Info{Zone: zone}
	var class string
	err = s.db.QueryRow(ctx, `SELECT das_class FROM remote_postals WHERE postal_code = $1 LIMIT 1`, toPostal).Scan(&class)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return zones.Info{}, fmt.Errorf("resolve remote class for %q: %w", toPostal, err)
		}
		return info, nil
	}
	info.Remote = true
	info.Class = zones.RemoteClass(class)
	return info, nil
}

// HistoryEntry is one saved calculation.
type HistoryEntry struct {
	ID          uuid.UUID `json:"id"`
	ProductID   int64     `json:"productId"`
	FromPostal  string    `json:"fromPostalCode"`
	ToPostal    string    `json:"toPostalCode,omitempty"`
	LengthCm    float64   `json:"lengthCm"`
	WidthCm     float64   `json:"widthCm"`
	HeightCm    float64   `json:"heightCm"`
	WeightKg    float64   `json:"weightKg"`
	Residential bool      `json:"isResidential"`
	Zone        int       `json:"zone"`
	TotalAmount float64   `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SaveHistory records a completed single-zone calculation.
func (s *Store) SaveHistory(ctx context.Context, h HistoryEntry) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO calculation_history (
            id, product_id, from_postal, to_postal,
            length_cm, width_cm, height_cm, weight_kg,
            is_residential, zone, total_amount, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `,
		h.ID, h.ProductID, h.FromPostal, h.ToPostal,
		h.LengthCm, h.WidthCm, h.HeightCm, h.WeightKg,
		h.Residential, h.Zone, h.TotalAmount, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// RecentHistory lists the newest calculations first.
func (s *Store) RecentHistory(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, product_id, from_postal, to_postal,
               length_cm, width_cm, height_cm, weight_kg,
               is_residential, zone, total_amount, created_at
        FROM calculation_history
        ORDER BY created_at DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(
			&h.ID, &h.ProductID, &h.FromPostal, &h.ToPostal,
			&h.LengthCm, &h.WidthCm, &h.HeightCm, &h.WeightKg,
			&h.Residential, &h.Zone, &h.TotalAmount, &h.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
