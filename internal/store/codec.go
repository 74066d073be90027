package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"freightcalc/internal/rates"
	"freightcalc/internal/surcharge"
)

// The products table stores rate tables and surcharge catalogs as jsonb
// blobs produced by the spreadsheet importer. They are decoded into typed
// structures here, once at load time; nothing downstream ever touches raw
// JSON or matches on title text.

type rateBandJSON struct {
	Weight float64                    `json:"weight"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

func parseRateTable(raw []byte) (rates.Table, error) {
	var bands []rateBandJSON
	if err := json.Unmarshal(raw, &bands); err != nil {
		return nil, fmt.Errorf("decode zone_rates: %w", err)
	}
	table := make(rates.Table, 0, len(bands))
	for _, b := range bands {
		band := rates.Band{Weight: b.Weight, Rates: make(map[int]decimal.Decimal, len(b.Rates))}
		for key, rate := range b.Rates {
			zone, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("zone_rates band %g: bad zone key %q", b.Weight, key)
			}
			band.Rates[zone] = rate
		}
		table = append(table, band)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("zone_rates: %w", err)
	}
	return table, nil
}

type pssPeriodJSON struct {
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Amount    decimal.Decimal `json:"amount"`
}

type itemJSON struct {
	ID        string                     `json:"id"`
	Label     string                     `json:"label"`
	Fees      map[string]decimal.Decimal `json:"fees"`
	Rate      decimal.Decimal            `json:"rate"`
	MinCharge decimal.Decimal            `json:"min_charge"`
	Method    string                     `json:"calculation_method"`
	ValidFrom string                     `json:"valid_from"`
	ValidTo   string                     `json:"valid_to"`
}

type categoryJSON struct {
	Kind       string          `json:"kind"`
	Title      string          `json:"title"`
	Items      []itemJSON      `json:"items"`
	PSSPeriods []pssPeriodJSON `json:"pss_periods"`
}

func parseCatalog(raw []byte) (surcharge.Catalog, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var cats []categoryJSON
	if err := json.Unmarshal(raw, &cats); err != nil {
		return nil, fmt.Errorf("decode surcharges: %w", err)
	}

	catalog := make(surcharge.Catalog, 0, len(cats))
	for _, c := range cats {
		kind := surcharge.RuleKind(c.Kind)
		if !surcharge.KnownKind(kind) {
			return nil, fmt.Errorf("surcharges: unknown category kind %q", c.Kind)
		}
		cat := surcharge.Category{Kind: kind, Title: c.Title}
		for _, it := range c.Items {
			if it.ID == "" {
				return nil, fmt.Errorf("surcharges %q: item without id", c.Kind)
			}
			item := surcharge.Item{
				ID:        it.ID,
				Label:     it.Label,
				Rate:      it.Rate,
				MinCharge: it.MinCharge,
				Flat:      it.Method == "flat",
			}
			if len(it.Fees) > 0 {
				item.Fees = make(map[int]decimal.Decimal, len(it.Fees))
				for key, fee := range it.Fees {
					zone, err := strconv.Atoi(key)
					if err != nil {
						return nil, fmt.Errorf("surcharges %q item %q: bad zone key %q", c.Kind, it.ID, key)
					}
					item.Fees[zone] = fee
				}
			}
			if it.ValidFrom != "" && it.ValidTo != "" {
				from, err := parseDate(it.ValidFrom)
				if err != nil {
					return nil, fmt.Errorf("surcharges %q item %q: %w", c.Kind, it.ID, err)
				}
				to, err := parseDate(it.ValidTo)
				if err != nil {
					return nil, fmt.Errorf("surcharges %q item %q: %w", c.Kind, it.ID, err)
				}
				item.ValidFrom, item.ValidTo = &from, &to
			}
			cat.Items = append(cat.Items, item)
		}
		for _, p := range c.PSSPeriods {
			start, err := parseDate(p.StartDate)
			if err != nil {
				return nil, fmt.Errorf("surcharges %q pss period: %w", c.Kind, err)
			}
			end, err := parseDate(p.EndDate)
			if err != nil {
				return nil, fmt.Errorf("surcharges %q pss period: %w", c.Kind, err)
			}
			cat.PSSPeriods = append(cat.PSSPeriods, surcharge.PSSPeriod{Start: start, End: end, Amount: p.Amount})
		}
		catalog = append(catalog, cat)
	}
	return catalog, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q", s)
	}
	return t, nil
}
