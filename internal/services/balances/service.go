// Package balances projects persisted balance records into the flat and
// aggregated read views served by the API. Everything here is read-only.
package balances

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/models"
)

// Reader supplies balance records with their accounts attached.
type Reader interface {
	All(ctx context.Context) ([]models.BalanceRecord, error)
	Latest(ctx context.Context) ([]models.BalanceRecord, error)
	ByPeriod(ctx context.Context, year, month int) ([]models.BalanceRecord, error)
}

type Balance struct {
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
	Year    int             `json:"year"`
	Month   int             `json:"month"`
}

// AccountSummary aggregates an account's records: the most recent period as
// the label, and the amount summed across every period ever recorded. The
// sum is a running total, not a point-in-time balance.
type AccountSummary struct {
	AccountName   string          `json:"accountName"`
	AccountID     uuid.UUID       `json:"accountId"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	RecordCount   int             `json:"recordCount"`
}

type Service struct {
	reader Reader
}

func NewService(reader Reader) *Service {
	return &Service{reader: reader}
}

// Latest returns all balances for the most recent period present.
func (s *Service) Latest(ctx context.Context) ([]Balance, error) {
	records, err := s.reader.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return projectBalances(records), nil
}

// ByPeriod returns all balances for the exact (year, month) pair; an unknown
// period yields an empty list, not an error.
func (s *Service) ByPeriod(ctx context.Context, year, month int) ([]Balance, error) {
	records, err := s.reader.ByPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return projectBalances(records), nil
}

// Summary groups every record by account.
func (s *Service) Summary(ctx context.Context) ([]AccountSummary, error) {
	records, err := s.reader.All(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(records), nil
}

// SummaryByPeriod is the same shape restricted to one period, so each account
// contributes at most one record per the upsert invariant.
func (s *Service) SummaryByPeriod(ctx context.Context, year, month int) ([]AccountSummary, error) {
	records, err := s.reader.ByPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return summarize(records), nil
}

func projectBalances(records []models.BalanceRecord) []Balance {
	out := make([]Balance, 0, len(records))
	for _, r := range records {
		out = append(out, Balance{
			Account: r.Account.Name,
			Amount:  r.Amount,
			Year:    r.Year,
			Month:   r.Month,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account < out[j].Account })
	return out
}

func summarize(records []models.BalanceRecord) []AccountSummary {
	byAccount := make(map[uuid.UUID]*AccountSummary)

	for _, r := range records {
		summary, ok := byAccount[r.AccountID]
		if !ok {
			byAccount[r.AccountID] = &AccountSummary{
				AccountName:   r.Account.Name,
				AccountID:     r.AccountID,
				Year:          r.Year,
				Month:         r.Month,
				TotalAmount:   r.Amount,
				LastUpdatedAt: r.UploadedAt,
				RecordCount:   1,
			}
			continue
		}

		summary.TotalAmount = summary.TotalAmount.Add(r.Amount)
		summary.RecordCount++
		if r.Year > summary.Year || (r.Year == summary.Year && r.Month > summary.Month) {
			summary.Year = r.Year
			summary.Month = r.Month
		}
		if r.UploadedAt.After(summary.LastUpdatedAt) {
			summary.LastUpdatedAt = r.UploadedAt
		}
	}

	out := make([]AccountSummary, 0, len(byAccount))
	for _, summary := range byAccount {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountName < out[j].AccountName })
	return out
}
