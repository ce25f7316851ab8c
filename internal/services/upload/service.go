// Package upload implements the balance-file reconciliation pipeline:
// validate file metadata, parse, resolve each row against known accounts,
// and upsert one balance record per account per period.
package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/config"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/models"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/services/parser"
)

// Store is the persistence collaborator for one upload. Transact scopes all
// writes of a batch to a single transaction; the account-period uniqueness
// invariant itself is enforced by the storage layer's composite unique index.
type Store interface {
	ActiveAccounts(ctx context.Context) ([]models.Account, error)
	UpsertBalance(ctx context.Context, accountID uuid.UUID, year, month int, amount decimal.Decimal, uploadedBy uuid.UUID) error
	RecordBatch(ctx context.Context, batch *models.UploadBatch) error
	Transact(ctx context.Context, fn func(Store) error) error
}

// ParserFactory resolves a file extension to a parser.
type ParserFactory interface {
	CreateParser(extension string) (parser.Parser, error)
	SupportedExtensions() []string
}

type Service struct {
	store    Store
	factory  ParserFactory
	settings config.FileUploadSettings
	log      zerolog.Logger
}

func NewService(store Store, factory ParserFactory, settings config.FileUploadSettings, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		factory:  factory,
		settings: settings,
		log:      log,
	}
}

// Execute runs the whole pipeline for one uploaded file and never returns an
// error: every failure mode lands in the Result, row-level ones without
// aborting the batch.
func (s *Service) Execute(ctx context.Context, file io.Reader, fileName string, fileSize int64, year, month int, uploadedBy uuid.UUID) *parser.Result {
	res := parser.NewResult()

	if !s.validateFile(fileName, fileSize, res) {
		return res
	}

	records := s.parseFile(ctx, file, fileName, res)
	if !res.Success && len(records) == 0 {
		return res
	}

	if len(records) > s.settings.MaxRecordsPerFile {
		res.Success = false
		res.Errors = append(res.Errors,
			fmt.Sprintf("File contains too many records (maximum %d)", s.settings.MaxRecordsPerFile))
		return res
	}

	var processed, skipped int
	var invalidAccounts []string

	err := s.store.Transact(ctx, func(tx Store) error {
		accounts, err := tx.ActiveAccounts(ctx)
		if err != nil {
			return err
		}

		lookup := make(map[string]models.Account, len(accounts))
		for _, account := range accounts {
			lookup[strings.ToLower(account.Name)] = account
		}

		for _, record := range records {
			account, ok := lookup[strings.ToLower(record.AccountName)]
			if !ok {
				invalidAccounts = append(invalidAccounts, record.AccountName)
				res.Errors = append(res.Errors,
					fmt.Sprintf("Invalid Account: '%s' - Account does not exist in the system", record.AccountName))
				skipped++
				s.log.Warn().Str("account", record.AccountName).Msg("invalid account found during upload")
				continue
			}

			if err := tx.UpsertBalance(ctx, account.ID, year, month, record.Amount, uploadedBy); err != nil {
				res.Errors = append(res.Errors,
					fmt.Sprintf("Failed to process account '%s': %s", record.AccountName, err))
				skipped++
				s.log.Warn().Err(err).Str("account", record.AccountName).Msg("failed to process record")
				continue
			}
			processed++
		}

		return s.recordBatch(ctx, tx, fileName, year, month, processed, skipped, res.Errors, uploadedBy)
	})
	if err != nil {
		s.log.Error().Err(err).Int("year", year).Int("month", month).Msg("error processing balance upload")
		res.Success = false
		res.Errors = append(res.Errors, fmt.Sprintf("Upload processing failed: %s", err))
		return res
	}

	res.Success = processed > 0
	res.ProcessedRecords = processed
	res.SkippedRecords = skipped
	res.Message = composeMessage(processed, skipped, invalidAccounts)

	s.log.Info().
		Int("processed", processed).
		Int("skipped", skipped).
		Int("invalidAccounts", len(invalidAccounts)).
		Int("year", year).
		Int("month", month).
		Msg("balance upload completed")

	return res
}

func (s *Service) validateFile(fileName string, fileSize int64, res *parser.Result) bool {
	if strings.TrimSpace(fileName) == "" || fileSize == 0 {
		res.Errors = append(res.Errors, "File is required and cannot be empty")
		return false
	}

	if !s.settings.IsValidFileSize(fileSize) {
		res.Errors = append(res.Errors,
			fmt.Sprintf("File size cannot exceed %dMB", s.settings.MaxFileSizeInBytes/(1024*1024)))
		return false
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !s.settings.IsValidExtension(ext) {
		res.Errors = append(res.Errors,
			fmt.Sprintf("Only the following file types are allowed: %s", strings.Join(s.settings.AllowedExtensions, ", ")))
		return false
	}

	return true
}

func (s *Service) parseFile(ctx context.Context, file io.Reader, fileName string, res *parser.Result) []parser.Record {
	p, err := s.factory.CreateParser(filepath.Ext(fileName))
	if err != nil {
		var unsupported *parser.UnsupportedTypeError
		if errors.As(err, &unsupported) {
			res.Errors = append(res.Errors, unsupported.Error())
		} else {
			res.Errors = append(res.Errors, fmt.Sprintf("Error creating parser for file: %s", err))
		}
		res.Success = false
		return nil
	}

	return p.Parse(ctx, file, res)
}

func (s *Service) recordBatch(ctx context.Context, tx Store, fileName string, year, month, processed, skipped int, errs []string, uploadedBy uuid.UUID) error {
	status := models.BatchCompleted
	if processed == 0 {
		status = models.BatchFailed
	}

	// The error list is bounded by MaxRecordsPerFile, small enough to keep
	// alongside the batch row.
	encoded, err := json.Marshal(errs)
	if err != nil {
		return err
	}

	return tx.RecordBatch(ctx, &models.UploadBatch{
		ID:               uuid.New(),
		FileName:         fileName,
		Year:             year,
		Month:            month,
		ProcessedRecords: processed,
		SkippedRecords:   skipped,
		Status:           status,
		Errors:           encoded,
		UploadedBy:       uploadedBy,
		CreatedAt:        time.Now().UTC(),
	})
}

func composeMessage(processed, skipped int, invalidAccounts []string) string {
	switch {
	case processed > 0 && skipped > 0:
		msg := fmt.Sprintf("Partially successful: %d records processed, %d records skipped", processed, skipped)
		if len(invalidAccounts) > 0 {
			shown := invalidAccounts
			if len(shown) > 5 {
				shown = shown[:5]
			}
			msg += fmt.Sprintf(". Invalid accounts found: %s", strings.Join(shown, ", "))
			if len(invalidAccounts) > 5 {
				msg += fmt.Sprintf(" and %d more", len(invalidAccounts)-5)
			}
		}
		return msg
	case processed > 0:
		return fmt.Sprintf("Successfully processed %d records", processed)
	default:
		return fmt.Sprintf("No records processed. %d records skipped due to invalid accounts", skipped)
	}
}
