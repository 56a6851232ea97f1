package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"benri/internal/amazon"
	benrierrors "benri/internal/errors"
	"benri/internal/logging"
)

// headerOrder fixes the column layout for product rows.
var headerOrder = []string{
	"title",
	"price",
	"rating",
	"review_count",
	"availability",
	"image_url",
	"url",
	"description",
}

// Syncer writes product rows to one worksheet of a spreadsheet.
type Syncer struct {
	service       *sheetsapi.Service
	spreadsheetID string
	worksheet     string
	logger        logging.Logger
	retry         benrierrors.RetryConfig
}

// NewSyncer authenticates with a service account key file and targets
// one worksheet. The worksheet is created on first sync if missing.
func NewSyncer(ctx context.Context, serviceAccountFile, spreadsheetID, worksheet string, logger logging.Logger) (*Syncer, error) {
	if _, err := os.Stat(serviceAccountFile); err != nil {
		return nil, fmt.Errorf("service account file %s: %w", serviceAccountFile, err)
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}
	if worksheet == "" {
		worksheet = "products"
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(serviceAccountFile))
	if err != nil {
		return nil, fmt.Errorf("build sheets service: %w", err)
	}
	return &Syncer{
		service:       service,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
		logger:        logging.OrNop(logger),
		retry: benrierrors.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			MaxDelay:    10 * time.Second,
		},
	}, nil
}

// BuildRows converts products into a header row plus one row per
// product, columns in headerOrder.
func BuildRows(products []amazon.Product) [][]any {
	rows := make([][]any, 0, len(products)+1)

	header := make([]any, len(headerOrder))
	for i, h := range headerOrder {
		header[i] = h
	}
	rows = append(rows, header)

	for _, p := range products {
		rows = append(rows, []any{
			p.Title,
			p.Price,
			p.Rating,
			p.ReviewCount,
			p.Availability,
			p.ImageURL,
			p.URL,
			p.Description,
		})
	}
	return rows
}

// Sync replaces the worksheet contents with the given products. An
// empty product list leaves the sheet untouched.
func (s *Syncer) Sync(ctx context.Context, products []amazon.Product) error {
	if len(products) == 0 {
		s.logger.Info("no products to sync, leaving %s untouched", s.worksheet)
		return nil
	}

	if err := s.ensureWorksheet(ctx); err != nil {
		return err
	}

	rows := BuildRows(products)
	return benrierrors.Retry(ctx, s.retry, s.logger, func(ctx context.Context) error {
		_, err := s.service.Spreadsheets.Values.Clear(
			s.spreadsheetID, s.worksheet, &sheetsapi.ClearValuesRequest{}).Context(ctx).Do()
		if err != nil {
			return wrapStatus(fmt.Sprintf("clear %s", s.worksheet), err)
		}

		_, err = s.service.Spreadsheets.Values.Update(
			s.spreadsheetID, s.worksheet+"!A1", &sheetsapi.ValueRange{Values: rows}).
			ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return wrapStatus(fmt.Sprintf("update %s", s.worksheet), err)
		}
		s.logger.Info("synced %d products to %s", len(products), s.worksheet)
		return nil
	})
}

// wrapStatus surfaces the HTTP status of a Google API error so the
// retry layer can tell rate limits and outages from permanent failures.
func wrapStatus(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", op, &benrierrors.HTTPStatusError{
			Status: apiErr.Code,
			Body:   apiErr.Message,
		})
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ensureWorksheet adds the target worksheet when the spreadsheet does
// not have it yet.
func (s *Syncer) ensureWorksheet(ctx context.Context) error {
	spreadsheet, err := s.service.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == s.worksheet {
			return nil
		}
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{
					Title: s.worksheet,
					GridProperties: &sheetsapi.GridProperties{
						RowCount:    200,
						ColumnCount: 20,
					},
				},
			},
		}},
	}
	if _, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("create worksheet %s: %w", s.worksheet, err)
	}
	s.logger.Info("created worksheet %s", s.worksheet)
	return nil
}
