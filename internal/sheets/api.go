package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// spreadsheetAPI is the slice of the Sheets API the store relies on.
type spreadsheetAPI interface {
	GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]any, error)
	UpdateValues(ctx context.Context, spreadsheetID, writeRange string, values [][]any) error
	ClearValues(ctx context.Context, spreadsheetID, clearRange string) error
	Create(ctx context.Context, title, timeZone, worksheet string) (id, url string, err error)
	SheetID(ctx context.Context, spreadsheetID, worksheet string) (int64, error)
	BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error
}

// serviceAPI implements spreadsheetAPI on the generated Sheets client.
type serviceAPI struct {
	service *sheets.Service
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		if config.RefreshToken == "" {
			saved, err := LoadToken(config.TokenFile)
			if err != nil {
				return nil, fmt.Errorf("unable to load token file %s: %w", config.TokenFile, err)
			}
			token = saved
		}

		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

func (a *serviceAPI) GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]any, error) {
	resp, err := a.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (a *serviceAPI) UpdateValues(ctx context.Context, spreadsheetID, writeRange string, values [][]any) error {
	_, err := a.service.Spreadsheets.Values.Update(spreadsheetID, writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (a *serviceAPI) ClearValues(ctx context.Context, spreadsheetID, clearRange string) error {
	_, err := a.service.Spreadsheets.Values.Clear(spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	return err
}

func (a *serviceAPI) Create(ctx context.Context, title, timeZone, worksheet string) (string, string, error) {
	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    title,
			TimeZone: timeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: worksheet,
				},
			},
		},
	}

	created, err := a.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", "", err
	}
	return created.SpreadsheetId, created.SpreadsheetUrl, nil
}

func (a *serviceAPI) SheetID(ctx context.Context, spreadsheetID, worksheet string) (int64, error) {
	spreadsheet, err := a.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return 0, err
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == worksheet {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("worksheet %q not found in spreadsheet %s", worksheet, spreadsheetID)
}

func (a *serviceAPI) BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error {
	_, err := a.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}
