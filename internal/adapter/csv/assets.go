package csv

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/simaogato/stockpicker-backend/internal/domain"
)

// Row is one line of an asset file: symbol,price,expected_return
type Row struct {
	Symbol         string `csv:"symbol"`
	Price          string `csv:"price"`
	ExpectedReturn string `csv:"expected_return"`
}

// ReadAssets parses an asset file
// Values are kept as text until domain.ParseAsset so a bad cell reports its row
func ReadAssets(r io.Reader) ([]domain.Asset, error) {
	rows := []Row{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to read assets csv: %w", err)
	}

	assets := make([]domain.Asset, 0, len(rows))
	for i, row := range rows {
		asset, err := domain.ParseAsset(i, row.Symbol, row.Price, row.ExpectedReturn)
		if err != nil {
			return nil, err
		}
		if err := domain.ValidateAssetValues(i, asset); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// WriteAssets writes assets in the format ReadAssets accepts
func WriteAssets(w io.Writer, assets []domain.Asset) error {
	rows := make([]Row, 0, len(assets))
	for _, a := range assets {
		rows = append(rows, Row{
			Symbol:         a.Symbol,
			Price:          a.Price.String(),
			ExpectedReturn: a.ExpectedReturn.String(),
		})
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write assets csv: %w", err)
	}
	return nil
}
