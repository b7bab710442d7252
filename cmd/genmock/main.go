// Command genmock builds the mock datasets from hand-edited CSV sheets. The
// price-book sheet becomes the JSON price book; the optional centroid sheet
// becomes a GeoJSON collection with one square polygon per ZIP, close enough
// to real ZCTA shapes for local development.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -pricebook-csv data/mock/pricebook.csv \
//	  -pricebook-out data/mock/pricebook.json \
//	  -centroids-csv data/mock/zip_centroids.csv \
//	  -boundaries-out data/mock/zip_boundaries.geojson
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/shopspring/decimal"

	"github.com/scopesignals/coverage/internal/domain"
)

// squareHalfSize is half the edge of a generated ZIP square, in degrees.
const squareHalfSize = 0.012

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	priceBookCSV := flag.String("pricebook-csv", "", "price-book sheet (module,zips,tier,monthly_price,expected_leads,yearly_volume)")
	priceBookOut := flag.String("pricebook-out", "", "output path for the price-book JSON")
	centroidsCSV := flag.String("centroids-csv", "", "optional ZIP centroid sheet (zip,lat,lon)")
	boundariesOut := flag.String("boundaries-out", "", "output path for the boundary GeoJSON")
	flag.Parse()

	if *priceBookCSV == "" || *priceBookOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -pricebook-csv, -pricebook-out")
	}

	rows, err := readCSV(*priceBookCSV)
	if err != nil {
		return err
	}
	entries, err := toEntries(rows)
	if err != nil {
		return fmt.Errorf("processing %s: %w", *priceBookCSV, err)
	}
	if err := writeJSON(*priceBookOut, entries); err != nil {
		return fmt.Errorf("writing price book: %w", err)
	}
	log.Printf("wrote price book: %s (%d rows)", *priceBookOut, len(entries))
	printStats(entries)

	if *centroidsCSV == "" {
		return nil
	}
	if *boundariesOut == "" {
		return fmt.Errorf("-boundaries-out is required with -centroids-csv")
	}
	rows, err = readCSV(*centroidsCSV)
	if err != nil {
		return err
	}
	fc, err := toSquares(rows)
	if err != nil {
		return fmt.Errorf("processing %s: %w", *centroidsCSV, err)
	}
	if err := writeJSON(*boundariesOut, fc); err != nil {
		return fmt.Errorf("writing boundaries: %w", err)
	}
	log.Printf("wrote boundaries: %s (%d features)", *boundariesOut, len(fc.Features))
	return nil
}

// csvRow is a parsed CSV row with field values keyed by header name.
type csvRow map[string]string

func readCSV(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	header := records[0]
	rows := make([]csvRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(csvRow, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[strings.TrimSpace(h)] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toEntries(rows []csvRow) ([]domain.PriceBookEntry, error) {
	entries := make([]domain.PriceBookEntry, 0, len(rows))
	for i, row := range rows {
		module, err := domain.ParseModule(row["module"])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		e := domain.PriceBookEntry{
			Module: module,
			Zips:   row["zips"],
			Tier:   row["tier"],
		}
		if v := row["monthly_price"]; v != "" {
			if e.MonthlyPrice, err = decimal.NewFromString(strings.TrimPrefix(v, "$")); err != nil {
				return nil, fmt.Errorf("row %d: monthly_price: %w", i+1, err)
			}
		}
		if e.ExpectedLeads, err = parseOptionalFloat(row["expected_leads"]); err != nil {
			return nil, fmt.Errorf("row %d: expected_leads: %w", i+1, err)
		}
		if e.YearlyVolume, err = parseOptionalFloat(row["yearly_volume"]); err != nil {
			return nil, fmt.Errorf("row %d: yearly_volume: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func toSquares(rows []csvRow) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for i, row := range rows {
		lat, err := strconv.ParseFloat(row["lat"], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: lat: %w", i+1, err)
		}
		lon, err := strconv.ParseFloat(row["lon"], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: lon: %w", i+1, err)
		}
		const d = squareHalfSize
		f := geojson.NewFeature(orb.Polygon{orb.Ring{
			{lon - d, lat - d}, {lon + d, lat - d}, {lon + d, lat + d}, {lon - d, lat + d}, {lon - d, lat - d},
		}})
		f.Properties[domain.ZipPropertyKeys[0]] = row["zip"]
		fc.Append(f)
	}
	return fc, nil
}

func parseOptionalFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644) //nolint:gosec // fixture output
}

func printStats(entries []domain.PriceBookEntry) {
	for _, m := range domain.Modules {
		counts := map[domain.Tier]int{}
		for _, g := range domain.BuildGroups(entries, m) {
			counts[g.Tier.Tier]++
		}
		log.Printf("%s: %d premium, %d high, %d low, %d bonus, %d unknown",
			m, counts[domain.TierPremium], counts[domain.TierHigh], counts[domain.TierLow],
			counts[domain.TierBonus], counts[domain.TierUnknown])
	}
}
