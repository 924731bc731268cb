package portfolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// csvHeader is the canonical column order for exposure CSV files. Optional
// trailing columns may be omitted per row.
var csvHeader = []string{
	"exposure_id", "run_id", "counterparty_id", "netting_set_id", "entity",
	"product_type", "exposure_class", "notional", "ead", "pd", "lgd", "ccf",
	"maturity_years", "currency", "collateral_amount", "mark_to_market",
	"off_balance_amount", "provisions", "stage", "days_past_due",
	"pd_origination", "defaulted", "origin_date", "asset_class",
	"annual_turnover_m",
}

// ReadCSV loads an exposure table from a CSV file. The file must carry the
// canonical header row; rows are returned unvalidated (validation happens at
// the engine boundary so strict/lenient handling stays with the caller).
func ReadCSV(path string) ([]Exposure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(rd io.Reader) ([]Exposure, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := col["exposure_id"]; !ok {
		return nil, fmt.Errorf("missing exposure_id column (expected header like %s)", strings.Join(csvHeader[:7], ","))
	}

	var out []Exposure
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		num := func(name string) (float64, error) {
			s := get(name)
			if s == "" {
				return 0, nil
			}
			return strconv.ParseFloat(s, 64)
		}

		e := Exposure{
			ExposureID:     get("exposure_id"),
			RunID:          get("run_id"),
			CounterpartyID: get("counterparty_id"),
			NettingSetID:   get("netting_set_id"),
			Entity:         get("entity"),
			ProductType:    ProductType(get("product_type")),
			Class:          ExposureClass(get("exposure_class")),
			Currency:       get("currency"),
			AssetClass:     DerivativeClass(get("asset_class")),
		}

		fields := []struct {
			name string
			dst  *float64
		}{
			{"notional", &e.Notional},
			{"ead", &e.EAD},
			{"pd", &e.PD},
			{"lgd", &e.LGD},
			{"ccf", &e.CCF},
			{"maturity_years", &e.MaturityYears},
			{"collateral_amount", &e.CollateralAmount},
			{"mark_to_market", &e.MarkToMarket},
			{"off_balance_amount", &e.OffBalanceAmount},
			{"provisions", &e.Provisions},
			{"pd_origination", &e.PDOrigination},
			{"annual_turnover_m", &e.AnnualTurnoverM},
		}
		for _, f := range fields {
			v, err := num(f.name)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, f.name, err)
			}
			*f.dst = v
		}

		if s := get("stage"); s != "" {
			st, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("line %d: stage: %w", line, err)
			}
			e.Stage = st
		} else {
			e.Stage = 1
		}
		if s := get("days_past_due"); s != "" {
			d, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("line %d: days_past_due: %w", line, err)
			}
			e.DaysPastDue = d
		}
		if s := get("defaulted"); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return nil, fmt.Errorf("line %d: defaulted: %w", line, err)
			}
			e.Defaulted = b
		}
		if s := get("origin_date"); s != "" {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				t, err = time.Parse(time.RFC3339, s)
			}
			if err != nil {
				return nil, fmt.Errorf("line %d: origin_date: %w", line, err)
			}
			e.OriginDate = t
		}

		out = append(out, e)
	}
	return out, nil
}
