package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type Deal struct {
	ID            string   `json:"id"`
	CustomerName  string   `json:"customerName"`
	CustomerType  string   `json:"customerType"`
	DealType      string   `json:"dealType"`
	DealStatus    string   `json:"dealStatus"`
	FinancialYear string   `json:"financial_year,omitempty"`
	SalesforceID  string   `json:"salesforceId,omitempty"`
	DealSummary   string   `json:"dealSummary,omitempty"`
	DealForecast  *float64 `json:"-"`
	DealActual    *float64 `json:"-"`
	CSMLocation   string   `json:"csmLocation,omitempty"`
	DateWon       string   `json:"date_won,omitempty"`
}

type dealWire struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customerName"`
	CustomerType  string          `json:"customerType"`
	DealType      string          `json:"dealType"`
	DealStatus    string          `json:"dealStatus"`
	FinancialYear string          `json:"financial_year,omitempty"`
	SalesforceID  string          `json:"salesforceId,omitempty"`
	DealSummary   string          `json:"dealSummary,omitempty"`
	DealForecast  json.RawMessage `json:"dealForecast,omitempty"`
	DealActual    json.RawMessage `json:"dealActual,omitempty"`
	CSMLocation   string          `json:"csmLocation,omitempty"`
	DateWon       string          `json:"date_won,omitempty"`
}

// UnmarshalJSON accepts forecast/actual amounts as numbers or numeric strings;
// the form posts whatever the input held.
func (d *Deal) UnmarshalJSON(b []byte) error {
	var w dealWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*d = Deal{
		ID:            w.ID,
		CustomerName:  w.CustomerName,
		CustomerType:  w.CustomerType,
		DealType:      w.DealType,
		DealStatus:    w.DealStatus,
		FinancialYear: w.FinancialYear,
		SalesforceID:  w.SalesforceID,
		DealSummary:   w.DealSummary,
		DealForecast:  parseAmount(w.DealForecast),
		DealActual:    parseAmount(w.DealActual),
		CSMLocation:   w.CSMLocation,
		DateWon:       w.DateWon,
	}
	return nil
}

func (d Deal) MarshalJSON() ([]byte, error) {
	w := dealWire{
		ID:            d.ID,
		CustomerName:  d.CustomerName,
		CustomerType:  d.CustomerType,
		DealType:      d.DealType,
		DealStatus:    d.DealStatus,
		FinancialYear: d.FinancialYear,
		SalesforceID:  d.SalesforceID,
		DealSummary:   d.DealSummary,
		CSMLocation:   d.CSMLocation,
		DateWon:       d.DateWon,
	}
	if d.DealForecast != nil {
		w.DealForecast = json.RawMessage(formatAmount(d.DealForecast))
	}
	if d.DealActual != nil {
		w.DealActual = json.RawMessage(formatAmount(d.DealActual))
	}
	return json.Marshal(w)
}

func parseAmount(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}
