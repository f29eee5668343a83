package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Plan features.
const (
	FeatureRenewable = "renewable"
	FeatureGuarantee = "guarantee"
	FeatureNoDeposit = "no-deposit"
)

// BillTier is the estimated monthly bill in dollars at a usage breakpoint (kWh).
type BillTier struct {
	Usage  int     `json:"usage" yaml:"usage"`
	Amount float64 `json:"amount" yaml:"amount"`
}

// BillTiers keeps declaration order; it renders as {"500": 54.5, ...}.
type BillTiers []BillTier

func (t BillTiers) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tier := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(tier.Usage)))
		buf.WriteByte(':')
		b, err := json.Marshal(tier.Amount)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// PlanDetail is one row of the plan fact sheet.
type PlanDetail struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Plan is an immutable catalog record. Rate is in cents per kWh.
type Plan struct {
	ID              string       `json:"id" yaml:"id"`
	Name            string       `json:"name" yaml:"name"`
	Provider        string       `json:"provider" yaml:"provider"`
	Term            string       `json:"term" yaml:"term"`
	Rate            float64      `json:"rate" yaml:"rate"`
	Features        []string     `json:"features" yaml:"features"`
	EstimatedBill   BillTiers    `json:"estimated_bill" yaml:"estimated_bill"`
	CancellationFee float64      `json:"cancellation_fee" yaml:"cancellation_fee"`
	BestMatch       bool         `json:"best_match" yaml:"best_match"`
	Satisfaction    float64      `json:"satisfaction" yaml:"satisfaction"`
	ReviewCount     int          `json:"review_count" yaml:"review_count"`
	Details         []PlanDetail `json:"details" yaml:"details"`
	Incentives      *string      `json:"incentives" yaml:"incentives"`
	Popularity      *string      `json:"popularity" yaml:"popularity"`
}

// HasFeature reports whether the plan carries the feature tag.
func (p Plan) HasFeature(feature string) bool {
	for _, f := range p.Features {
		if f == feature {
			return true
		}
	}
	return false
}
