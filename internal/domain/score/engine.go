// Package score derives a credit score from a consumer's payment history.
package score

import (
	"math"

	"creditbureau-backend/internal/domain/credit"
)

const (
	BaseScore = 700
	MinScore  = 300
	MaxScore  = 850

	LatePenalty    = 10
	DefaultPenalty = 50
	// one point per this much outstanding debt
	DebtUnit = 1000

	NoHistoryMessage = "No credit history available"
)

type Rating string

const (
	RatingPoor      Rating = "Poor"
	RatingFair      Rating = "Fair"
	RatingGood      Rating = "Good"
	RatingVeryGood  Rating = "Very Good"
	RatingExcellent Rating = "Excellent"
)

// Upper bounds are exclusive; the first band whose bound exceeds the score wins.
var ratingBands = []struct {
	below  int
	rating Rating
}{
	{580, RatingPoor},
	{670, RatingFair},
	{740, RatingGood},
	{800, RatingVeryGood},
}

type Factors struct {
	LatePayments    int     `json:"late_payments"`
	Defaults        int     `json:"defaults"`
	OutstandingDebt float64 `json:"outstanding_debt"`
	TotalRecords    int     `json:"total_records"`
}

type Result struct {
	Score   int      `json:"score"`
	Rating  Rating   `json:"rating,omitempty"`
	Factors *Factors `json:"factors,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Compute is pure: the same records always yield the same Result.
// Late/Defaulted are tallied over every history entry, debt only over records currently Outstanding.
func Compute(records []credit.CreditRecord) Result {
	if len(records) == 0 {
		return Result{Score: BaseScore, Message: NoHistoryMessage}
	}

	f := Factors{TotalRecords: len(records)}
	for _, r := range records {
		for _, e := range r.PaymentHistory {
			switch e.Status {
			case credit.StatusLate:
				f.LatePayments++
			case credit.StatusDefaulted:
				f.Defaults++
			}
		}
		if r.PaymentStatus == credit.StatusOutstanding {
			f.OutstandingDebt += r.Amount
		}
	}

	s := BaseScore
	s -= f.LatePayments * LatePenalty
	s -= f.Defaults * DefaultPenalty
	s -= debtPenalty(f.OutstandingDebt)
	s = max(MinScore, min(s, MaxScore))

	return Result{Score: s, Rating: RatingFor(s), Factors: &f}
}

// debtPenalty is floor(debt/DebtUnit), capped before the int conversion so
// debt beyond the int range still lands on the floor.
func debtPenalty(debt float64) int {
	const most = BaseScore - MinScore + 1
	p := math.Floor(debt / DebtUnit)
	switch {
	case math.IsNaN(p) || p >= most:
		return most
	case p <= 0:
		return 0
	}
	return int(p)
}

func RatingFor(s int) Rating {
	for _, b := range ratingBands {
		if s < b.below {
			return b.rating
		}
	}
	return RatingExcellent
}
