package strategy

import (
	"errors"
	"fmt"
	"math"

	"freebet-arb/internal/mathutil"
	"freebet-arb/internal/odds"
)

var (
	// ErrNoPromotions is returned when NumBets is not positive.
	ErrNoPromotions = errors.New("number of promotions must be positive")

	// ErrNegativeStressTax is returned for a stress tax below zero.
	ErrNegativeStressTax = errors.New("stress tax must be non-negative")

	// ErrProbabilityMass is returned when the outcome distribution does not sum to 1.
	ErrProbabilityMass = errors.New("outcome probabilities do not sum to 1")
)

// Rounding applied to intermediate values. Joint outcomes are keyed by their
// rounded probability, so coarser rounding merges more outcomes.
const (
	stagePlaces   = 2
	creditPlaces  = 3
	outcomePlaces = 3
)

// Params describes one promotion strategy.
//
// For each of NumBets promotions we bet on an underdog at Odds1. Every loss earns a
// free-bet credit, which is then played on an underdog at Odds2.
type Params struct {
	NumBets int
	Odds1   int
	Odds2   int

	// Spread estimates the vig for a line. nil uses odds.DefaultSpreadTable.
	Spread odds.SpreadFunc

	// PromoIncludesStake is true when a winning credit also returns its stake.
	PromoIncludesStake bool

	// Risk adjusts each outcome's profit. nil is risk neutral.
	Risk RiskFunc

	// SelfHedging stakes the favourite side as well as the underdog in round 1.
	SelfHedging bool

	// StressTax is subtracted from every outcome's profit before weighting.
	// It penalises strategies that almost always return nothing.
	StressTax float64
}

// DefaultParams returns the single-promotion BYU vs Loyola strategy.
func DefaultParams() Params {
	return Params{
		NumBets:            1,
		Odds1:              -100,
		Odds2:              1400,
		PromoIncludesStake: false,
		Risk:               LinearRisk(1),
		SelfHedging:        true,
		StressTax:          0,
	}
}

// Validate checks the inputs that do not depend on the odds themselves.
func (p Params) Validate() error {
	if p.NumBets <= 0 {
		return fmt.Errorf("%w, got %d", ErrNoPromotions, p.NumBets)
	}
	if p.StressTax < 0 || math.IsNaN(p.StressTax) {
		return fmt.Errorf("%w, got %v", ErrNegativeStressTax, p.StressTax)
	}
	return nil
}

// CreditOutcome is one result of playing a stage's credits in round 2.
type CreditOutcome struct {
	Wins   int
	Prob   float64
	Profit float64
}

// Stage is one round-1 result together with the round-2 results of its credits.
type Stage struct {
	Round1Wins int
	Credits    int
	Profit     float64
	Prob       float64
	Credit     []CreditOutcome
}

// OutcomeKey identifies a joint outcome. Prob is rounded, so it is an index into
// the distribution rather than a unique identity.
type OutcomeKey struct {
	Round1Wins int
	Round2Wins int
	Prob       float64
}

// Outcome is a joint outcome and its total profit.
type Outcome struct {
	OutcomeKey
	Profit float64
}

// Result holds the full distribution and its aggregates.
type Result struct {
	NumBets  int
	Round1   Leg
	Round2   Leg
	Stages   []Stage
	Outcomes []Outcome

	EV             float64 // Total expected profit across all promotions
	RiskAdjustedEV float64 // Total risk-adjusted expected profit

	EVPerPromotion             float64
	RiskAdjustedEVPerPromotion float64
}

// Value returns the risk-adjusted expected profit per promotion.
func (r Result) Value() float64 {
	return r.RiskAdjustedEVPerPromotion
}

// TotalProbability sums the probability of every joint outcome.
func (r Result) TotalProbability() float64 {
	total := 0.0
	for _, o := range r.Outcomes {
		total += o.Prob
	}
	return total
}

// Reporter receives the intermediate distributions of an evaluation.
type Reporter interface {
	Stages(stages []Stage)
	Outcomes(outcomes []Outcome)
	Summary(res Result)
}

// Leg is one round of betting: the underdog line and its favourite counterpart.
type Leg struct {
	Odds      int
	Favourite int
	Spread    float64
	WinProb   float64 // Underdog win probability with the spread added back

	// Margin of the quoted pair and the underdog probability with it removed
	Overround   float64
	FairWinProb float64
}

func newLeg(line int, spread float64) (Leg, error) {
	fav, err := odds.ComplementaryOdds(line, spread)
	if err != nil {
		return Leg{}, fmt.Errorf("favourite side of %d: %w", line, err)
	}
	p, err := odds.OddsToProbability(line, spread)
	if err != nil {
		return Leg{}, fmt.Errorf("win probability of %d: %w", line, err)
	}
	over, err := odds.Overround(line, fav)
	if err != nil {
		return Leg{}, err
	}
	fair, _, err := odds.FairProbabilities(line, fav)
	if err != nil {
		return Leg{}, err
	}
	return Leg{
		Odds:        line,
		Favourite:   fav,
		Spread:      spread,
		WinProb:     p,
		Overround:   over,
		FairWinProb: fair,
	}, nil
}

// Evaluate enumerates every outcome of the strategy and aggregates expected values.
// reporter may be nil.
func Evaluate(p Params, reporter Reporter) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	spreadFn := p.Spread
	if spreadFn == nil {
		spreadFn = odds.DefaultSpreadTable.Spread
	}
	risk := p.Risk
	if risk == nil {
		risk = LinearRisk(1)
	}

	first, err := newLeg(p.Odds1, spreadFn(p.Odds1))
	if err != nil {
		return Result{}, fmt.Errorf("round 1: %w", err)
	}
	second, err := newLeg(p.Odds2, spreadFn(p.Odds2))
	if err != nil {
		return Result{}, fmt.Errorf("round 2: %w", err)
	}

	stages, err := roundOne(p, first)
	if err != nil {
		return Result{}, err
	}
	for i := range stages {
		stages[i].Credit, err = roundTwo(p, second, stages[i].Credits)
		if err != nil {
			return Result{}, err
		}
	}
	outcomes := combine(p.NumBets, stages)
	res := Result{
		NumBets:  p.NumBets,
		Round1:   first,
		Round2:   second,
		Stages:   stages,
		Outcomes: outcomes,
	}

	if err := checkMass(p.NumBets, outcomes); err != nil {
		return Result{}, err
	}

	ev, riskEV := 0.0, 0.0
	for _, o := range outcomes {
		ev += o.Prob * (o.Profit - p.StressTax)
		riskEV += o.Prob * risk(o.Profit-p.StressTax)
	}
	res.EV = mathutil.Round(ev, outcomePlaces)
	res.RiskAdjustedEV = mathutil.Round(riskEV, outcomePlaces)
	res.EVPerPromotion = mathutil.Round(res.EV/float64(p.NumBets), outcomePlaces)
	res.RiskAdjustedEVPerPromotion = mathutil.Round(res.RiskAdjustedEV/float64(p.NumBets), outcomePlaces)

	if reporter != nil {
		reporter.Stages(stages)
		reporter.Outcomes(outcomes)
		reporter.Summary(res)
	}

	return res, nil
}

// roundOne splits the real-money bets into every possible underdog win count.
func roundOne(p Params, l Leg) ([]Stage, error) {
	underdogPay, err := odds.Payout(l.Odds, false)
	if err != nil {
		return nil, err
	}
	favouritePay, err := odds.Payout(l.Favourite, false)
	if err != nil {
		return nil, err
	}

	stages := make([]Stage, 0, p.NumBets+1)
	for underdogWins := 0; underdogWins <= p.NumBets; underdogWins++ {
		favouriteWins := p.NumBets - underdogWins

		var profit float64
		if p.SelfHedging {
			// Both sides staked: the winner pays out, the loser costs its stake
			profit = (underdogPay-1)*float64(underdogWins) + (favouritePay-1)*float64(favouriteWins)
		} else {
			profit = underdogPay*float64(underdogWins) - float64(favouriteWins)
		}

		prob := mathutil.BinomialPMF(p.NumBets, underdogWins, l.WinProb)
		stages = append(stages, Stage{
			Round1Wins: underdogWins,
			Credits:    favouriteWins,
			Profit:     mathutil.Round(profit, stagePlaces),
			Prob:       mathutil.Round(prob, stagePlaces),
		})
	}
	return stages, nil
}

// roundTwo plays each credit on the underdog, hedged with real money on the favourite.
func roundTwo(p Params, l Leg, credits int) ([]CreditOutcome, error) {
	if credits <= 0 {
		return nil, nil
	}

	creditPay, err := odds.Payout(l.Odds, p.PromoIncludesStake)
	if err != nil {
		return nil, err
	}
	hedgePay, err := odds.Payout(l.Favourite, false)
	if err != nil {
		return nil, err
	}

	out := make([]CreditOutcome, 0, credits+1)
	for wins := 0; wins <= credits; wins++ {
		losses := credits - wins
		prob := mathutil.BinomialPMF(credits, wins, l.WinProb)
		profit := (creditPay-1)*float64(wins) + hedgePay*float64(losses)
		out = append(out, CreditOutcome{
			Wins:   wins,
			Prob:   mathutil.Round(prob, creditPlaces),
			Profit: mathutil.Round(profit, creditPlaces),
		})
	}
	return out, nil
}

// outcomeSet accumulates outcomes in insertion order. A repeated key replaces the
// earlier profit but keeps its position.
type outcomeSet struct {
	index    map[OutcomeKey]int
	outcomes []Outcome
}

func (s *outcomeSet) put(key OutcomeKey, profit float64) {
	if i, ok := s.index[key]; ok {
		s.outcomes[i].Profit = profit
		return
	}
	s.index[key] = len(s.outcomes)
	s.outcomes = append(s.outcomes, Outcome{OutcomeKey: key, Profit: profit})
}

func combine(numBets int, stages []Stage) []Outcome {
	set := outcomeSet{index: make(map[OutcomeKey]int)}
	for _, st := range stages {
		round1Wins := numBets - st.Credits
		if len(st.Credit) == 0 {
			set.put(OutcomeKey{Round1Wins: round1Wins, Round2Wins: 0, Prob: st.Prob}, st.Profit)
			continue
		}
		for _, c := range st.Credit {
			key := OutcomeKey{
				Round1Wins: round1Wins,
				Round2Wins: c.Wins,
				Prob:       mathutil.Round(st.Prob*c.Prob, outcomePlaces),
			}
			set.put(key, mathutil.Round(st.Profit+c.Profit, outcomePlaces))
		}
	}
	return set.outcomes
}

// massTolerance bounds the drift rounding can introduce: every stage probability
// moves by at most half a cent, every joint probability by at most 0.001.
func massTolerance(numBets, outcomes int) float64 {
	return 0.005*float64(numBets+1) + 0.001*float64(outcomes) + 1e-9
}

// checkMass fails unless the outcome probabilities sum to 1 within massTolerance.
// A NaN total fails too.
func checkMass(numBets int, outcomes []Outcome) error {
	total := 0.0
	for _, o := range outcomes {
		total += o.Prob
	}
	if !(math.Abs(total-1) <= massTolerance(numBets, len(outcomes))) {
		return fmt.Errorf("%w: got %v across %d outcomes", ErrProbabilityMass, total, len(outcomes))
	}
	return nil
}
