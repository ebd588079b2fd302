package strategy

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"freebet-arb/internal/odds"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func mormonParams(risk float64) Params {
	return Params{
		NumBets:            1,
		Odds1:              -100,
		Odds2:              1400,
		PromoIncludesStake: false,
		Risk:               LinearRisk(risk),
		SelfHedging:        true,
		StressTax:          0,
	}
}

func TestEvaluateRegression(t *testing.T) {
	res, err := Evaluate(mormonParams(2), nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if res.Value() != -0.027 {
		t.Errorf("Value() = %v, want -0.027", res.Value())
	}
	if res.EVPerPromotion != 0.082 {
		t.Errorf("EVPerPromotion = %v, want 0.082", res.EVPerPromotion)
	}

	wantStages := []Stage{
		{Round1Wins: 0, Credits: 1, Profit: -0.23, Prob: 0.53, Credit: []CreditOutcome{
			{Wins: 0, Prob: 0.972, Profit: 0.018},
			{Wins: 1, Prob: 0.028, Profit: 13},
		}},
		{Round1Wins: 1, Credits: 0, Profit: 0, Prob: 0.47},
	}
	if diff := cmp.Diff(wantStages, res.Stages, approx, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("stages mismatch (-want +got):\n%s", diff)
	}

	wantOutcomes := []Outcome{
		{OutcomeKey{0, 0, 0.515}, -0.212},
		{OutcomeKey{0, 1, 0.015}, 12.77},
		{OutcomeKey{1, 0, 0.47}, 0},
	}
	if diff := cmp.Diff(wantOutcomes, res.Outcomes, approx); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateRiskNeutral(t *testing.T) {
	res, err := Evaluate(mormonParams(1), nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	// Risk neutral: risk-adjusted and plain EV agree
	if res.Value() != 0.082 || res.EVPerPromotion != 0.082 {
		t.Errorf("Value() = %v, EVPerPromotion = %v, want 0.082 for both", res.Value(), res.EVPerPromotion)
	}
}

func TestEvaluateScenarios(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		value    float64
		evPerBet float64
	}{
		{
			name: "Three promotions, unhedged, stake returned, stress tax",
			params: Params{
				NumBets: 3, Odds1: 150, Odds2: -200,
				PromoIncludesStake: true, Risk: LinearRisk(2),
				SelfHedging: false, StressTax: 0.05,
			},
			value:    0.27,
			evPerBet: 0.349,
		},
		{
			name: "Two promotions, self hedged",
			params: Params{
				NumBets: 2, Odds1: 200, Odds2: 300,
				Risk: LinearRisk(2), SelfHedging: true,
			},
			value:    0.031,
			evPerBet: 0.191,
		},
		{
			name: "Four promotions, risk neutral",
			params: Params{
				NumBets: 4, Odds1: 250, Odds2: -150,
				PromoIncludesStake: true, Risk: LinearRisk(1), SelfHedging: true,
			},
			value:    0.434,
			evPerBet: 0.434,
		},
		{
			name: "Flat spread instead of the estimate",
			params: Params{
				NumBets: 1, Odds1: -100, Odds2: 1400,
				Spread: odds.FlatSpread(odds.DefaultSpread),
				Risk:   LinearRisk(2), SelfHedging: true,
			},
			value:    0.339,
			evPerBet: 0.388,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(tt.params, nil)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if math.Abs(res.Value()-tt.value) > 1e-9 {
				t.Errorf("Value() = %v, want %v", res.Value(), tt.value)
			}
			if math.Abs(res.EVPerPromotion-tt.evPerBet) > 1e-9 {
				t.Errorf("EVPerPromotion = %v, want %v", res.EVPerPromotion, tt.evPerBet)
			}
		})
	}
}

func TestEvaluateUnhedgedOutcomes(t *testing.T) {
	res, err := Evaluate(Params{
		NumBets: 3, Odds1: 150, Odds2: -200,
		PromoIncludesStake: true, Risk: LinearRisk(2),
		SelfHedging: false, StressTax: 0.05,
	}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	want := []Outcome{
		{OutcomeKey{0, 0, 0.016}, 0},
		{OutcomeKey{0, 1, 0.072}, -0.5},
		{OutcomeKey{0, 2, 0.108}, -1},
		{OutcomeKey{0, 3, 0.054}, -1.5},
		{OutcomeKey{1, 0, 0.07}, 1.5},
		{OutcomeKey{1, 1, 0.211}, 1},
		{OutcomeKey{1, 2, 0.158}, 0.5},
		{OutcomeKey{2, 0, 0.104}, 3},
		{OutcomeKey{2, 1, 0.156}, 2.5},
		{OutcomeKey{3, 0, 0.05}, 4.5},
	}
	if diff := cmp.Diff(want, res.Outcomes, approx); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateProbabilitiesSumToOne(t *testing.T) {
	cases := []Params{
		mormonParams(2),
		{NumBets: 2, Odds1: 200, Odds2: 300, SelfHedging: true},
		{NumBets: 3, Odds1: 150, Odds2: -200, PromoIncludesStake: true},
		{NumBets: 4, Odds1: 250, Odds2: -150, SelfHedging: true},
	}

	for _, p := range cases {
		res, err := Evaluate(p, nil)
		if err != nil {
			t.Fatalf("Evaluate(%+v): %v", p, err)
		}
		if total := res.TotalProbability(); math.Abs(total-1) > 1e-2 {
			t.Errorf("NumBets=%d odds=(%d,%d): probabilities sum to %v", p.NumBets, p.Odds1, p.Odds2, total)
		}
	}
}

func TestEvaluateTerminalStageSkipsRoundTwo(t *testing.T) {
	res, err := Evaluate(Params{NumBets: 2, Odds1: 200, Odds2: 300, SelfHedging: true}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	last := res.Stages[len(res.Stages)-1]
	if last.Credits != 0 || len(last.Credit) != 0 {
		t.Errorf("all-wins stage should have no credits, got %+v", last)
	}
	if len(res.Stages[0].Credit) != 3 {
		t.Errorf("all-losses stage should have 3 credit outcomes, got %d", len(res.Stages[0].Credit))
	}
}

func TestEvaluateStressTaxLowersValue(t *testing.T) {
	base := mormonParams(2)
	taxed := base
	taxed.StressTax = 0.1

	r1, err := Evaluate(base, nil)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Evaluate(taxed, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r2.Value() >= r1.Value() {
		t.Errorf("stress tax should lower value: %v >= %v", r2.Value(), r1.Value())
	}
	if r2.EV >= r1.EV {
		t.Errorf("stress tax should lower EV: %v >= %v", r2.EV, r1.EV)
	}
	if r2.Value() != -0.225 || r2.EVPerPromotion != -0.018 {
		t.Errorf("taxed Value() = %v, EVPerPromotion = %v, want -0.225 and -0.018", r2.Value(), r2.EVPerPromotion)
	}
}

func TestEvaluateNilRiskIsNeutral(t *testing.T) {
	p := mormonParams(1)
	p.Risk = nil
	res, err := Evaluate(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Value() != res.EVPerPromotion {
		t.Errorf("nil risk should be neutral: %v vs %v", res.Value(), res.EVPerPromotion)
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
		want   error
	}{
		{"zero promotions", func(p *Params) { p.NumBets = 0 }, ErrNoPromotions},
		{"negative promotions", func(p *Params) { p.NumBets = -2 }, ErrNoPromotions},
		{"negative stress tax", func(p *Params) { p.StressTax = -0.1 }, ErrNegativeStressTax},
		{"invalid first odds", func(p *Params) { p.Odds1 = 50 }, odds.ErrInvalidOdds},
		{"invalid second odds", func(p *Params) { p.Odds2 = -99 }, odds.ErrInvalidOdds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			if _, err := Evaluate(p, nil); !errors.Is(err, tt.want) {
				t.Errorf("Evaluate error = %v, want %v", err, tt.want)
			}
		})
	}
}

type recordingReporter struct {
	stages   []Stage
	outcomes []Outcome
	summary  *Result
}

func (r *recordingReporter) Stages(s []Stage)     { r.stages = s }
func (r *recordingReporter) Outcomes(o []Outcome) { r.outcomes = o }
func (r *recordingReporter) Summary(res Result)   { r.summary = &res }

func TestEvaluateReporter(t *testing.T) {
	rec := &recordingReporter{}
	res, err := Evaluate(mormonParams(2), rec)
	if err != nil {
		t.Fatal(err)
	}

	if len(rec.stages) != 2 {
		t.Errorf("reporter saw %d stages, want 2", len(rec.stages))
	}
	if len(rec.outcomes) != 3 {
		t.Errorf("reporter saw %d outcomes, want 3", len(rec.outcomes))
	}
	if rec.summary == nil || rec.summary.Value() != res.Value() {
		t.Errorf("reporter summary = %+v, want value %v", rec.summary, res.Value())
	}
}

func TestEvaluateReporterNotCalledOnError(t *testing.T) {
	rec := &recordingReporter{}
	p := mormonParams(2)
	p.NumBets = 0
	if _, err := Evaluate(p, rec); err == nil {
		t.Fatal("expected error")
	}
	if rec.stages != nil || rec.summary != nil {
		t.Error("reporter should not be called for invalid params")
	}
}

func TestOutcomeSetKeepsFirstPosition(t *testing.T) {
	set := outcomeSet{index: make(map[OutcomeKey]int)}
	a := OutcomeKey{Round1Wins: 0, Round2Wins: 0, Prob: 0.1}
	b := OutcomeKey{Round1Wins: 0, Round2Wins: 1, Prob: 0.2}

	set.put(a, 1)
	set.put(b, 2)
	set.put(a, 3)

	want := []Outcome{{a, 3}, {b, 2}}
	if diff := cmp.Diff(want, set.outcomes); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateLegs(t *testing.T) {
	res, err := Evaluate(mormonParams(2), nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []Leg{
		{Odds: -100, Favourite: -130, Spread: 30, WinProb: 0.465116, Overround: 0.065217, FairWinProb: 0.469388},
		{Odds: 1400, Favourite: -5600, Spread: 4200, WinProb: 0.027778, Overround: 0.049123, FairWinProb: 0.063545},
	}
	if diff := cmp.Diff(want, []Leg{res.Round1, res.Round2}, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("legs mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckMass(t *testing.T) {
	tests := []struct {
		name     string
		numBets  int
		probs    []float64
		expected error
	}{
		{"Exact", 1, []float64{0.515, 0.015, 0.47}, nil},
		{"Within rounding drift", 1, []float64{0.5, 0.49}, nil},
		{"Short of one", 1, []float64{0.5, 0.3}, ErrProbabilityMass},
		{"Above one", 2, []float64{0.9, 0.9}, ErrProbabilityMass},
		{"NaN", 1, []float64{math.NaN(), 0.5}, ErrProbabilityMass},
		{"Infinite", 1, []float64{math.Inf(1)}, ErrProbabilityMass},
		{"Empty", 1, nil, ErrProbabilityMass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcomes := make([]Outcome, len(tt.probs))
			for i, p := range tt.probs {
				outcomes[i] = Outcome{OutcomeKey: OutcomeKey{Round2Wins: i, Prob: p}}
			}
			if err := checkMass(tt.numBets, outcomes); !errors.Is(err, tt.expected) {
				t.Errorf("checkMass(%d, %v) = %v, want %v", tt.numBets, tt.probs, err, tt.expected)
			}
		})
	}
}

func TestEvaluateManyPromotionsStaysFinite(t *testing.T) {
	if testing.Short() {
		t.Skip("enumerates over half a million outcomes")
	}
	res, err := Evaluate(Params{NumBets: 1100, Odds1: 150, Odds2: 200, Risk: LinearRisk(2), SelfHedging: true}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if math.IsNaN(res.Value()) || math.IsInf(res.Value(), 0) {
		t.Errorf("Value() = %v, want a finite number", res.Value())
	}
	if total := res.TotalProbability(); math.IsNaN(total) {
		t.Errorf("TotalProbability() = %v", total)
	}
}

func TestEvaluateMatchesPublishedGrid(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		expected float64
	}{
		{
			name:     "Unhedged, no stake, risk neutral, two favourites",
			params:   Params{NumBets: 1, Odds1: -400, Odds2: -390, Risk: LinearRisk(1)},
			expected: -0.596,
		},
		{
			name:     "Unhedged, no stake, risk neutral, heavier second favourite",
			params:   Params{NumBets: 1, Odds1: -400, Odds2: -380, Risk: LinearRisk(1)},
			expected: -0.59,
		},
		{
			name:     "Two promotions, hedged, no stake, risk neutral",
			params:   Params{NumBets: 2, Odds1: -190, Odds2: 150, Risk: LinearRisk(1), SelfHedging: true},
			expected: 0.029,
		},
		{
			name:     "Two promotions, hedged, stake returned, risk 2",
			params:   Params{NumBets: 2, Odds1: 190, Odds2: -100, PromoIncludesStake: true, Risk: LinearRisk(2), SelfHedging: true},
			expected: 0.477,
		},
		{
			name:     "Two promotions, unhedged, stake returned, risk 2",
			params:   Params{NumBets: 2, Odds1: 110, Odds2: 230, PromoIncludesStake: true, Risk: LinearRisk(2)},
			expected: 0.25,
		},
		{
			name:     "Two promotions, hedged, stake returned, risk neutral",
			params:   Params{NumBets: 2, Odds1: -350, Odds2: 240, PromoIncludesStake: true, Risk: LinearRisk(1), SelfHedging: true},
			expected: -0.457,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(tt.params, nil)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if math.Abs(res.Value()-tt.expected) > 1e-9 {
				t.Errorf("Value() = %v, want %v", res.Value(), tt.expected)
			}
		})
	}
}
