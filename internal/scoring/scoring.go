package scoring

import (
	"fmt"

	"github.com/MikeSquared-Agency/callsim/internal/persona"
)

// Outcome is the terminal classification of a call.
type Outcome string

const (
	OutcomeConversion  Outcome = "conversion"
	OutcomeMissedOpp   Outcome = "missed_opp"
	OutcomeFraudCaught Outcome = "fraud_caught"
	OutcomeFraudMissed Outcome = "fraud_missed"
)

// Outcomes lists every outcome, best to worst. Leaderboard ranking only
// means something if the points table respects this order.
var Outcomes = []Outcome{OutcomeFraudCaught, OutcomeConversion, OutcomeMissedOpp, OutcomeFraudMissed}

// Determine maps the end-of-call facts to an outcome.
//
// A bounced fraudster didn't get what they wanted, so the fraud counts as
// stopped even though the agent never flagged. The same logic applies to a
// fraud call that runs out the clock.
func Determine(closeAttempted, flagUsed, isFraud, converted, bounced bool) Outcome {
	if bounced {
		if isFraud {
			return OutcomeFraudCaught
		}
		return OutcomeMissedOpp
	}

	if flagUsed {
		if isFraud {
			return OutcomeFraudCaught
		}
		// Wrongly flagged a legit customer.
		return OutcomeMissedOpp
	}

	if closeAttempted {
		if isFraud {
			return OutcomeFraudMissed
		}
		if converted {
			return OutcomeConversion
		}
		return OutcomeMissedOpp
	}

	// Neither close nor flag before the turn limit.
	if isFraud {
		return OutcomeFraudCaught
	}
	return OutcomeMissedOpp
}

// Table holds the tunable point values. The magnitudes are business rules,
// not invariants; swap the table without touching the classifier.
type Table struct {
	Points          map[persona.Tier]map[Outcome]int
	MotivationBonus int
}

// DefaultTable returns the standard points. Within each tier the outcomes
// keep the order fraud_caught > conversion > missed_opp > fraud_missed.
func DefaultTable() Table {
	return Table{
		Points: map[persona.Tier]map[Outcome]int{
			persona.TierSingle: {
				OutcomeFraudCaught: 3,
				OutcomeConversion:  1,
				OutcomeMissedOpp:   -1,
				OutcomeFraudMissed: -5,
			},
			persona.TierTenPack: {
				OutcomeFraudCaught: 8,
				OutcomeConversion:  5,
				OutcomeMissedOpp:   -3,
				OutcomeFraudMissed: -15,
			},
			persona.TierFiftyPack: {
				OutcomeFraudCaught: 25,
				OutcomeConversion:  20,
				OutcomeMissedOpp:   -10,
				OutcomeFraudMissed: -50,
			},
		},
		MotivationBonus: 2,
	}
}

// Score computes the signed point delta for a call. The motivation bonus
// only rides on a conversion; it never pads a fraud catch or softens a
// penalty.
func (t Table) Score(tier persona.Tier, o Outcome, motivationCorrect bool) int {
	points := t.Points[tier][o]
	if o == OutcomeConversion && motivationCorrect {
		points += t.MotivationBonus
	}
	return points
}

// Validate checks that every tier row keeps the outcome ordering the
// leaderboard depends on.
func (t Table) Validate() error {
	for tier, row := range t.Points {
		for i := 1; i < len(Outcomes); i++ {
			better, worse := Outcomes[i-1], Outcomes[i]
			if row[better] <= row[worse] {
				return fmt.Errorf("tier %s: %s (%d) must outscore %s (%d)", tier, better, row[better], worse, row[worse])
			}
		}
	}
	return nil
}

// Description returns the human-readable summary line for an outcome.
func Description(o Outcome) string {
	switch o {
	case OutcomeConversion:
		return "Successfully converted the customer!"
	case OutcomeMissedOpp:
		return "Missed opportunity - customer didn't convert"
	case OutcomeFraudCaught:
		return "Fraud correctly identified and stopped!"
	case OutcomeFraudMissed:
		return "Fraud slipped through - bad outcome!"
	default:
		return "Unknown outcome"
	}
}
