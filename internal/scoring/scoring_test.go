package scoring

import (
	"testing"

	"github.com/MikeSquared-Agency/callsim/internal/persona"
)

func TestDetermine(t *testing.T) {
	tests := []struct {
		name                                         string
		closeAttempted, flagUsed, isFraud, converted bool
		bounced                                      bool
		want                                         Outcome
	}{
		{"flagged fraud", false, true, true, false, false, OutcomeFraudCaught},
		{"flagged legit customer", false, true, false, false, false, OutcomeMissedOpp},
		{"closed on fraud", true, false, true, false, false, OutcomeFraudMissed},
		{"closed and converted", true, false, false, true, false, OutcomeConversion},
		{"closed but no conversion", true, false, false, false, false, OutcomeMissedOpp},
		{"fraud bounced on their own", false, false, true, false, true, OutcomeFraudCaught},
		{"legit customer bounced", false, false, false, false, true, OutcomeMissedOpp},
		{"turn limit with fraud", false, false, true, false, false, OutcomeFraudCaught},
		{"turn limit with legit customer", false, false, false, false, false, OutcomeMissedOpp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Determine(tt.closeAttempted, tt.flagUsed, tt.isFraud, tt.converted, tt.bounced)
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDefaultTable_OrderingHolds(t *testing.T) {
	if err := DefaultTable().Validate(); err != nil {
		t.Errorf("default table violates outcome ordering: %v", err)
	}
}

func TestValidate_CatchesBrokenOrdering(t *testing.T) {
	table := DefaultTable()
	// The original fifty-pack row paid conversion above fraud_caught; make
	// sure a table like that is rejected.
	table.Points[persona.TierFiftyPack][OutcomeFraudCaught] = 10
	table.Points[persona.TierFiftyPack][OutcomeConversion] = 20

	if err := table.Validate(); err == nil {
		t.Error("expected validation error for inverted ordering")
	}
}

func TestScore(t *testing.T) {
	table := DefaultTable()

	base := table.Score(persona.TierTenPack, OutcomeConversion, false)
	if base != 5 {
		t.Errorf("expected 5 points, got %d", base)
	}

	withBonus := table.Score(persona.TierTenPack, OutcomeConversion, true)
	if withBonus != 5+table.MotivationBonus {
		t.Errorf("expected %d points with bonus, got %d", 5+table.MotivationBonus, withBonus)
	}

	negative := table.Score(persona.TierFiftyPack, OutcomeFraudMissed, false)
	if negative >= 0 {
		t.Errorf("fraud_missed should be negative, got %d", negative)
	}
}

func TestScore_BonusOnlyOnConversion(t *testing.T) {
	table := DefaultTable()

	// A correct guess never changes a non-conversion outcome: fraud_caught
	// stays at its base payout and fraud_missed keeps its full penalty.
	for _, o := range []Outcome{OutcomeFraudCaught, OutcomeMissedOpp, OutcomeFraudMissed} {
		base := table.Score(persona.TierTenPack, o, false)
		guessed := table.Score(persona.TierTenPack, o, true)
		if guessed != base {
			t.Errorf("%s: correct guess moved score from %d to %d", o, base, guessed)
		}
	}
}

func TestDescription(t *testing.T) {
	for _, o := range Outcomes {
		if Description(o) == "Unknown outcome" {
			t.Errorf("missing description for %s", o)
		}
	}
}
