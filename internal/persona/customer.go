package persona

import "math/rand"

// Tier is the deal size the customer represents.
type Tier string

const (
	TierSingle    Tier = "single"
	TierTenPack   Tier = "ten_pack"
	TierFiftyPack Tier = "fifty_pack"
)

// Motivation is what actually drives the customer's decision.
type Motivation string

const (
	MotivationHead  Motivation = "head"  // logic, data, specs
	MotivationHeart Motivation = "heart" // identity, connection
	MotivationHand  Motivation = "hand"  // speed, practicality
)

// Customer is the hidden ground-truth profile for one call. It is generated
// once per call and revealed to the client only in the call-end summary.
type Customer struct {
	Name       string     `json:"name"`
	Tier       Tier       `json:"tier"`
	Motivation Motivation `json:"motivation"`
	IsFraud    bool       `json:"is_fraud"`
	CallReason string     `json:"call_reason"`
	Patience   int        `json:"patience"`
}

// Fraud rates. Warmup mode halves the pressure so new agent styles can
// accumulate patterns before facing the normal mix.
const (
	FraudRate       = 0.15
	WarmupFraudRate = 0.05
)

var tiers = []Tier{TierSingle, TierTenPack, TierFiftyPack}

var motivations = []Motivation{MotivationHead, MotivationHeart, MotivationHand}

var nameBank = []string{
	"Alex", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Quinn", "Avery",
	"Skylar", "Dakota", "Reese", "Finley", "Rowan", "Sage", "Blair", "Drew",
	"Diana", "Marcus", "Elena", "David", "Priya", "James", "Sofia", "Michael",
	"Aisha", "Robert", "Chen", "Patricia", "Kenji", "Linda", "Fatima", "William",
	"Maria", "Thomas", "Yuki", "Jennifer", "Ahmed", "Lisa", "Omar", "Sarah",
}

// Patience by motivation: head customers tolerate a thorough call, hand
// customers want out fast.
var patienceByMotivation = map[Motivation]int{
	MotivationHead:  8,
	MotivationHeart: 5,
	MotivationHand:  3,
}

// Generate produces a random hidden customer profile. It is a pure function
// of the supplied rng, so seeded generation is reproducible.
func Generate(rng *rand.Rand, warmup bool) Customer {
	name := nameBank[rng.Intn(len(nameBank))]
	tier := tiers[rng.Intn(len(tiers))]
	motivation := motivations[rng.Intn(len(motivations))]

	rate := FraudRate
	if warmup {
		rate = WarmupFraudRate
	}
	isFraud := rng.Float64() < rate

	var reason string
	if isFraud {
		bank := fraudReasons[tier]
		reason = bank[rng.Intn(len(bank))]
	} else {
		bank := legitReasons[tier]
		reason = bank[rng.Intn(len(bank))]
	}

	return Customer{
		Name:       name,
		Tier:       tier,
		Motivation: motivation,
		IsFraud:    isFraud,
		CallReason: reason,
		Patience:   patienceByMotivation[motivation],
	}
}

// BounceLine is the farewell a customer delivers when they hang up frustrated.
func BounceLine(m Motivation) string {
	switch m {
	case MotivationHead:
		return "You know what, I don't think this is going anywhere. Thanks for your time, but I'll do my own research."
	case MotivationHeart:
		return "I... I don't think this is right for me. Thank you, but I need to go."
	case MotivationHand:
		return "Look, I gotta go. This is taking too long. *click*"
	default:
		return "I have to go. Goodbye."
	}
}

// TierDisplay returns the human-readable name for a tier.
func TierDisplay(t Tier) string {
	switch t {
	case TierSingle:
		return "Single Phone"
	case TierTenPack:
		return "10-Pack"
	case TierFiftyPack:
		return "50-Pack"
	default:
		return string(t)
	}
}
