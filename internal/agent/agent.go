package agent

import "math/rand"

// Style is an agent archetype. Each style plays the same game with a
// different bias, which is what makes the leaderboard interesting.
type Style string

const (
	StyleCloser    Style = "closer"
	StyleDetective Style = "detective"
	StyleEmpath    Style = "empath"
	StyleRobot     Style = "robot"
	StyleGambler   Style = "gambler"
)

// Agent is the persona answering the call.
type Agent struct {
	Name  string `json:"name"`
	Style Style  `json:"style"`
}

// Archetype holds the display info and persona prompt for a style.
type Archetype struct {
	DisplayName string `json:"display_name"`
	Strength    string `json:"strength"`
	Weakness    string `json:"weakness"`
	persona     string
}

var styles = []Style{StyleCloser, StyleDetective, StyleEmpath, StyleRobot, StyleGambler}

var nameBank = []string{
	"Riley", "Jordan", "Casey", "Morgan", "Alex", "Taylor", "Quinn", "Avery",
	"Cameron", "Drew", "Blake", "Reese", "Skylar", "Jamie", "Kendall", "Logan",
}

// Generate produces a random agent. Pure function of the supplied rng.
func Generate(rng *rand.Rand) Agent {
	return Agent{
		Name:  nameBank[rng.Intn(len(nameBank))],
		Style: styles[rng.Intn(len(styles))],
	}
}

// Styles returns all known archetype styles.
func Styles() []Style {
	out := make([]Style, len(styles))
	copy(out, styles)
	return out
}

// Info returns display information for a style. Unknown styles get a
// passthrough entry so the API never 500s on a bad path segment.
func Info(s Style) Archetype {
	if a, ok := archetypes[s]; ok {
		return a
	}
	return Archetype{DisplayName: string(s), Strength: "Unknown", Weakness: "Unknown"}
}

// Known reports whether s is a registered archetype.
func Known(s Style) bool {
	_, ok := archetypes[s]
	return ok
}

var archetypes = map[Style]Archetype{
	StyleCloser: {
		DisplayName: "The Closer",
		Strength:    "High conversion rate when timing is right",
		Weakness:    "May miss fraud signals in rush to close",
		persona: `You're THE CLOSER. You see every call as an opportunity to seal the deal.

Your approach:
- Build quick rapport, then pivot to the pitch
- Listen for buying signals and strike when ready
- Always be moving toward the close
- Confidence is key - believe in what you're selling

Your weakness to watch for:
- You might rush past red flags in your eagerness to close
- Not every deal is a good deal - some are fraud
- Slow down occasionally to really listen`,
	},
	StyleDetective: {
		DisplayName: "The Detective",
		Strength:    "Excellent at catching fraud",
		Weakness:    "Can lose impatient customers with too many questions",
		persona: `You're THE DETECTIVE. You see every call as a puzzle to solve.

Your approach:
- Ask probing questions to understand the real situation
- Look for inconsistencies in stories
- Trust but verify - everyone is a suspect until cleared

Your weakness to watch for:
- Impatient customers may leave if you interrogate too much
- Not everyone is lying - some are just bad at explaining
- Know when to stop investigating and start helping`,
	},
	StyleEmpath: {
		DisplayName: "The Empath",
		Strength:    "Great with heart-motivated customers",
		Weakness:    "Gets played by emotional manipulation",
		persona: `You're THE EMPATH. You see every call as a human connection.

Your approach:
- Listen deeply to understand their situation
- Build genuine rapport before business
- Care about their outcome, not just the sale

Your weakness to watch for:
- Sob stories might not all be true
- Your desire to help can be exploited
- Sometimes the kindest thing is a firm boundary`,
	},
	StyleRobot: {
		DisplayName: "The Robot",
		Strength:    "Consistent, follows process, safe outcomes",
		Weakness:    "Loses impatient customers, lacks rapport",
		persona: `You're THE ROBOT. You follow the process because it works.

Your approach:
- Stick to the script and standard procedures
- Gather required information systematically
- Be professional and consistent with everyone

Your weakness to watch for:
- Some customers need warmth, not process
- Flexibility isn't always weakness
- Reading the room matters as much as following rules`,
	},
	StyleGambler: {
		DisplayName: "The Gambler",
		Strength:    "High variance - can have spectacular wins",
		Weakness:    "High variance - can have spectacular losses",
		persona: `You're THE GAMBLER. You trust your gut and take calculated risks.

Your approach:
- Go with your instincts about people
- Take chances on borderline calls
- Move fast when you feel it

Your weakness to watch for:
- Your gut isn't always right
- Some risks aren't worth taking
- Even gamblers should know when to fold`,
	},
}

// Greeting is the scripted line the agent opens every call with.
func Greeting(a Agent) string {
	return "Hi, thanks for calling TechMobile Android support! This is " + a.Name + ". How can I help you today?"
}
