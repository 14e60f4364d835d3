package persona

// Call-reason banks. Legit reasons lean on trust and identity concerns first,
// features second, cost last. Fraud cover stories exploit the trust signals
// that work at each tier.

var legitReasons = map[Tier][]string{
	TierSingle: {
		"I've been with iPhone forever, but honestly I don't trust Apple like I used to. The whole privacy thing feels like marketing now.",
		"All my friends give me grief about green bubbles. But honestly, why should I care what Apple users think?",
		"My whole family uses Android and I feel like the weird one. Every group chat is a nightmare.",
		"I'm kind of over the whole Apple ecosystem thing. Feels like I'm locked in and I don't like it.",
		"My iPhone battery dies by 2pm every day. I'm wondering if Android is better.",
		"My iPhone 11 is dying and I need to figure out what's next.",
		"The new iPhone costs $1200. That's insane. I'm not even sure it's worth it anymore.",
	},
	TierTenPack: {
		"We've been an Apple shop since day one, but their business support has gone downhill. Looking for a vendor who actually cares.",
		"Our current phone vendor treats us like a number. I need a partner who understands small business.",
		"We're a startup with 10 employees. Half use iPhone, half use Android. It's creating a culture divide honestly.",
		"I run a small landscaping business. Need 10 phones for my crew that can actually survive the job.",
		"My dental practice needs phones for staff. The ones we have keep breaking.",
		"Opening a second restaurant location. Need phones for managers that just work.",
	},
	TierFiftyPack: {
		"Our current iPhone contract is up for renewal. Board wants me to evaluate if Apple is still the right partner.",
		"IT department is recommending we switch the whole office to Android. I need to understand if they're right.",
		"Our CTO thinks we're overpaying for the Apple brand. I need to figure out if he's right.",
		"We're a logistics company. Need rugged phones for warehouse staff. iPhone isn't cutting it.",
		"School district looking to equip teachers. 50 phones that need to actually work in classrooms.",
	},
}

var fraudReasons = map[Tier][]string{
	TierSingle: {
		"Someone stole my iPhone yesterday and I need a replacement fast. I can't be without a phone.",
		"My phone was damaged in an accident. Insurance is taking forever. I really need this today.",
		"I saw a sign that said 'switch to Android, get $500 off.' I want to take advantage of that today.",
		"My friend told me about some crazy deal you guys are running. I need to get in on that before it ends.",
	},
	TierTenPack: {
		"Just started a new business last week. Need to get my team equipped right away - we're launching soon.",
		"Previous company shut down. Starting fresh and need phones for my new venture immediately.",
		"We just landed a big client and need to scale up fast. Ten phones by Friday or we lose the deal.",
	},
	TierFiftyPack: {
		"I'm setting up a new nonprofit to help underprivileged youth. We need 50 phones to connect mentors with kids.",
		"Our charity is expanding rapidly. Need phones for new volunteers across the country - these are people who want to help.",
		"I'm the new IT director. The board wants these phones deployed before the quarterly meeting next week.",
		"We're a new subsidiary of a major company. Corporate wants us equipped immediately but the procurement process is too slow.",
	},
}
