package seed

import (
	"strings"

	"golang.org/x/exp/rand"
)

var firstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda",
	"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Charles", "Karen", "Christopher", "Nancy", "Daniel", "Lisa",
	"Matthew", "Betty", "Anthony", "Margaret", "Mark", "Sandra", "Donald", "Ashley",
	"Steven", "Kimberly", "Paul", "Emily", "Andrew", "Donna", "Joshua", "Michelle",
	"Kenneth", "Dorothy", "Kevin", "Carol", "Brian", "Amanda", "George", "Melissa",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas",
	"Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson", "White",
	"Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker", "Young",
}

var words = []string{
	"launch", "portal", "migration", "review", "budget", "roadmap", "design", "audit",
	"campaign", "report", "customer", "platform", "release", "mobile", "dashboard", "research",
	"onboarding", "survey", "integration", "pipeline", "analytics", "content", "brand", "pricing",
	"support", "security", "feedback", "inventory", "training", "workflow", "partner", "quality",
	"update", "prototype", "metrics", "network", "storage", "service", "interface", "backlog",
	"planning", "session", "strategy", "market", "sprint", "demo", "website", "checkout",
}

func pick(rng *rand.Rand, pool []string) string {
	return pool[rng.Intn(len(pool))]
}

// between returns an int in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// title returns between lo and hi capitalized words.
func title(rng *rand.Rand, lo, hi int) string {
	n := between(rng, lo, hi)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = capitalize(pick(rng, words))
	}
	return strings.Join(parts, " ")
}

// sentence returns 12 to 18 words, capitalized and ending with a period.
func sentence(rng *rand.Rand) string {
	n := between(rng, 12, 18)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = pick(rng, words)
	}
	parts[0] = capitalize(parts[0])
	return strings.Join(parts, " ") + "."
}
