package affinity

import (
	"strings"

	"github.com/socialfusion/backend/internal/models"
)

// Scorer computes an affinity score between a viewer and a candidate
// profile. Higher means a better suggestion. A zero score does not
// disqualify a candidate.
type Scorer interface {
	Score(viewer, candidate *models.User) int
}

// Attribute weights. Scalar fields count once, list overlaps count per
// shared item, and each matched connection preference adds a flat bonus.
const (
	locationWeight   = 5
	educationWeight  = 4
	occupationWeight = 3
	interestWeight   = 2
	skillWeight      = 1
	languageWeight   = 1
	preferenceBonus  = 3
)

// ProfileScorer scores candidates on profile attribute overlap. All
// comparisons are case-insensitive.
type ProfileScorer struct{}

// NewProfileScorer creates the default profile scorer
func NewProfileScorer() *ProfileScorer {
	return &ProfileScorer{}
}

// Score computes the affinity between viewer and candidate
func (ProfileScorer) Score(viewer, candidate *models.User) int {
	score := 0

	locationMatch := fieldsMatch(viewer.Location, candidate.Location)
	educationMatch := fieldsMatch(viewer.Education, candidate.Education)
	occupationMatch := fieldsMatch(viewer.Occupation, candidate.Occupation)

	if locationMatch {
		score += locationWeight
	}
	if educationMatch {
		score += educationWeight
	}
	if occupationMatch {
		score += occupationWeight
	}

	sharedInterests := overlapCount(viewer.Interests, candidate.Interests)
	score += interestWeight * sharedInterests
	score += skillWeight * overlapCount(viewer.Skills, candidate.Skills)
	score += languageWeight * overlapCount(viewer.Languages, candidate.Languages)

	prefs := toSet(viewer.ConnectionPreferences)
	if prefs[models.PreferenceLocation] && locationMatch {
		score += preferenceBonus
	}
	if prefs[models.PreferenceEducation] && educationMatch {
		score += preferenceBonus
	}
	if prefs[models.PreferenceProfessional] && occupationMatch {
		score += preferenceBonus
	}
	if prefs[models.PreferenceInterests] && sharedInterests > 0 {
		score += preferenceBonus
	}

	return score
}

// fieldsMatch reports whether two scalar profile fields are equal,
// ignoring case and surrounding whitespace. Empty fields never match.
func fieldsMatch(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

// overlapCount counts distinct shared items between two lists,
// ignoring case
func overlapCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := toSet(a)
	seen := make(map[string]bool)
	count := 0
	for _, item := range b {
		key := normalize(item)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if set[key] {
			count++
		}
	}
	return count
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		if key := normalize(item); key != "" {
			set[key] = true
		}
	}
	return set
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
