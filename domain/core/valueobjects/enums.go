package valueobjects

import (
	"fmt"
	"strings"
)

// Topic is the subject area of an interview question
type Topic string

const (
	TopicArrays       Topic = "Arrays"
	TopicDP           Topic = "DP"
	TopicGraphs       Topic = "Graphs"
	TopicLLD          Topic = "LLD"
	TopicSystemDesign Topic = "System Design"
	TopicAlgorithms   Topic = "Algorithms"
	TopicBehavioral   Topic = "Behavioral"
)

// Topics lists every valid topic in canonical order
var Topics = []Topic{
	TopicArrays, TopicDP, TopicGraphs, TopicLLD,
	TopicSystemDesign, TopicAlgorithms, TopicBehavioral,
}

// IsValid reports whether t is one of the known topics
func (t Topic) IsValid() bool {
	switch t {
	case TopicArrays, TopicDP, TopicGraphs, TopicLLD,
		TopicSystemDesign, TopicAlgorithms, TopicBehavioral:
		return true
	default:
		return false
	}
}

func (t Topic) String() string { return string(t) }

// ParseTopic converts s into a Topic. Matching is exact.
func ParseTopic(s string) (Topic, error) {
	t := Topic(s)
	if !t.IsValid() {
		return "", enumError("topic", s, Topics)
	}
	return t, nil
}

// RoundType is the interview round a question was asked in
type RoundType string

const (
	RoundOA        RoundType = "OA"
	RoundTechnical RoundType = "Technical"
	RoundDesign    RoundType = "Design"
	RoundHR        RoundType = "HR"
)

var RoundTypes = []RoundType{RoundOA, RoundTechnical, RoundDesign, RoundHR}

func (r RoundType) IsValid() bool {
	switch r {
	case RoundOA, RoundTechnical, RoundDesign, RoundHR:
		return true
	default:
		return false
	}
}

func (r RoundType) String() string { return string(r) }

func ParseRoundType(s string) (RoundType, error) {
	r := RoundType(s)
	if !r.IsValid() {
		return "", enumError("roundType", s, RoundTypes)
	}
	return r, nil
}

// Difficulty of an interview question
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

func (d Difficulty) String() string { return string(d) }

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.IsValid() {
		return "", enumError("difficulty", s, Difficulties)
	}
	return d, nil
}

// Position is the seniority level the candidate interviewed for
type Position string

const (
	PositionIntern Position = "Intern"
	PositionSDE1   Position = "SDE1"
	PositionSDE2   Position = "SDE2"
	PositionSenior Position = "Senior"
	PositionLead   Position = "Lead"
)

var Positions = []Position{PositionIntern, PositionSDE1, PositionSDE2, PositionSenior, PositionLead}

func (p Position) IsValid() bool {
	switch p {
	case PositionIntern, PositionSDE1, PositionSDE2, PositionSenior, PositionLead:
		return true
	default:
		return false
	}
}

func (p Position) String() string { return string(p) }

func ParsePosition(s string) (Position, error) {
	p := Position(s)
	if !p.IsValid() {
		return "", enumError("position", s, Positions)
	}
	return p, nil
}

// Frequency bounds and default for how often a question is reported
const (
	MinFrequency     = 1
	MaxFrequency     = 5
	DefaultFrequency = 3
)

// ValidFrequency reports whether f lies in [MinFrequency, MaxFrequency]
func ValidFrequency(f int) bool {
	return f >= MinFrequency && f <= MaxFrequency
}

func enumError[T ~string](field, value string, allowed []T) error {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return fmt.Errorf("invalid %s %q: must be one of %s", field, value, strings.Join(names, ", "))
}
