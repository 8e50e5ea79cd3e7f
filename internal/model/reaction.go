package model

import (
	"fmt"
	"strings"
)

type ReactionType int

const (
	// ReactionNone means the user did not pick a reaction yet.
	ReactionNone ReactionType = iota
	ReactionGood
	ReactionMoreCommunication
	ReactionMoreResearch
)

var reactionNames = map[ReactionType]string{
	ReactionNone:              "none",
	ReactionGood:              "good",
	ReactionMoreCommunication: "moreCommunication",
	ReactionMoreResearch:      "moreResearch",
}

func (r ReactionType) String() string {
	if name, ok := reactionNames[r]; ok {
		return name
	}
	return fmt.Sprintf("ReactionType(%d)", int(r))
}

// IsPositive reports whether r is one of the defined reactions.
func (r ReactionType) IsPositive() bool {
	switch r {
	case ReactionGood, ReactionMoreCommunication, ReactionMoreResearch:
		return true
	}
	return false
}

func ParseReaction(s string) (ReactionType, error) {
	for r, name := range reactionNames {
		if strings.EqualFold(name, s) {
			return r, nil
		}
	}
	return ReactionNone, fmt.Errorf("unknown reaction %q", s)
}

func (r ReactionType) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *ReactionType) UnmarshalText(text []byte) error {
	parsed, err := ParseReaction(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
