package klienten

import (
	"fmt"

	dErrors "domusvita/pkg/domain-errors"
)

// Status is a klient's position in the intake pipeline.
type Status string

const (
	StatusNeu                    Status = "neu"
	StatusErstgespraech          Status = "erstgespraech"
	StatusBesichtigungGeplant    Status = "besichtigung_geplant"
	StatusUnterlagenGesendet     Status = "unterlagen_gesendet"
	StatusEntscheidungAusstehend Status = "entscheidung_ausstehend"
	StatusZusage                 Status = "zusage"
	StatusEinzugGeplant          Status = "einzug_geplant"
	StatusBewohner               Status = "bewohner"
	StatusAbgesagt               Status = "abgesagt"
	StatusAusgezogen             Status = "ausgezogen"
	StatusVerstorben             Status = "verstorben"
)

// AllStatuses lists every pipeline status in pipeline order.
var AllStatuses = []Status{
	StatusNeu, StatusErstgespraech, StatusBesichtigungGeplant,
	StatusUnterlagenGesendet, StatusEntscheidungAusstehend, StatusZusage,
	StatusEinzugGeplant, StatusBewohner, StatusAbgesagt, StatusAusgezogen,
	StatusVerstorben,
}

// ParseStatus validates a raw status value from the boundary.
func ParseStatus(raw string) (Status, error) {
	for _, s := range AllStatuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown status %q", raw))
}

// Terminal reports whether no further transitions leave this status.
func (s Status) Terminal() bool {
	switch s {
	case StatusAbgesagt, StatusAusgezogen, StatusVerstorben:
		return true
	}
	return false
}

// CanTransition checks a single pipeline edge. The graph is deliberately
// permissive: admins reorder klienten freely, so every edge between
// non-terminal states is allowed. Only three rules are enforced here:
// terminal states are sealed, ausgezogen/verstorben are reachable only from
// bewohner, and bewohner may only exit to ausgezogen, verstorben or abgesagt.
// Setting the current status again is always a valid (and still logged) edge.
//
// The room guard on entering bewohner is the service's job, not the graph's:
// it needs the registry, not just the two states.
func CanTransition(from, to Status) error {
	if from == to {
		return nil
	}
	if from.Terminal() {
		return dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("status %s is terminal", from))
	}
	switch to {
	case StatusAusgezogen, StatusVerstorben:
		if from != StatusBewohner {
			return dErrors.New(dErrors.CodeInvalidState,
				fmt.Sprintf("cannot move from %s to %s: klient was never bewohner", from, to))
		}
	}
	if from == StatusBewohner && to != StatusAusgezogen && to != StatusVerstorben && to != StatusAbgesagt {
		return dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("bewohner can only exit to ausgezogen, verstorben or abgesagt, not %s", to))
	}
	return nil
}
