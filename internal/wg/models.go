package wg

import (
	"fmt"

	"domusvita/pkg/domain"
	dErrors "domusvita/pkg/domain-errors"
)

// ZimmerStatus is the occupancy state of a single room.
type ZimmerStatus string

const (
	ZimmerFrei        ZimmerStatus = "frei"
	ZimmerBelegt      ZimmerStatus = "belegt"
	ZimmerReserviert  ZimmerStatus = "reserviert"
	ZimmerRenovierung ZimmerStatus = "renovierung"
)

// AllZimmerStatuses lists every valid room status, in display order.
var AllZimmerStatuses = []ZimmerStatus{ZimmerFrei, ZimmerBelegt, ZimmerReserviert, ZimmerRenovierung}

// ParseZimmerStatus validates a raw status value from the boundary.
func ParseZimmerStatus(raw string) (ZimmerStatus, error) {
	for _, s := range AllZimmerStatuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown zimmer status %q", raw))
}

// Zimmer is a single rentable room within a Pflege-WG. BewohnerID is a weak
// back-reference to the occupying (or reserving) klient; the klient record
// itself lives in the klienten store.
type Zimmer struct {
	ID         domain.ZimmerID `json:"id"`
	WGID       domain.WGID     `json:"wg_id"`
	Nummer     string          `json:"nummer"`
	Flaeche    float64         `json:"flaeche_qm"`
	Status     ZimmerStatus    `json:"status"`
	BewohnerID domain.KlientID `json:"bewohner_id,omitempty"`

	// Floorplan position, display only.
	PosX float64 `json:"pos_x,omitempty"`
	PosY float64 `json:"pos_y,omitempty"`
}

// CheckInvariant verifies the per-room occupancy rule: belegt requires a
// bewohner reference, frei and renovierung forbid one.
func (z Zimmer) CheckInvariant() error {
	switch z.Status {
	case ZimmerBelegt:
		if z.BewohnerID.IsZero() {
			return dErrors.New(dErrors.CodeInvariantViolation,
				fmt.Sprintf("zimmer %s is belegt but has no bewohner reference", z.ID))
		}
	case ZimmerFrei, ZimmerRenovierung:
		if !z.BewohnerID.IsZero() {
			return dErrors.New(dErrors.CodeInvariantViolation,
				fmt.Sprintf("zimmer %s is %s but still references bewohner %s", z.ID, z.Status, z.BewohnerID))
		}
	}
	return nil
}

// PflegeWG is an ambulatory shared-living care residence. It owns its rooms:
// a Zimmer is created with its WG and never moves between facilities.
type PflegeWG struct {
	ID           domain.WGID `json:"id"`
	Name         string      `json:"name"`
	Kurzname     string      `json:"kurzname,omitempty"`
	Adresse      string      `json:"adresse"`
	Beschreibung string      `json:"beschreibung,omitempty"`
	Grundriss    string      `json:"grundriss,omitempty"`
	Kapazitaet   int         `json:"kapazitaet"`
	Zimmer       []Zimmer    `json:"zimmer"`
}

// StatusCounts is the per-status room tally of one facility.
type StatusCounts map[ZimmerStatus]int

// Counts tallies the facility's rooms by status.
func (w PflegeWG) Counts() StatusCounts {
	counts := make(StatusCounts, len(AllZimmerStatuses))
	for _, z := range w.Zimmer {
		counts[z.Status]++
	}
	return counts
}

// Belegt returns the number of occupied rooms.
func (w PflegeWG) Belegt() int {
	return w.Counts()[ZimmerBelegt]
}

// Frei returns the number of free rooms.
func (w PflegeWG) Frei() int {
	return w.Counts()[ZimmerFrei]
}

// Auslastung returns the occupancy rate as a percentage of capacity.
func (w PflegeWG) Auslastung() float64 {
	if w.Kapazitaet == 0 {
		return 0
	}
	return float64(w.Belegt()) / float64(w.Kapazitaet) * 100
}

// CheckInvariants verifies every room's occupancy rule, that the room count
// matches the declared capacity, and that no klient occupies two rooms.
func (w PflegeWG) CheckInvariants() error {
	if len(w.Zimmer) != w.Kapazitaet {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("wg %s has %d zimmer but kapazitaet %d", w.ID, len(w.Zimmer), w.Kapazitaet))
	}
	seen := make(map[domain.KlientID]domain.ZimmerID)
	for _, z := range w.Zimmer {
		if err := z.CheckInvariant(); err != nil {
			return err
		}
		if z.Status == ZimmerBelegt {
			if other, ok := seen[z.BewohnerID]; ok {
				return dErrors.New(dErrors.CodeInvariantViolation,
					fmt.Sprintf("klient %s occupies both zimmer %s and %s", z.BewohnerID, other, z.ID))
			}
			seen[z.BewohnerID] = z.ID
		}
	}
	return nil
}
