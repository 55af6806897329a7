package klienten

import (
	"fmt"
	"time"

	"domusvita/pkg/domain"
	dErrors "domusvita/pkg/domain-errors"
)

// Pflegegrad is the statutory care-level grade.
type Pflegegrad string

const (
	PflegegradKeiner    Pflegegrad = "keiner"
	PflegegradBeantragt Pflegegrad = "beantragt"
	Pflegegrad1         Pflegegrad = "1"
	Pflegegrad2         Pflegegrad = "2"
	Pflegegrad3         Pflegegrad = "3"
	Pflegegrad4         Pflegegrad = "4"
	Pflegegrad5         Pflegegrad = "5"
)

var allPflegegrade = []Pflegegrad{
	PflegegradKeiner, PflegegradBeantragt,
	Pflegegrad1, Pflegegrad2, Pflegegrad3, Pflegegrad4, Pflegegrad5,
}

func ParsePflegegrad(raw string) (Pflegegrad, error) {
	for _, p := range allPflegegrade {
		if string(p) == raw {
			return p, nil
		}
	}
	return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown pflegegrad %q", raw))
}

// Dringlichkeit is the klient-stated urgency of needing placement.
type Dringlichkeit string

const (
	DringlichkeitSofort   Dringlichkeit = "sofort"
	DringlichkeitVierW    Dringlichkeit = "4_wochen"
	DringlichkeitDreiM    Dringlichkeit = "3_monate"
	DringlichkeitFlexibel Dringlichkeit = "flexibel"
)

var allDringlichkeiten = []Dringlichkeit{
	DringlichkeitSofort, DringlichkeitVierW, DringlichkeitDreiM, DringlichkeitFlexibel,
}

func ParseDringlichkeit(raw string) (Dringlichkeit, error) {
	for _, d := range allDringlichkeiten {
		if string(d) == raw {
			return d, nil
		}
	}
	return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown dringlichkeit %q", raw))
}

// KommunikationTyp classifies a communication-log entry.
type KommunikationTyp string

const (
	KommEmailEin     KommunikationTyp = "email_ein"
	KommEmailAus     KommunikationTyp = "email_aus"
	KommAnrufEin     KommunikationTyp = "anruf_ein"
	KommAnrufAus     KommunikationTyp = "anruf_aus"
	KommWhatsappEin  KommunikationTyp = "whatsapp_ein"
	KommWhatsappAus  KommunikationTyp = "whatsapp_aus"
	KommNotiz        KommunikationTyp = "notiz"
	KommBesichtigung KommunikationTyp = "besichtigung"
)

var allKommunikationTypen = []KommunikationTyp{
	KommEmailEin, KommEmailAus, KommAnrufEin, KommAnrufAus,
	KommWhatsappEin, KommWhatsappAus, KommNotiz, KommBesichtigung,
}

func ParseKommunikationTyp(raw string) (KommunikationTyp, error) {
	for _, k := range allKommunikationTypen {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown kommunikation typ %q", raw))
}

// Kommunikation is one append-only communication-log entry.
type Kommunikation struct {
	ID        string           `json:"id"`
	Typ       KommunikationTyp `json:"typ"`
	Inhalt    string           `json:"inhalt"`
	Actor     string           `json:"actor"`
	Timestamp time.Time        `json:"timestamp"`
}

// Kontaktperson is the klient's contact person (often a relative or legal
// guardian rather than the klient themselves).
type Kontaktperson struct {
	Name    string `json:"name,omitempty"`
	Telefon string `json:"telefon,omitempty"`
	Email   string `json:"email,omitempty"`
	Bezug   string `json:"bezug,omitempty"`
}

// Klient is a prospective or current resident. Created on intake and never
// deleted; terminal statuses seal the record instead.
type Klient struct {
	ID            domain.KlientID `json:"id"`
	Vorname       string          `json:"vorname"`
	Nachname      string          `json:"nachname"`
	Geburtsdatum  string          `json:"geburtsdatum,omitempty"`
	Pflegegrad    Pflegegrad      `json:"pflegegrad"`
	Status        Status          `json:"status"`
	Dringlichkeit Dringlichkeit   `json:"dringlichkeit"`
	Kontakt       Kontaktperson   `json:"kontaktperson"`
	WunschWGs     []domain.WGID   `json:"wunsch_wgs,omitempty"`

	// ZimmerID is set exactly while the klient is bewohner of that room.
	ZimmerID domain.ZimmerID `json:"zimmer_id,omitempty"`

	Kommunikation []Kommunikation `json:"kommunikation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Name returns the display name.
func (k Klient) Name() string {
	return k.Vorname + " " + k.Nachname
}
