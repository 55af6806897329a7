package handler

import (
	"strings"

	"domusvita/internal/klienten"
	"domusvita/pkg/domain"
	dErrors "domusvita/pkg/domain-errors"
)

// CreateRequest is the intake payload.
type CreateRequest struct {
	Vorname       string   `json:"vorname"`
	Nachname      string   `json:"nachname"`
	Geburtsdatum  string   `json:"geburtsdatum"`
	Pflegegrad    string   `json:"pflegegrad"`
	Dringlichkeit string   `json:"dringlichkeit"`
	WunschWGs     []string `json:"wunsch_wgs"`

	Kontaktperson struct {
		Name    string `json:"name"`
		Telefon string `json:"telefon"`
		Email   string `json:"email"`
		Bezug   string `json:"bezug"`
	} `json:"kontaktperson"`

	pflegegrad    klienten.Pflegegrad
	dringlichkeit klienten.Dringlichkeit
}

func (r *CreateRequest) Validate() error {
	r.Vorname = strings.TrimSpace(r.Vorname)
	r.Nachname = strings.TrimSpace(r.Nachname)
	if r.Vorname == "" || r.Nachname == "" {
		return dErrors.New(dErrors.CodeValidation, "vorname and nachname are required")
	}

	var err error
	if r.Pflegegrad != "" {
		if r.pflegegrad, err = klienten.ParsePflegegrad(r.Pflegegrad); err != nil {
			return err
		}
	}
	if r.Dringlichkeit != "" {
		if r.dringlichkeit, err = klienten.ParseDringlichkeit(r.Dringlichkeit); err != nil {
			return err
		}
	}
	return nil
}

// ToKlient builds the domain record from the validated payload.
func (r *CreateRequest) ToKlient() klienten.Klient {
	k := klienten.Klient{
		Vorname:       r.Vorname,
		Nachname:      r.Nachname,
		Geburtsdatum:  r.Geburtsdatum,
		Pflegegrad:    r.pflegegrad,
		Dringlichkeit: r.dringlichkeit,
	}
	k.Kontakt = klienten.Kontaktperson{
		Name:    r.Kontaktperson.Name,
		Telefon: r.Kontaktperson.Telefon,
		Email:   r.Kontaktperson.Email,
		Bezug:   r.Kontaktperson.Bezug,
	}
	for _, raw := range r.WunschWGs {
		k.WunschWGs = append(k.WunschWGs, domain.WGID(raw))
	}
	return k
}

// SetStatusRequest carries a single pipeline transition.
type SetStatusRequest struct {
	Status string `json:"status"`

	status klienten.Status
}

func (r *SetStatusRequest) Validate() error {
	status, err := klienten.ParseStatus(r.Status)
	if err != nil {
		return err
	}
	r.status = status
	return nil
}

// ParsedStatus returns the validated status.
func (r *SetStatusRequest) ParsedStatus() klienten.Status { return r.status }

// KommunikationRequest appends one communication-log entry.
type KommunikationRequest struct {
	Typ    string `json:"typ"`
	Inhalt string `json:"inhalt"`

	typ klienten.KommunikationTyp
}

func (r *KommunikationRequest) Validate() error {
	typ, err := klienten.ParseKommunikationTyp(r.Typ)
	if err != nil {
		return err
	}
	if strings.TrimSpace(r.Inhalt) == "" {
		return dErrors.New(dErrors.CodeValidation, "inhalt is required")
	}
	r.typ = typ
	return nil
}

// ParsedTyp returns the validated entry type.
func (r *KommunikationRequest) ParsedTyp() klienten.KommunikationTyp { return r.typ }
