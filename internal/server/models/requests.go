package models

import (
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/timex"
)

// Request bodies of the HTTP API.

type RegisterRequest struct {
	Operator        string  `json:"operator"`
	Matricule       string  `json:"matricule"`
	Service         string  `json:"service"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword *string `json:"confirmPassword,omitempty"`
	RGPD            *bool   `json:"rgpd,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProfileUpdateRequest struct {
	Operator        string `json:"operator" validate:"max=200"`
	Matricule       string `json:"matricule" validate:"max=50"`
	Service         string `json:"service" validate:"max=200"`
	NewPassword     string `json:"newPassword,omitempty"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

type ImageRequest struct {
	Image string `json:"image" validate:"required"`
}

type IndicatifRequest struct {
	Indicatif string `json:"indicatif"`
}

// CommunicationInput is a row as sent by a client. Heure is RFC 3339; the
// day-first strings of older clients are accepted too. An empty Heure means
// "now".
type CommunicationInput struct {
	ID            int64  `json:"id,omitempty"`
	Appele        string `json:"appele" validate:"max=100"`
	Appelant      string `json:"appelant" validate:"max=100"`
	Heure         string `json:"heure"`
	Communication string `json:"communication" validate:"max=10000"`
}

// Parse converts the input row.
func (in CommunicationInput) Parse() (Communication, error) {
	c := Communication{ID: in.ID, Appele: in.Appele, Appelant: in.Appelant, Communication: in.Communication}
	if in.Heure == "" {
		return c, nil
	}
	t, err := timex.ParseHeure(in.Heure)
	if err != nil {
		return Communication{}, err
	}
	c.Heure = t
	return c, nil
}

// NewCommunicationInput is the inverse of CommunicationInput.Parse.
func NewCommunicationInput(c Communication) CommunicationInput {
	in := CommunicationInput{ID: c.ID, Appele: c.Appele, Appelant: c.Appelant, Communication: c.Communication}
	if !c.Heure.IsZero() {
		in.Heure = c.Heure.UTC().Format(time.RFC3339Nano)
	}
	return in
}

type EventDetailsRequest struct {
	Evenement   string `json:"evenement" validate:"max=200"`
	Redacteur   string `json:"redacteur" validate:"max=200"`
	Poste       string `json:"poste" validate:"max=200"`
	Frequence   string `json:"frequence" validate:"max=200"`
	Responsable string `json:"responsable" validate:"max=200"`
}

// SaveCahierRequest is the body of POST /api/cahiers and PUT /api/cahiers/{id}.
type SaveCahierRequest struct {
	EventDetailsRequest
	Communications []CommunicationInput `json:"communications" validate:"dive"`
	Indicatifs     []string             `json:"indicatifs" validate:"dive,max=100"`
}

// LegacySaveRequest is the body of POST /api/save-cahier.
type LegacySaveRequest struct {
	EventDetails   EventDetailsRequest  `json:"eventDetails"`
	Communications []CommunicationInput `json:"communications" validate:"dive"`
}
