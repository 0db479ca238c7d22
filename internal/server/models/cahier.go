package models

import "time"

// Cahier is a radio-watch log. It is never hard-deleted; Archived hides it
// from the dashboard and from the default listing.
type Cahier struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Evenement   string    `json:"evenement"`
	Redacteur   string    `json:"redacteur"`
	Poste       string    `json:"poste"`
	Frequence   string    `json:"frequence"`
	Responsable string    `json:"responsable"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Communication is one row of a cahier. ID is zero until persisted.
type Communication struct {
	ID            int64     `json:"id,omitempty"`
	CahierID      int64     `json:"cahier_id,omitempty"`
	Appele        string    `json:"appele"`
	Appelant      string    `json:"appelant"`
	Heure         time.Time `json:"heure"`
	Communication string    `json:"communication"`
}

// Indicatif is a call-sign known to one cahier.
type Indicatif struct {
	ID        int64     `json:"id"`
	CahierID  int64     `json:"cahier_id"`
	Indicatif string    `json:"indicatif"`
	CreatedAt time.Time `json:"created_at"`
}

// CahierDetail is a cahier with everything the editor needs.
type CahierDetail struct {
	Cahier         Cahier          `json:"cahier"`
	Communications []Communication `json:"communications"`
	Indicatifs     []string        `json:"indicatifs"`
}

// Dashboard aggregates the operator's non-archived cahiers.
type Dashboard struct {
	TotalCahiers  int            `json:"totalCahiers"`
	RecentCahiers []Cahier       `json:"recentCahiers"`
	Activity      []Cahier       `json:"activity"`
	ActivityByDay map[string]int `json:"activityByDay"`
	RedacteurName string         `json:"redacteurName"`
}
