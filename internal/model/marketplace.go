package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Amount is a decimal sent either as a JSON string ("1500.00") or a number.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

type Skill struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts a skill object or a bare skill name; project
// listings use the latter.
func (s *Skill) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		s.ID = 0
		return json.Unmarshal(b, &s.Name)
	}
	type plain Skill
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("skill: %w", err)
	}
	*s = Skill(p)
	return nil
}

type Profile struct {
	FullName     string  `json:"full_name"`
	HourlyRate   Amount  `json:"hourly_rate"`
	Availability string  `json:"availability"`
	Phone        string  `json:"phone"`
	Location     string  `json:"location"`
	Skills       []Skill `json:"skills"`
}

// ProposalRef is the proposal summary embedded in a contract.
type ProposalRef struct {
	ID           int64  `json:"id"`
	ProjectID    int64  `json:"project_id"`
	ProjectTitle string `json:"project_title"`
	ProposedRate Amount `json:"proposed_rate"`
}

type Contract struct {
	ID             int64       `json:"id"`
	Proposal       ProposalRef `json:"proposal"`
	ClientID       int64       `json:"client_id"`
	ClientName     string      `json:"client_name"`
	FreelancerID   int64       `json:"freelancer_id"`
	FreelancerName string      `json:"freelancer_name"`
	Status         string      `json:"status"`
	StartDate      string      `json:"start_date"`
	EndDate        string      `json:"end_date"`
}

type Proposal struct {
	ID             int64  `json:"id"`
	ProjectID      int64  `json:"project_id"`
	ProjectTitle   string `json:"project_title"`
	Freelancer     int64  `json:"freelancer"`
	FreelancerName string `json:"freelancer_name"`
	CoverLetter    string `json:"cover_letter"`
	ProposedRate   Amount `json:"proposed_rate"`
	Status         string `json:"status"`
}

// Project is a job posted by a client.
type Project struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Budget      Amount  `json:"budget"`
	Duration    int     `json:"duration"` // days
	Client      int64   `json:"client"`
	ClientName  string  `json:"client_name"`
	Status      string  `json:"status"`
	Skills      []Skill `json:"skills"`
}

// Open reports whether the project still takes proposals.
func (p Project) Open() bool { return p.Status == "open" }

// Review is left on a completed contract.
type Review struct {
	ID           int64  `json:"id"`
	Contract     int64  `json:"contract"`
	Reviewer     int64  `json:"reviewer"`
	ReviewerName string `json:"reviewer_name"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
}

// PortfolioItem is one entry of a freelancer's portfolio.
type PortfolioItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}
