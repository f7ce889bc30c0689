package models

import (
	"strings"
	"time"
)

// Social holds optional social network links, stored inline on the profile row.
type Social struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
}

// Profile is a developer profile. Each user owns at most one (unique user_id).
// Experience and education entries are ordered newest-first when loaded.
type Profile struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UserID         uint         `gorm:"uniqueIndex;not null" json:"user_id"`
	User           User         `gorm:"foreignKey:UserID" json:"user"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Status         string       `gorm:"not null" json:"status"`
	Skills         []string     `gorm:"serializer:json" json:"skills"`
	Bio            string       `gorm:"type:text" json:"bio,omitempty"`
	GithubUsername string       `json:"githubusername,omitempty"`
	Social         Social       `gorm:"embedded;embeddedPrefix:social_" json:"social"`
	Experience     []Experience `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"experience"`
	Education      []Education  `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"education"`
	CreatedAt      time.Time    `json:"date"`
	UpdatedAt      time.Time    `json:"-"`
}

// Experience is a single work history entry on a profile.
type Experience struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProfileID   uint       `gorm:"not null;index" json:"-"`
	Title       string     `gorm:"not null" json:"title"`
	Company     string     `gorm:"not null" json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `gorm:"not null" json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
}

// Education is a single schooling entry on a profile.
type Education struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ProfileID    uint       `gorm:"not null;index" json:"-"`
	School       string     `gorm:"not null" json:"school"`
	Degree       string     `gorm:"not null" json:"degree"`
	FieldOfStudy string     `gorm:"not null" json:"fieldofstudy"`
	From         time.Time  `gorm:"not null" json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
}

// ProfileUpdate is the flat create-or-update payload for a profile.
// Empty fields are left untouched on an existing profile, so clients can
// send only the fields they want to change.
type ProfileUpdate struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Status         string `json:"status"`
	Skills         string `json:"skills"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubusername"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Instagram      string `json:"instagram"`
	Linkedin       string `json:"linkedin"`
}

// Apply merges the non-empty fields of the update into the profile.
func (u ProfileUpdate) Apply(p *Profile) {
	if u.Company != "" {
		p.Company = u.Company
	}
	if u.Website != "" {
		p.Website = u.Website
	}
	if u.Location != "" {
		p.Location = u.Location
	}
	if u.Status != "" {
		p.Status = u.Status
	}
	if u.Skills != "" {
		p.Skills = SplitSkills(u.Skills)
	}
	if u.Bio != "" {
		p.Bio = u.Bio
	}
	if u.GithubUsername != "" {
		p.GithubUsername = u.GithubUsername
	}
	if u.Youtube != "" {
		p.Social.Youtube = u.Youtube
	}
	if u.Twitter != "" {
		p.Social.Twitter = u.Twitter
	}
	if u.Facebook != "" {
		p.Social.Facebook = u.Facebook
	}
	if u.Instagram != "" {
		p.Social.Instagram = u.Instagram
	}
	if u.Linkedin != "" {
		p.Social.Linkedin = u.Linkedin
	}
}

// SplitSkills turns a comma separated skill list into trimmed entries.
// Blank segments are dropped.
func SplitSkills(s string) []string {
	parts := strings.Split(s, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		skills = append(skills, p)
	}
	return skills
}
