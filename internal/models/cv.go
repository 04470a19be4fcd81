package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SkillLevel is an ordinal proficiency label. Unknown labels are preserved
// verbatim when rendering; only the canonical set participates in ranking.
type SkillLevel string

const (
	LevelBeginner     SkillLevel = "Beginner"
	LevelIntermediate SkillLevel = "Intermediate"
	LevelAdvanced     SkillLevel = "Advanced"
	LevelExpert       SkillLevel = "Expert"
)

var skillLevelRanks = map[SkillLevel]int{
	LevelBeginner:     1,
	LevelIntermediate: 2,
	LevelAdvanced:     3,
	LevelExpert:       4,
	// French labels produced by some extractions rank alongside their
	// English counterparts.
	"Débutant":      1,
	"Intermédiaire": 2,
	"Avancé":        3,
}

// Rank returns the ordinal position of the level, or 0 for unknown labels.
func (l SkillLevel) Rank() int {
	return skillLevelRanks[l]
}

type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Title     string `json:"title,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Website   string `json:"website,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
}

type ExperienceEntry struct {
	ID           string   `json:"id"`
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Description  string   `json:"description,omitempty"`
	Missions     []string `json:"missions,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	SkillsUsed   []string `json:"skillsUsed,omitempty"`
}

type EducationEntry struct {
	ID          string `json:"id"`
	School      string `json:"school"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

type SkillEntry struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Level SkillLevel `json:"level,omitempty"`
}

type LanguageEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

type ProjectEntry struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
}

type InterestEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CertificationEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

// Competences is the coarse classification produced by extraction,
// independent of the Skills list.
type Competences struct {
	TechnicalBusiness    []string `json:"technicalBusiness,omitempty"`
	Tools                []string `json:"tools,omitempty"`
	ProgrammingLanguages []string `json:"programmingLanguages,omitempty"`
	Methodologies        []string `json:"methodologies,omitempty"`
	SoftSkills           []string `json:"softSkills,omitempty"`
}

// CVRecord is the canonical structured representation of a résumé. Every
// list entry carries a stable id so the UI can address it for edit/delete.
// All dates except BirthDate are free-form display strings.
type CVRecord struct {
	PersonalInfo   PersonalInfo         `json:"personalInfo"`
	Experience     []ExperienceEntry    `json:"experience,omitempty"`
	Education      []EducationEntry     `json:"education,omitempty"`
	Skills         []SkillEntry         `json:"skills,omitempty"`
	Languages      []LanguageEntry      `json:"languages,omitempty"`
	Projects       []ProjectEntry       `json:"projects,omitempty"`
	Interests      []InterestEntry      `json:"interests,omitempty"`
	Certifications []CertificationEntry `json:"certifications,omitempty"`
	Competences    Competences          `json:"competences,omitempty"`
}

// EnsureEntryIDs assigns a uuid to every list entry missing one. Extraction
// output has no ids; persistence and rendering rely on them being present.
func (r *CVRecord) EnsureEntryIDs() {
	for i := range r.Experience {
		if r.Experience[i].ID == "" {
			r.Experience[i].ID = uuid.New().String()
		}
	}
	for i := range r.Education {
		if r.Education[i].ID == "" {
			r.Education[i].ID = uuid.New().String()
		}
	}
	for i := range r.Skills {
		if r.Skills[i].ID == "" {
			r.Skills[i].ID = uuid.New().String()
		}
	}
	for i := range r.Languages {
		if r.Languages[i].ID == "" {
			r.Languages[i].ID = uuid.New().String()
		}
	}
	for i := range r.Projects {
		if r.Projects[i].ID == "" {
			r.Projects[i].ID = uuid.New().String()
		}
	}
	for i := range r.Interests {
		if r.Interests[i].ID == "" {
			r.Interests[i].ID = uuid.New().String()
		}
	}
	for i := range r.Certifications {
		if r.Certifications[i].ID == "" {
			r.Certifications[i].ID = uuid.New().String()
		}
	}
}

// Validate checks the only validated field: an optional birth date must be a
// past calendar date in YYYY-MM-DD form. Everything else is display text.
func (r *CVRecord) Validate() error {
	bd := r.PersonalInfo.BirthDate
	if bd == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", bd)
	if err != nil {
		return fmt.Errorf("invalid birth date %q: expected YYYY-MM-DD", bd)
	}
	if !t.Before(time.Now()) {
		return fmt.Errorf("birth date %q must be in the past", bd)
	}
	return nil
}

// CV is the persisted row owning one CVRecord. The normalized record lives
// in a jsonb column; single-row update semantics, last write wins.
type CV struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string    `gorm:"type:text" json:"title"`
	Data      []byte    `gorm:"type:jsonb" json:"-"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (CV) TableName() string {
	return "cvs"
}

func (c *CV) Record() (*CVRecord, error) {
	var rec CVRecord
	if len(c.Data) == 0 {
		return &rec, nil
	}
	if err := json.Unmarshal(c.Data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode cv data: %w", err)
	}
	return &rec, nil
}

func (c *CV) SetRecord(rec *CVRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode cv data: %w", err)
	}
	c.Data = data
	return nil
}
