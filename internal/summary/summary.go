// Package summary extracts the common sections of a CV: summary, skills, experience,
// and education.
package summary

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/resumatch/internal/models"
)

// Placeholders reported for sections the CV does not contain.
const (
	NoSummary    = "No summary available"
	NoSkills     = "No skills available"
	NoExperience = "No experience listed"
	NoEducation  = "No education listed"
)

type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionSummary
	sectionSkills
	sectionExperience
	sectionEducation
	// sectionOther ends the current section without being reported.
	sectionOther
)

// headings maps a lowercased heading word to its section. A heading line is one of these,
// optionally preceded by a qualifier ("Technical Skills", "Work Experience").
var headings = map[string]sectionKind{
	"summary":             sectionSummary,
	"objective":           sectionSummary,
	"skills":              sectionSkills,
	"skill":               sectionSkills,
	"highlights":          sectionSkills,
	"highlight":           sectionSkills,
	"experience":          sectionExperience,
	"work history":        sectionExperience,
	"employment history":  sectionExperience,
	"education":           sectionEducation,
	"academic background": sectionEducation,
	"certifications":      sectionOther,
	"certification":       sectionOther,
	"projects":            sectionOther,
	"languages":           sectionOther,
	"interests":           sectionOther,
	"references":          sectionOther,
}

// maxHeadingWords bounds how long a line may be and still count as a heading.
const maxHeadingWords = 4

// experienceEntry matches "Position  Month YYYY to Month YYYY|Current  Company".
var experienceEntry = regexp.MustCompile(`(?i)(?P<position>.+?)\s*(?P<start_month>\w+)\s(?P<start_year>\d{4})\s*to\s*(?P<end_month>\w+|Current)\s(?P<end_year>\d{4}|)\s*(?P<company>.+)?`)

var mojibake = strings.NewReplacer("\r", "", "Â", "", "ï¼", "")

// Sections holds the parsed CV sections. Missing sections carry the placeholders.
type Sections struct {
	Summary    string
	Skills     []string
	Experience []string
	Education  []string
}

// Extract splits text into sections by heading lines. Repeated headings of the same kind
// are merged in document order.
func Extract(text string) *Sections {
	bodies := make(map[sectionKind][]string)
	current := sectionNone
	for _, raw := range strings.Split(mojibake.Replace(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if kind, rest, ok := heading(line); ok {
			current = kind
			if rest != "" {
				bodies[current] = append(bodies[current], rest)
			}
			continue
		}
		if current != sectionNone && current != sectionOther {
			bodies[current] = append(bodies[current], line)
		}
	}

	s := &Sections{
		Summary:    strings.Join(bodies[sectionSummary], "\n"),
		Skills:     items(bodies[sectionSkills]),
		Experience: experience(bodies[sectionExperience]),
		Education:  items(bodies[sectionEducation]),
	}
	if s.Summary == "" {
		s.Summary = NoSummary
	}
	if len(s.Skills) == 0 {
		s.Skills = []string{NoSkills}
	}
	if len(s.Experience) == 0 {
		s.Experience = []string{NoExperience}
	}
	if len(s.Education) == 0 {
		s.Education = []string{NoEducation}
	}
	return s
}

// Build combines an applicant's profile with the sections parsed from their CV text.
func Build(a *models.Applicant, cvText string) *models.Summary {
	s := Extract(cvText)
	return &models.Summary{
		ApplicantID: a.ID,
		Name:        a.FullName(),
		Email:       a.Email,
		Phone:       a.PhoneNumber,
		Address:     a.Address,
		Summary:     s.Summary,
		Skills:      s.Skills,
		Experience:  s.Experience,
		Education:   s.Education,
	}
}

// heading reports whether line is a section heading. Text after a "Heading:" colon is
// returned as rest so inline lists such as "Skills: Go, SQL" keep their content.
func heading(line string) (sectionKind, string, bool) {
	title, rest := line, ""
	if i := strings.IndexByte(line, ':'); i >= 0 {
		title, rest = line[:i], strings.TrimSpace(line[i+1:])
	}
	fields := strings.Fields(title)
	if len(fields) == 0 || len(fields) > maxHeadingWords || !titleCase(fields) {
		return sectionNone, "", false
	}
	words := strings.Fields(strings.ToLower(title))
	for n := min(2, len(words)); n >= 1; n-- {
		if kind, ok := headings[strings.Join(words[len(words)-n:], " ")]; ok {
			return kind, rest, true
		}
	}
	return sectionNone, "", false
}

// titleCase reports whether every word starts with an upper-case letter, allowing
// lower-case connectors, so "Work Experience" is a heading and "5 years experience" is not.
func titleCase(words []string) bool {
	for _, w := range words {
		switch w {
		case "and", "&", "of":
			continue
		}
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func items(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(strings.TrimLeft(l, "-•*·▪ "))
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func experience(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	body := strings.Join(lines, "\n")
	var out []string
	for _, m := range experienceEntry.FindAllStringSubmatch(body, -1) {
		out = append(out, formatEntry(m))
	}
	if len(out) == 0 {
		return items(lines)
	}
	return out
}

func formatEntry(m []string) string {
	group := func(name string) string {
		return strings.TrimSpace(m[experienceEntry.SubexpIndex(name)])
	}
	start := group("start_month") + " " + group("start_year")
	end := group("end_month")
	if strings.EqualFold(end, "current") {
		end = "Current"
	} else {
		end += " " + group("end_year")
	}
	company := group("company")
	if company == "" {
		company = "Unknown"
	}
	return strings.TrimSpace(group("position") + " " + start + " to " + strings.TrimSpace(end) + " " + company)
}
