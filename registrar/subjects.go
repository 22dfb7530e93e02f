package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/brequin/brequin/advise/db"
)

const subjectSearchPath = "/ro/ClassSearch/Public/Search/GetSimpleSearchData"

type subjectAreaOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SubjectArea is a registrar subject area. Department is its course code
// department, empty when Code has none.
type SubjectArea struct {
	Code       string
	Name       string
	Department string
}

// DepartmentNames maps subject area names, as requisites spell them, to
// department codes.
type DepartmentNames map[string]string

func NamesOf(areas []SubjectArea) DepartmentNames {
	names := make(DepartmentNames, len(areas))
	for _, area := range areas {
		if area.Department != "" {
			names[area.Name] = area.Department
		}
	}
	return names
}

var searchPanelPattern = regexp.MustCompile(`SearchPanelSetup\('(\[\{.*\}\])'`)

// ParseSubjectAreas reads the subject area options embedded in the class
// search page.
func ParseSubjectAreas(content []byte) ([]SubjectArea, error) {
	submatches := searchPanelPattern.FindSubmatch(content)
	if submatches == nil {
		return nil, fmt.Errorf("no subject areas in search page")
	}
	encodedOptions := []byte(html.UnescapeString(string(submatches[1])))

	var options []subjectAreaOption
	if err := json.Unmarshal(encodedOptions, &options); err != nil {
		return nil, fmt.Errorf("decoding subject areas: %w", err)
	}

	var areas []SubjectArea
	for _, option := range options {
		code := strings.TrimSpace(option.Value)

		labelCode := "(" + code + ")"
		name := strings.TrimSpace(strings.ReplaceAll(option.Label, labelCode, ""))

		area := SubjectArea{Code: code, Name: name}
		if department, ok := DepartmentCode(code); ok {
			area.Department = department
		}
		areas = append(areas, area)
	}
	return areas, nil
}

// SubjectAreas returns the quarter's subject areas that have a department
// code. The rest are logged and left out.
func (c *Client) SubjectAreas(ctx context.Context) ([]SubjectArea, error) {
	query := url.Values{}
	query.Add("term_cd", c.Quarter)
	query.Add("search_type", "subject")

	body, err := c.get(ctx, c.BaseURL+subjectSearchPath, query)
	if err != nil {
		return nil, fmt.Errorf("fetching subject areas: %w", err)
	}
	defer body.Close()
	content, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("fetching subject areas: %w", err)
	}

	all, err := ParseSubjectAreas(content)
	if err != nil {
		return nil, err
	}
	var areas []SubjectArea
	for _, area := range all {
		if area.Department == "" {
			c.Logger.Warn("skipping subject area without department code",
				slog.String("code", area.Code),
				slog.String("name", area.Name))
			continue
		}
		areas = append(areas, area)
	}
	return areas, nil
}

// Departments returns areas as stored departments.
func Departments(areas []SubjectArea) []db.Department {
	departments := make([]db.Department, 0, len(areas))
	for _, area := range areas {
		departments = append(departments, db.Department{Code: area.Department, Name: area.Name})
	}
	return departments
}

var departmentPattern = regexp.MustCompile(`^[A-Z]{2,4}$`)

// DepartmentCode drops the spaces of a registrar subject code and reports
// whether what is left can start a course code.
func DepartmentCode(subjectCode string) (string, bool) {
	code := strings.ToUpper(strings.Join(strings.Fields(subjectCode), ""))
	return code, departmentPattern.MatchString(code)
}
