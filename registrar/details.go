package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/brequin/brequin/advise/catalog"
)

const courseDetailsPath = "/course/getcoursedetail"

type courseEntry struct {
	Title       string `json:"course_title"`
	Units       string `json:"unt_rng"`
	Level       string `json:"crs_career_lvl_nm"`
	Description string `json:"crs_desc"`
}

// CourseDetails is a course as the course catalog API describes it.
type CourseDetails struct {
	Code        string
	Name        string
	Units       int
	Level       string
	Description string
}

var unitsPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)`)

// parseUnits reads the lower end of a unit range such as "2.0 to 4.0".
func parseUnits(text string) int {
	submatches := unitsPattern.FindStringSubmatch(text)
	if submatches == nil {
		return 0
	}
	units, err := strconv.ParseFloat(submatches[1], 64)
	if err != nil {
		return 0
	}
	return int(units)
}

// ParseCourseDetails decodes the course catalog API response for area.
func ParseCourseDetails(content []byte, area SubjectArea) ([]CourseDetails, []error) {
	var entries []courseEntry
	if err := json.Unmarshal(content, &entries); err != nil {
		return nil, []error{fmt.Errorf("decoding course details for %s: %w", area.Code, err)}
	}

	var details []CourseDetails
	var errs []error
	for _, entry := range entries {
		catalogNumber, name, found := strings.Cut(entry.Title, ". ")
		if !found {
			errs = append(errs, fmt.Errorf("course title %q: no catalog number", entry.Title))
			continue
		}
		code, ok := CourseCode(area.Department, catalogNumber)
		if !ok {
			errs = append(errs, fmt.Errorf("course title %q: catalog number is not a course code", entry.Title))
			continue
		}
		details = append(details, CourseDetails{
			Code:        code,
			Name:        strings.TrimSpace(name),
			Units:       parseUnits(entry.Units),
			Level:       strings.TrimSuffix(entry.Level, " Courses"),
			Description: strings.TrimSpace(entry.Description),
		})
	}
	return details, errs
}

// CourseDetails fetches the catalog entries of every course in area.
func (c *Client) CourseDetails(ctx context.Context, area SubjectArea) ([]CourseDetails, error) {
	query := url.Values{}
	query.Add("subjectarea", area.Code)

	body, err := c.get(ctx, c.APIURL+courseDetailsPath, query)
	if err != nil {
		return nil, fmt.Errorf("fetching course details for %s: %w", area.Code, err)
	}
	defer body.Close()
	content, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("fetching course details for %s: %w", area.Code, err)
	}

	details, errs := ParseCourseDetails(content, area)
	if details == nil && len(errs) > 0 {
		return nil, errs[0]
	}
	for _, err := range errs {
		c.Logger.Warn("skipping course details", slog.String("department", area.Department), slog.Any("error", err))
	}
	return details, nil
}

// Course returns d as a catalog course without requisites.
func (d CourseDetails) Course() catalog.Course {
	return catalog.Course{Code: d.Code, Name: d.Name, Units: d.Units, Description: d.Description}
}

// MergeDetails fills the descriptions and units of courses from details.
// Scraped names are kept.
func MergeDetails(courses []catalog.Course, details []CourseDetails) {
	byCode := make(map[string]CourseDetails, len(details))
	for _, d := range details {
		byCode[d.Code] = d
	}
	for i := range courses {
		d, ok := byCode[courses[i].Code]
		if !ok {
			continue
		}
		if courses[i].Name == "" {
			courses[i].Name = d.Name
		}
		courses[i].Description = d.Description
		courses[i].Units = d.Units
	}
}
