package registrar

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/brequin/brequin/advise/catalog"
	"github.com/brequin/brequin/advise/requirement"
)

const courseSummaryPath = "/ro/public/soc/Results/GetCourseSummary"

// Path is required filler
const modelTemplate = `{"Term":"%v","SubjectAreaCode":"%v","IsRoot":true,"Path":"0"}`

// Listing is one course of a department's course summary.
type Listing struct {
	Code       string
	Name       string
	TooltipURL string
}

var catalogNumberPattern = regexp.MustCompile(`^[A-Z]*([0-9]+[A-Z]*)$`)

// CourseCode joins a department code and a registrar catalog number such
// as "M51A". Letter prefixes mark cross listings and are dropped.
func CourseCode(department, catalogNumber string) (string, bool) {
	number := strings.ToUpper(strings.Join(strings.Fields(catalogNumber), ""))
	submatches := catalogNumberPattern.FindStringSubmatch(number)
	if submatches == nil {
		return "", false
	}
	code := department + submatches[1]
	if _, ok := requirement.ParseCode(code); !ok {
		return "", false
	}
	return code, true
}

// ParseCourseSummary reads the first section of every course listed in
// the course summary page of area.
func ParseCourseSummary(document *goquery.Document, area SubjectArea, baseURL string) ([]Listing, []error) {
	var listings []Listing
	var errs []error

	document.Find("div.class-not-checked.class-info").Each(func(i int, classInfoDiv *goquery.Selection) {
		fakeClassId, exists := classInfoDiv.Attr("id")
		if !exists {
			errs = append(errs, fmt.Errorf("class %d: no class id", i))
			return
		}

		label := strings.TrimSpace(classInfoDiv.Find("div#" + fakeClassId + "-enroll").Find("label").Text())

		// Skip all but first section
		if !strings.HasSuffix(label, " 1") {
			return
		}

		before, after, found := strings.Cut(label, " - ")
		if !found {
			errs = append(errs, fmt.Errorf("class %s: no catalog number in %q", fakeClassId, label))
			return
		}

		prefix := fmt.Sprintf("Select %v (%v) ", area.Name, area.Code)
		catalogNumber, found := strings.CutPrefix(before, prefix)
		if !found {
			errs = append(errs, fmt.Errorf("class %s: unexpected label %q", fakeClassId, label))
			return
		}
		code, ok := CourseCode(area.Department, catalogNumber)
		if !ok {
			errs = append(errs, fmt.Errorf("class %s: catalog number %q is not a course code", fakeClassId, catalogNumber))
			return
		}

		split := strings.Fields(after)
		name := strings.Join(split[:max(len(split)-2, 0)], " ")

		listing := Listing{Code: code, Name: name}
		if classDetailPath, exists := classInfoDiv.Find("div#" + fakeClassId + "-section").Find("a").Attr("href"); exists {
			listing.TooltipURL = strings.Replace(baseURL+classDetailPath, "ClassDetail", "ClassDetailTooltip", 1)
		}
		listings = append(listings, listing)
	})
	return listings, errs
}

// Courses scrapes the course summary of area and the requisites of every
// listed course. Courses whose requisites cannot be read are kept without
// them.
func (c *Client) Courses(ctx context.Context, area SubjectArea, names DepartmentNames) ([]catalog.Course, error) {
	query := url.Values{}
	query.Add("model", fmt.Sprintf(modelTemplate, c.Quarter, area.Code))
	query.Add("filterFlags", "{}")

	document, err := c.document(ctx, c.BaseURL+courseSummaryPath, query)
	if err != nil {
		return nil, fmt.Errorf("fetching course summary for %s: %w", area.Code, err)
	}
	listings, errs := ParseCourseSummary(document, area, c.BaseURL)
	for _, err := range errs {
		c.Logger.Warn("skipping class", slog.String("department", area.Department), slog.Any("error", err))
	}

	courses := make([]catalog.Course, len(listings))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Workers, 1))
	for i, listing := range listings {
		g.Go(func() error {
			course := catalog.Course{Code: listing.Code, Name: listing.Name, Source: listing.TooltipURL}
			if listing.TooltipURL != "" {
				requisites, err := c.requisites(gCtx, listing.TooltipURL, names)
				if err != nil {
					if gCtx.Err() != nil {
						return gCtx.Err()
					}
					c.Logger.Warn("skipping requisites",
						slog.String("course", listing.Code),
						slog.Any("error", err))
				} else {
					course.Prerequisites = requisites.Prerequisites
					course.Corequisites = requisites.Corequisites
					course.OtherRequirements = requisites.Other
				}
			}
			courses[i] = course
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.Logger.Info("scraped department",
		slog.String("department", area.Department),
		slog.Int("courses", len(courses)))
	return courses, nil
}

func (c *Client) requisites(ctx context.Context, tooltipURL string, names DepartmentNames) (Requisites, error) {
	document, err := c.document(ctx, tooltipURL, nil)
	if err != nil {
		return Requisites{}, err
	}
	return ParseRequisites(document, names)
}
