package registrar

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const socPath = "/ro/public/soc/"

// Quarter is a term offered by the schedule of classes, such as
// {"24W", "Winter 2024"}.
type Quarter struct {
	Code string
	Name string
}

// ParseQuarters reads the term options of the schedule of classes page.
func ParseQuarters(document *goquery.Document) ([]Quarter, error) {
	var quarters []Quarter
	var err error
	document.Find("select#optSelectTerm").Find("option").EachWithBreak(func(i int, option *goquery.Selection) bool {
		code, exists := option.Attr("value")
		if !exists {
			err = fmt.Errorf("quarter option %d: no code", i)
			return false
		}
		quarters = append(quarters, Quarter{Code: strings.TrimSpace(code), Name: strings.TrimSpace(option.Text())})
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(quarters) == 0 {
		return nil, fmt.Errorf("no quarters in schedule of classes")
	}
	return quarters, nil
}

func (c *Client) Quarters(ctx context.Context) ([]Quarter, error) {
	document, err := c.document(ctx, c.BaseURL+socPath, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching quarters: %w", err)
	}
	return ParseQuarters(document)
}
