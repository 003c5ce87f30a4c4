package drugapi

import (
	"context"
	"net/url"
	"strings"

	"pillscout/internal/domain"
)

type detailsResponse struct {
	Action    string `json:"action"`
	Medicines struct {
		Name             string `json:"name"`
		BrandName        string `json:"brand_name"`
		GenericName      string `json:"generic_name"`
		ProductNDC       string `json:"product_ndc"`
		MpcImprint       string `json:"mpc_imprint"`
		ManufacturerName string `json:"manufacturer_name"`
		Website          string `json:"website"`
		ProductType      string `json:"product_type"`
		Direction        string `json:"direction"`
		OtherInformation string `json:"other_information"`
		Warnings         string `json:"warnings"`
	} `json:"medicines"`
}

// DrugDetails fetches the detail record for a single drug. Matching is
// case-sensitive upstream, so the name is uppercased before querying.
// ErrNotFound is returned when the server reports failure.
func (c *Client) DrugDetails(ctx context.Context, name string) (*domain.DrugDetails, error) {
	q := url.Values{}
	q.Set("action", "drug_details")
	q.Set("keyword", strings.ToUpper(name))

	var resp detailsResponse
	if err := c.getJSON(ctx, c.drugBase+"/api/webapps.php?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Action != "success" {
		return nil, ErrNotFound
	}

	m := resp.Medicines
	return &domain.DrugDetails{
		Name:             m.Name,
		BrandName:        m.BrandName,
		GenericName:      m.GenericName,
		NDC:              m.ProductNDC,
		Imprint:          DisplayImprint(m.MpcImprint),
		Manufacturer:     m.ManufacturerName,
		Website:          m.Website,
		ProductType:      m.ProductType,
		Direction:        m.Direction,
		OtherInformation: m.OtherInformation,
		Warnings:         m.Warnings,
	}, nil
}

type indexResponse struct {
	Action    string   `json:"action"`
	Medicines []string `json:"medicines"`
}

// DrugIndex fetches the drug names for one letter of the alphabetic index.
// medType selects brand ("b") or generic ("g") names. An unsuccessful
// response is an empty index, not an error.
func (c *Client) DrugIndex(ctx context.Context, letter, medType string) ([]string, error) {
	q := url.Values{}
	q.Set("action", "key_search_list")
	q.Set("keyword", letter)
	q.Set("medtype", medType)

	var resp indexResponse
	if err := c.getJSON(ctx, c.drugBase+"/api/webapps.php?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Action != "success" {
		return nil, nil
	}
	return resp.Medicines, nil
}

type diseaseEntry struct {
	Contents struct {
		FullSummary string `json:"FullSummary"`
	} `json:"contents"`
}

// diseaseSeparator is rendered between concatenated summaries.
const diseaseSeparator = `<hr style="margin:20px 0;"/>`

// DiseaseSummary fetches the HTML summary for a disease term, joining all
// non-empty summaries with a visible separator. An empty or absent result
// yields an empty string, which the UI treats as "no information found".
func (c *Client) DiseaseSummary(ctx context.Context, term string) (string, error) {
	q := url.Values{}
	q.Set("term", term)

	var entries []diseaseEntry
	if err := c.getJSON(ctx, c.diseaseBase+"/api/response.php?"+q.Encode(), &entries); err != nil {
		return "", err
	}

	var summaries []string
	for _, e := range entries {
		if e.Contents.FullSummary != "" {
			summaries = append(summaries, e.Contents.FullSummary)
		}
	}
	return strings.Join(summaries, diseaseSeparator), nil
}
