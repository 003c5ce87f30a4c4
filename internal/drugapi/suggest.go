package drugapi

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Autocomplete minimum lengths. The two call sites use different
// thresholds and the difference is deliberate: drug-name suggestions need
// more than two characters, imprint suggestions more than one.
const (
	minNameLen    = 2
	minImprintLen = 1
)

// SuggestNames returns drug-name suggestions for a partial term. medType is
// "b" for brand names, "g" for generic. No request is issued until the term
// is longer than two characters. Suggestions are advisory: every failure
// degrades to an empty list so typing is never blocked.
func (c *Client) SuggestNames(ctx context.Context, term, medType string) []string {
	if len(term) <= minNameLen {
		return nil
	}

	form := url.Values{}
	form.Set("action", "auto_popup_array")
	form.Set("med_type", medType)
	form.Set("keyword", term)

	var raw json.RawMessage
	if err := c.postForm(ctx, c.drugBase+"/ajax.php", form, &raw); err != nil {
		return nil
	}
	return decodeSuggestions(raw)
}

// decodeSuggestions handles the endpoint's two payload shapes: a plain
// array, or an object keyed by numeric-looking strings whose values are
// the suggestion list.
func decodeSuggestions(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return trimNonEmpty(list)
	}

	var keyed map[string]string
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := strconv.Atoi(keys[i])
		b, berr := strconv.Atoi(keys[j])
		if aerr != nil || berr != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, keyed[k])
	}
	return trimNonEmpty(values)
}

func trimNonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

type imprintSuggestResponse struct {
	Action string `json:"action"`
	Result []struct {
		SplImprint string `json:"SPLIMPRINT"`
		Author     string `json:"author"`
	} `json:"result"`
}

// SuggestImprints returns imprint-code suggestions for a partial term in
// display form. No request is issued until the term is longer than one
// character; failures degrade to an empty list.
func (c *Client) SuggestImprints(ctx context.Context, term string) []string {
	if len(term) <= minImprintLen {
		return nil
	}

	q := url.Values{}
	q.Set("action", "drug_full_auto_complete")
	q.Set("limit", "7")
	q.Set("search", QueryImprint(term))

	var resp imprintSuggestResponse
	if err := c.getJSON(ctx, c.drugBase+"/api/webapps.php?"+q.Encode(), &resp); err != nil {
		return nil
	}
	if resp.Action != "success" {
		return nil
	}

	suggestions := make([]string, 0, len(resp.Result))
	for _, item := range resp.Result {
		suggestions = append(suggestions, DisplayImprint(item.SplImprint))
	}
	return suggestions
}
