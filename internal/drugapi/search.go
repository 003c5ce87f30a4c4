package drugapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"pillscout/internal/domain"
)

// SearchPage is one page of visual-criteria search results. Last reports
// that no further pages should be requested: either the primary search ran
// out of pages, or the results came from the fallback endpoint, which does
// not paginate.
type SearchPage struct {
	Pills []domain.Pill
	Last  bool
}

type searchResponse struct {
	Action    string      `json:"action"`
	TotalPage json.Number `json:"total_page"`
	Data      []struct {
		Name       string `json:"name"`
		Labeler    string `json:"labeler"`
		MpcImprint string `json:"mpc_imprint"`
		RxnavImage string `json:"rxnav_image"`
	} `json:"data"`
}

type imprintFallbackResponse struct {
	Action string `json:"action"`
	Result []struct {
		RxString   string `json:"RXSTRING"`
		Author     string `json:"author"`
		SplImprint string `json:"SPLIMPRINT"`
	} `json:"result"`
}

// unsetCriterion reports whether a search criterion carries no value. The
// UI passes the field's own name as a placeholder when it was left blank,
// and that sentinel must be omitted from the query, never sent literally.
func unsetCriterion(value, sentinel string) bool {
	return value == "" || value == sentinel
}

// SearchPills runs the paginated visual-criteria search. Each criterion is
// individually optional; unset criteria are omitted from the query. When
// the primary search yields nothing and an imprint was supplied, a single
// fallback request against the imprint-only endpoint is issued; its result
// set is final. With no imprint, a lack of results is reported as an empty
// final page, while transport failures surface as errors.
func (c *Client) SearchPills(ctx context.Context, imprint, color, shape string, page int) (SearchPage, error) {
	q := url.Values{}
	q.Set("action", "all")
	q.Set("page_size", fmt.Sprint(PageSize))
	q.Set("pageno", fmt.Sprint(page))

	hasImprint := !unsetCriterion(imprint, "imprint")
	if hasImprint {
		q.Set("imprint", QueryImprint(imprint))
	}
	if !unsetCriterion(color, "color") {
		q.Set("color", color)
	}
	if !unsetCriterion(shape, "shape") {
		q.Set("shape", shape)
	}

	var resp searchResponse
	err := c.getJSON(ctx, c.drugBase+"/api/function_api.php?"+q.Encode(), &resp)
	if err != nil {
		if hasImprint {
			slog.Warn("primary pill search failed, trying imprint fallback", "error", err)
			return c.searchByImprintOnly(ctx, imprint)
		}
		return SearchPage{}, err
	}

	if resp.Action != "success" || resp.TotalPage.String() == "0" {
		if hasImprint {
			return c.searchByImprintOnly(ctx, imprint)
		}
		return SearchPage{Last: true}, nil
	}

	if len(resp.Data) == 0 {
		// A success page with no rows means pagination is exhausted.
		return SearchPage{Last: true}, nil
	}

	pills := make([]domain.Pill, 0, len(resp.Data))
	for _, item := range resp.Data {
		pills = append(pills, domain.Pill{
			Name:     NormalizeName(item.Name),
			Labeler:  item.Labeler,
			Imprint:  DisplayImprint(item.MpcImprint),
			ImageURL: item.RxnavImage,
		})
	}
	return SearchPage{Pills: pills}, nil
}

// searchByImprintOnly is the secondary search matching split imprint
// tokens. It does not paginate, so its page is always final. A failure
// here, after an already-failed primary search, is reported as no results.
func (c *Client) searchByImprintOnly(ctx context.Context, imprint string) (SearchPage, error) {
	q := url.Values{}
	q.Set("action", "get_product_imprint")
	q.Set("splimprint", QueryImprint(imprint))

	var resp imprintFallbackResponse
	err := c.getJSON(ctx, c.drugBase+"/api/webapps.php?"+q.Encode(), &resp)
	if err != nil {
		slog.Warn("imprint fallback search failed", "imprint", imprint, "error", err)
		return SearchPage{Last: true}, nil
	}
	if resp.Action != "success" || len(resp.Result) == 0 {
		return SearchPage{Last: true}, nil
	}

	pills := make([]domain.Pill, 0, len(resp.Result))
	for _, item := range resp.Result {
		pills = append(pills, domain.Pill{
			Name:    item.RxString,
			Labeler: item.Author,
			Imprint: DisplayImprint(item.SplImprint),
		})
	}
	return SearchPage{Pills: pills, Last: true}, nil
}
