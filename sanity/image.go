package sanity

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// ImageOptions are the image pipeline transforms appended as query
// parameters. Zero values are omitted.
type ImageOptions struct {
	Width   int
	Height  int
	Fit     string
	Auto    string
	Quality int
}

var assetRefPattern = regexp.MustCompile(`(?i)^image-([^-]+)-(\d+x\d+)-([a-z0-9]+)$`)

// ImageURL turns an asset reference ("image-<id>-<w>x<h>-<ext>") or an
// absolute URL into a CDN URL carrying opts. It returns "" when the source
// cannot be resolved, including references seen without a project id.
// The result depends only on its inputs, so the browser and the static
// build produce identical markup.
func (c Config) ImageURL(source string, opts ImageOptions) string {
	source = strings.TrimSpace(source)
	if source == "" {
		return ""
	}

	var base string
	if strings.HasPrefix(source, "http") {
		base = source
	} else {
		m := assetRefPattern.FindStringSubmatch(source)
		if m == nil || c.ProjectID == "" {
			return ""
		}
		dataset := c.Dataset
		if dataset == "" {
			dataset = DefaultDataset
		}
		base = "https://cdn.sanity.io/images/" + c.ProjectID + "/" + dataset + "/" + m[1] + "-" + m[2] + "." + m[3]
	}

	params := make([]string, 0, 5)
	if opts.Width > 0 {
		params = append(params, "w="+strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		params = append(params, "h="+strconv.Itoa(opts.Height))
	}
	if opts.Fit != "" {
		params = append(params, "fit="+url.QueryEscape(opts.Fit))
	}
	if opts.Auto != "" {
		params = append(params, "auto="+url.QueryEscape(opts.Auto))
	}
	if opts.Quality > 0 {
		params = append(params, "q="+strconv.Itoa(opts.Quality))
	}
	if len(params) == 0 {
		return base
	}
	return base + "?" + strings.Join(params, "&")
}
